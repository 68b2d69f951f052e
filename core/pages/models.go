package pages

import "time"

const (
	StateDraft     = "draft"
	StatePublished = "published"
)

// Page is the 'pages' table.
type Page struct {
	ID               string     `gorm:"column:id;primaryKey;type:varchar(36)"`
	Slug             string     `gorm:"column:slug;uniqueIndex;type:varchar(191);not null"`
	PublishState     string     `gorm:"column:publish_state;type:varchar(16);not null;default:draft"`
	CurrentVersionID *string    `gorm:"column:current_version_id;type:varchar(36)"`
	LastPublishAt    *time.Time `gorm:"column:last_publish_at"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
}

// TableName overrides the table name.
func (Page) TableName() string {
	return "pages"
}

// PageVersion is the 'page_versions' table. Rows are immutable.
type PageVersion struct {
	ID        string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	PageID    string    `gorm:"column:page_id;index;type:varchar(36);not null"`
	Version   string    `gorm:"column:version;type:varchar(64);not null"`
	BlobKey   string    `gorm:"column:blob_key;type:varchar(255);not null"`
	BlobURL   string    `gorm:"column:blob_url;type:varchar(512);not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName overrides the table name.
func (PageVersion) TableName() string {
	return "page_versions"
}

// PageDomain is the 'page_domains' table: custom hosts served by a page.
type PageDomain struct {
	ID     uint   `gorm:"column:id;primaryKey;autoIncrement"`
	PageID string `gorm:"column:page_id;index;type:varchar(36);not null"`
	Host   string `gorm:"column:host;uniqueIndex;type:varchar(191);not null"`
}

// TableName overrides the table name.
func (PageDomain) TableName() string {
	return "page_domains"
}

// Models lists every table owned by this package.
func Models() []any {
	return []any{Page{}, PageVersion{}, PageDomain{}}
}

// Version is the current artifact of a page.
type Version struct {
	ID        string    `json:"id"`
	Version   string    `json:"version"`
	BlobKey   string    `json:"blobKey"`
	BlobURL   string    `json:"blobUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublishedPage is a page joined with its current version.
// CurrentVersion is nil when the page has no (resolvable) current version.
type PublishedPage struct {
	ID               string     `json:"id"`
	Slug             string     `json:"slug"`
	PublishState     string     `json:"publishState"`
	CurrentVersionID string     `json:"currentVersionId,omitempty"`
	LastPublishAt    *time.Time `json:"lastPublishAt"`
	CurrentVersion   *Version   `json:"currentVersion"`
}

func toVersion(v PageVersion) *Version {
	return &Version{
		ID:        v.ID,
		Version:   v.Version,
		BlobKey:   v.BlobKey,
		BlobURL:   v.BlobURL,
		CreatedAt: v.CreatedAt,
	}
}
