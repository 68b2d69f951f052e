package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"route-publisher/core/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrPageNotFound is returned when a slug has no page.
	ErrPageNotFound = errors.New("page not found")
	// ErrNoCurrentVersion is returned when a page was never (completely) published.
	ErrNoCurrentVersion = errors.New("page has no current version")
)

// Repository is the source of truth for pages and their versions.
type Repository interface {
	// FindBySlug returns nil (and no error) when the slug is unknown.
	FindBySlug(ctx context.Context, slug string) (*PublishedPage, error)
	// ListPublished returns every page in the published state.
	ListPublished(ctx context.Context) ([]PublishedPage, error)
	// CustomDomains returns the extra hosts of a page, sorted.
	CustomDomains(ctx context.Context, pageID string) ([]string, error)
	// RecordVersion stores a new version and makes it current.
	RecordVersion(ctx context.Context, pageID string, v Version) (*Version, error)
	// Create adds a draft page with optional custom domains.
	Create(ctx context.Context, slug string, customDomains []string) (*PublishedPage, error)
}

type gormRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository creates a gorm backed Repository.
func NewRepository(db *gorm.DB) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("pages: %w: database connection is nil", utils.ErrConfiguration)
	}
	return &gormRepository{db: db, now: time.Now}, nil
}

// Migrate creates or updates the page tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func (r *gormRepository) FindBySlug(ctx context.Context, slug string) (*PublishedPage, error) {
	var page Page
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&page).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find page %s: %w", slug, err)
	}
	return r.withCurrentVersion(ctx, page)
}

func (r *gormRepository) ListPublished(ctx context.Context) ([]PublishedPage, error) {
	var rows []Page
	if err := r.db.WithContext(ctx).Where("publish_state = ?", StatePublished).Order("slug").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list published pages: %w", err)
	}

	versionIDs := make([]string, 0, len(rows))
	for _, p := range rows {
		if p.CurrentVersionID != nil {
			versionIDs = append(versionIDs, *p.CurrentVersionID)
		}
	}

	versions := make(map[string]PageVersion, len(versionIDs))
	if len(versionIDs) > 0 {
		var vs []PageVersion
		if err := r.db.WithContext(ctx).Where("id IN ?", versionIDs).Find(&vs).Error; err != nil {
			return nil, fmt.Errorf("failed to load page versions: %w", err)
		}
		for _, v := range vs {
			versions[v.ID] = v
		}
	}

	out := make([]PublishedPage, 0, len(rows))
	for _, p := range rows {
		pp := toPublished(p)
		if p.CurrentVersionID != nil {
			if v, ok := versions[*p.CurrentVersionID]; ok {
				pp.CurrentVersion = toVersion(v)
			}
		}
		out = append(out, pp)
	}
	return out, nil
}

func (r *gormRepository) CustomDomains(ctx context.Context, pageID string) ([]string, error) {
	var hosts []string
	err := r.db.WithContext(ctx).Model(&PageDomain{}).Where("page_id = ?", pageID).Order("host").Pluck("host", &hosts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load domains for page %s: %w", pageID, err)
	}
	return hosts, nil
}

func (r *gormRepository) RecordVersion(ctx context.Context, pageID string, v Version) (*Version, error) {
	row := PageVersion{
		ID:        v.ID,
		PageID:    pageID,
		Version:   v.Version,
		BlobKey:   v.BlobKey,
		BlobURL:   v.BlobURL,
		CreatedAt: r.now().UTC(),
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		res := tx.Model(&Page{}).Where("id = ?", pageID).Updates(map[string]any{
			"current_version_id": row.ID,
			"publish_state":      StatePublished,
			"last_publish_at":    row.CreatedAt,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPageNotFound
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record version %s for page %s: %w", v.Version, pageID, err)
	}
	return toVersion(row), nil
}

func (r *gormRepository) Create(ctx context.Context, slug string, customDomains []string) (*PublishedPage, error) {
	page := Page{
		ID:           uuid.NewString(),
		Slug:         strings.ToLower(strings.TrimSpace(slug)),
		PublishState: StateDraft,
		CreatedAt:    r.now().UTC(),
	}
	if page.Slug == "" {
		return nil, fmt.Errorf("page slug is required")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&page).Error; err != nil {
			return err
		}
		for _, host := range customDomains {
			if err := tx.Create(&PageDomain{PageID: page.ID, Host: strings.ToLower(host)}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create page %s: %w", slug, err)
	}

	pp := toPublished(page)
	return &pp, nil
}

func (r *gormRepository) withCurrentVersion(ctx context.Context, page Page) (*PublishedPage, error) {
	pp := toPublished(page)
	if page.CurrentVersionID == nil {
		return &pp, nil
	}

	var v PageVersion
	err := r.db.WithContext(ctx).Where("id = ?", *page.CurrentVersionID).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Dangling pointer: reported as an incomplete publish.
		return &pp, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load current version of %s: %w", page.Slug, err)
	}
	pp.CurrentVersion = toVersion(v)
	return &pp, nil
}

func toPublished(p Page) PublishedPage {
	pp := PublishedPage{
		ID:            p.ID,
		Slug:          p.Slug,
		PublishState:  p.PublishState,
		LastPublishAt: p.LastPublishAt,
	}
	if p.CurrentVersionID != nil {
		pp.CurrentVersionID = *p.CurrentVersionID
	}
	return pp
}

// Hosts returns the hosts a page is served on: the primary host
// {slug}.{baseDomain} first, then the custom domains, without duplicates.
func Hosts(slug, baseDomain string, custom []string) []string {
	primary := PrimaryHost(slug, baseDomain)
	hosts := []string{primary}
	seen := map[string]struct{}{primary: {}}
	for _, h := range custom {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		hosts = append(hosts, h)
	}
	return hosts
}

// PrimaryHost is the host every page gets under the base domain.
func PrimaryHost(slug, baseDomain string) string {
	return strings.ToLower(slug) + "." + strings.TrimPrefix(strings.ToLower(baseDomain), ".")
}
