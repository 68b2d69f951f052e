package pages_test

import (
	"context"
	"errors"
	"testing"

	"route-publisher/core/database"
	"route-publisher/core/pages"
	"route-publisher/core/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupRepository(t *testing.T) (pages.Repository, *gorm.DB) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, pages.Migrate(db))
	repo, err := pages.NewRepository(db)
	require.NoError(t, err)
	return repo, db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}
	return gormDB, mock
}

func TestNewRepository_NilDB(t *testing.T) {
	_, err := pages.NewRepository(nil)
	assert.True(t, errors.Is(err, utils.ErrConfiguration))
}

func TestRepository_Lifecycle(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "Landing", []string{"www.landing.io", "landing.io"})
	require.NoError(t, err)
	assert.Equal(t, "landing", created.Slug)
	assert.Equal(t, pages.StateDraft, created.PublishState)

	t.Run("Draft Has No Version", func(t *testing.T) {
		page, err := repo.FindBySlug(ctx, "landing")
		require.NoError(t, err)
		require.NotNil(t, page)
		assert.Nil(t, page.CurrentVersion)
		assert.Nil(t, page.LastPublishAt)
	})

	t.Run("Custom Domains Sorted", func(t *testing.T) {
		hosts, err := repo.CustomDomains(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"landing.io", "www.landing.io"}, hosts)
	})

	t.Run("Record Version", func(t *testing.T) {
		v1, err := repo.RecordVersion(ctx, created.ID, pages.Version{Version: "v1", BlobKey: "pages/x/v1/index.html", BlobURL: "https://cdn/v1"})
		require.NoError(t, err)
		v2, err := repo.RecordVersion(ctx, created.ID, pages.Version{Version: "v2", BlobKey: "pages/x/v2/index.html", BlobURL: "https://cdn/v2"})
		require.NoError(t, err)
		assert.NotEqual(t, v1.ID, v2.ID)

		page, err := repo.FindBySlug(ctx, "landing")
		require.NoError(t, err)
		require.NotNil(t, page.CurrentVersion)
		assert.Equal(t, pages.StatePublished, page.PublishState)
		assert.Equal(t, "v2", page.CurrentVersion.Version)
		assert.Equal(t, "https://cdn/v2", page.CurrentVersion.BlobURL)
		assert.Equal(t, v2.ID, page.CurrentVersionID)
		assert.NotNil(t, page.LastPublishAt)
	})

	t.Run("List Published", func(t *testing.T) {
		_, err := repo.Create(ctx, "draft-only", nil)
		require.NoError(t, err)

		list, err := repo.ListPublished(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "landing", list[0].Slug)
		require.NotNil(t, list[0].CurrentVersion)
		assert.Equal(t, "v2", list[0].CurrentVersion.Version)
	})
}

func TestRepository_NotFound(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	page, err := repo.FindBySlug(ctx, "ghost")
	assert.NoError(t, err)
	assert.Nil(t, page)

	_, err = repo.RecordVersion(ctx, "missing-id", pages.Version{Version: "v1", BlobKey: "k", BlobURL: "u"})
	assert.ErrorIs(t, err, pages.ErrPageNotFound)
}

func TestRepository_DanglingVersion(t *testing.T) {
	repo, db := setupRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "broken", nil)
	require.NoError(t, err)
	require.NoError(t, db.Model(&pages.Page{}).Where("id = ?", created.ID).
		Updates(map[string]any{"current_version_id": "gone", "publish_state": pages.StatePublished}).Error)

	page, err := repo.FindBySlug(ctx, "broken")
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, "gone", page.CurrentVersionID)
	assert.Nil(t, page.CurrentVersion)
}

func TestRepository_DatabaseError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo, err := pages.NewRepository(db)
	require.NoError(t, err)

	mock.ExpectQuery(".*").WillReturnError(assert.AnError)
	_, err = repo.FindBySlug(context.Background(), "landing")
	assert.ErrorIs(t, err, assert.AnError)

	mock.ExpectQuery(".*").WillReturnError(assert.AnError)
	_, err = repo.ListPublished(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestHosts(t *testing.T) {
	hosts := pages.Hosts("Landing", "sites.example.com", []string{"Landing.io", "", "landing.sites.example.com", "landing.io"})
	assert.Equal(t, []string{"landing.sites.example.com", "landing.io"}, hosts)
	assert.Equal(t, "a.example.com", pages.PrimaryHost("a", ".example.com"))
}
