package checks

import (
	"context"
	"errors"
	"testing"

	"route-publisher/core/database"
	"route-publisher/core/pages"
	"route-publisher/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupSQLite(t *testing.T) *gorm.DB {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	return db
}

func TestCheckServerIntegrity_NilDB(t *testing.T) {
	report, err := CheckServerIntegrity(nil)
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestCheckServerIntegrity_Migrated(t *testing.T) {
	db := setupSQLite(t)
	require.NoError(t, pages.Migrate(db))

	report, err := CheckServerIntegrity(db)
	require.NoError(t, err)
	assert.True(t, report.Matched)
	assert.Equal(t, "sqlite", report.Driver)
	assert.Len(t, report.Tables, 3)
	for name, tbl := range report.Tables {
		assert.Equal(t, "ok", tbl.Status, name)
		assert.Empty(t, tbl.MissingColumns, name)
	}
}

func TestCheckServerIntegrity_MissingTableAndColumn(t *testing.T) {
	db := setupSQLite(t)
	require.NoError(t, db.AutoMigrate(&pages.Page{}))
	require.NoError(t, db.Exec("CREATE TABLE page_versions (id TEXT PRIMARY KEY, page_id TEXT, version TEXT, blob_key TEXT, created_at DATETIME)").Error)

	report, err := CheckServerIntegrity(db)
	require.NoError(t, err)
	assert.False(t, report.Matched)

	assert.Equal(t, "ok", report.Tables["pages"].Status)
	assert.Equal(t, "missing", report.Tables["page_domains"].Status)

	versions := report.Tables["page_versions"]
	assert.Equal(t, "error", versions.Status)
	assert.Equal(t, []string{"blob_url"}, versions.MissingColumns)
}

func TestCheckStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "pages").Return(true, nil)

		report, err := CheckStorage(ctx, client, "pages")
		require.NoError(t, err)
		assert.Equal(t, &StorageReport{Bucket: "pages", Exists: true}, report)
	})

	t.Run("Error", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "pages").Return(false, errors.New("access denied"))

		_, err := CheckStorage(ctx, client, "pages")
		assert.ErrorContains(t, err, "access denied")
	})

	t.Run("Nil Client", func(t *testing.T) {
		_, err := CheckStorage(ctx, nil, "pages")
		assert.Error(t, err)
	})
}

func TestFixStorage(t *testing.T) {
	client := new(mocks.Client)
	client.On("MakeBucket", mock.Anything, "pages", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil).Once()

	err := FixStorage(context.Background(), client, "pages", "eu-west-1", zap.NewNop())
	assert.NoError(t, err)
	client.AssertExpectations(t)
}

func TestCheckCache(t *testing.T) {
	ctx := context.Background()

	ok := CheckCache(ctx, "redis", func(context.Context) error { return nil })
	assert.True(t, ok.Reachable)
	assert.Empty(t, ok.Error)

	down := CheckCache(ctx, "redis", func(context.Context) error { return errors.New("dial tcp: connection refused") })
	assert.False(t, down.Reachable)
	assert.Equal(t, "dial tcp: connection refused", down.Error)

	memory := CheckCache(ctx, "memory", nil)
	assert.True(t, memory.Reachable)
	assert.Equal(t, "memory", memory.Driver)
}
