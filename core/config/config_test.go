package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"route-publisher/core/routestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, routestore.DriverRedis, cfg.Cache.Driver)
	assert.Equal(t, 3, cfg.Publish.MaxRetries)
	assert.Equal(t, 1000, cfg.Publish.BaseDelayMs)
	assert.Equal(t, 31536000, cfg.Publish.TTLSeconds)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "PUBLISH_MAX_RETRIES=5\nCACHE_DRIVER=memory\nPUBLISH_BASE_DOMAIN=pages.test\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0644))
	t.Cleanup(func() {
		os.Unsetenv("PUBLISH_MAX_RETRIES")
		os.Unsetenv("CACHE_DRIVER")
		os.Unsetenv("PUBLISH_BASE_DOMAIN")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Publish.MaxRetries)
	assert.Equal(t, routestore.DriverMemory, cfg.Cache.Driver)
	assert.Equal(t, "pages.test", cfg.Publish.BaseDomain)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"MissingCacheAddress", func(c *Config) { c.Cache.Address = "" }, "cache.address"},
		{"UnknownDriver", func(c *Config) { c.Cache.Driver = "etcd" }, "unknown cache.driver"},
		{"MissingDatabase", func(c *Config) { c.Database.Name = "" }, "database.name"},
		{"ZeroRetries", func(c *Config) { c.Publish.MaxRetries = 0 }, "max_retries"},
		{"ZeroTTL", func(c *Config) { c.Publish.TTLSeconds = 0 }, "ttl_seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
