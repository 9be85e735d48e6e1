package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadClean(t *testing.T) (*Config, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	return LoadConfig()
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadClean(t)
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "catalog", cfg.MongoDB.Database)
	assert.Equal(t, uint64(10), cfg.MongoDB.MaxPoolSize)
	assert.Equal(t, 10, cfg.MongoDB.QueryTimeout)

	assert.Equal(t, 8000, cfg.API.Port)
	assert.Equal(t, []string{"*"}, cfg.API.AllowedOrigins)
	assert.False(t, cfg.API.TrustProxy)
	assert.Equal(t, "./public", cfg.API.PublicDir)
	assert.Equal(t, int64(1048576), cfg.API.JSONBodyLimit)
	assert.Equal(t, 100, cfg.API.RateLimit.RequestsPerSecond)
	assert.Equal(t, 100, cfg.API.RateLimit.Burst)

	assert.Equal(t, 1024, cfg.Storage.CategoryCacheSize)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CATALOG_API_PORT", "9100")
	t.Setenv("CATALOG_MONGODB_URI", "mongodb://db.internal:27017")
	t.Setenv("CATALOG_MONGODB_DATABASE", "catalog_test")

	cfg, err := loadClean(t)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.API.Port)
	assert.Equal(t, "mongodb://db.internal:27017", cfg.MongoDB.URI)
	assert.Equal(t, "catalog_test", cfg.MongoDB.Database)
}

func TestLoadConfig_RejectsInvalidPort(t *testing.T) {
	t.Setenv("CATALOG_API_PORT", "70000")

	_, err := loadClean(t)

	assert.Error(t, err)
}
