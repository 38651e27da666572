package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cigfip/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "cigfip", cfg.DB.User)
	assert.Equal(t, int64(20), cfg.Upload.MaxFileSizeMB)
	assert.Equal(t, 200, cfg.Upload.MaxPages)
	assert.Equal(t, "gfip", cfg.S3.ArchivePrefix)
	assert.False(t, cfg.S3.Enabled())
	assert.Equal(t, "http", cfg.Extractor.PrimaryConfig().Provider)
	assert.Nil(t, cfg.Extractor.SecondaryConfig())
	assert.False(t, cfg.Registry.Enabled)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CIGFIP_S3_BUCKET", "archive")
	t.Setenv("CIGFIP_S3_ARCHIVE_PREFIX", "/ci/gfip/")
	t.Setenv("CIGFIP_EXTRACTOR_SECONDARY_PROVIDER", "http")
	t.Setenv("CIGFIP_EXTRACTOR_SECONDARY_ENDPOINT", "http://ocr-2/extract/ci-gfip-modelo-1")
	t.Setenv("CIGFIP_REGISTRY_ENABLED", "true")
	t.Setenv("CIGFIP_REGISTRY_BASE_URL", "http://registry/api/")
	t.Setenv("CIGFIP_BATCH_CONCURRENCY", "0")
	t.Setenv("CIGFIP_CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.S3.Enabled())
	assert.Equal(t, "ci/gfip", cfg.S3.ArchivePrefix)
	secondary := cfg.Extractor.SecondaryConfig()
	require.NotNil(t, secondary)
	assert.Equal(t, "http://ocr-2/extract/ci-gfip-modelo-1", secondary.Endpoint)
	assert.True(t, cfg.Registry.Enabled)
	assert.Equal(t, "http://registry/api", cfg.Registry.BaseURL)
	assert.Equal(t, 1, cfg.Batch.Concurrency)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PlatformPort(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestDBConfig_DSN(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/n?sslmode=disable", db.DSN())
}
