package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_PORT", "")
	t.Setenv("CACHE_BOOK_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 10*time.Minute, cfg.Cache.BookTTL)
	assert.Equal(t, "*/30 * * * *", cfg.Worker.ReconcileCron)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL())
}

func TestLoad_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("LOGIN_LOCK_WINDOW", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.LoginLockWindow)
}
