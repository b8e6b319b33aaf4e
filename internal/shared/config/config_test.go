package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, "88", cfg.Server.Port)
	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "https://esi.evetech.net/latest", cfg.ESI.BaseURL)
	assert.Equal(t, 10, cfg.Sync.RetryAttempts)
	assert.Equal(t, 10*time.Second, cfg.Sync.RetryDelay)
	assert.Equal(t, 216*time.Second, cfg.Sync.Interval)
	assert.False(t, cfg.Logging.JSONFormat)
	assert.False(t, cfg.AdminEnabled())
	require.NoError(t, cfg.validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/cache.db")
	t.Setenv("SYNC_RETRY_DELAY", "250ms")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, CacheBackendSQLite, cfg.Cache.Backend)
	assert.Equal(t, "/tmp/cache.db", cfg.Database.SQLitePath)
	assert.Equal(t, 250*time.Millisecond, cfg.Sync.RetryDelay)
	assert.True(t, cfg.Logging.JSONFormat)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown backend", func(c *Config) { c.Cache.Backend = "mongo" }, "unknown CACHE_BACKEND"},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }, "JWT_SECRET"},
		{"zero attempts", func(c *Config) { c.Sync.RetryAttempts = 0 }, "SYNC_RETRY_ATTEMPTS"},
		{"zero interval", func(c *Config) { c.Sync.Interval = 0 }, "SYNC_INTERVAL"},
		{"postgres without name", func(c *Config) {
			c.Cache.Backend = CacheBackendPostgres
			c.Database.Name = ""
		}, "DB_NAME"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := load()
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
