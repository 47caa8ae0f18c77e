package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 10, cfg.Attendance.DefaultGracePeriod)
	assert.Equal(t, 10*time.Minute, cfg.Analytics.CacheTTL)
	assert.True(t, cfg.Analytics.CacheEnabled)
	assert.False(t, cfg.Auth.Enabled)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TIMEZONE", "Asia/Jakarta")
	t.Setenv("DEFAULT_GRACE_PERIOD", "15")
	t.Setenv("ANALYTICS_CACHE_TTL", "90s")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173, https://classdy.app ,")
	t.Setenv("REPORTS_SIGNED_URL_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", loc.String())
	assert.Equal(t, 15, cfg.Attendance.DefaultGracePeriod)
	assert.Equal(t, 90*time.Second, cfg.Analytics.CacheTTL)
	assert.Equal(t, []string{"http://localhost:5173", "https://classdy.app"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 24*time.Hour, cfg.Reports.SignedURLTTL)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	t.Run("timezone", func(t *testing.T) {
		t.Setenv("TIMEZONE", "Mars/Olympus")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("grace period", func(t *testing.T) {
		t.Setenv("DEFAULT_GRACE_PERIOD", "-5")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("auth without key", func(t *testing.T) {
		t.Setenv("AUTH_ENABLED", "true")
		_, err := Load()
		assert.Error(t, err)
	})
}
