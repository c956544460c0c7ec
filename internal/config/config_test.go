package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 5, cfg.WarBanLimit)
	assert.Equal(t, 24, cfg.JWTExpirationHours)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("POLL_INTERVAL_MS", "1500")
	t.Setenv("WAR_BAN_LIMIT", "3")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 3, cfg.WarBanLimit)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
}

func TestLoad_RejectsZeroBanLimit(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("WAR_BAN_LIMIT", "0")
	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvDuration_IgnoresGarbage(t *testing.T) {
	t.Setenv("POLL_INTERVAL_MS", "soon")
	assert.Equal(t, time.Second, getEnvDuration("POLL_INTERVAL_MS", time.Second))
}
