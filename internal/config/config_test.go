package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "@hourly", cfg.SheetReloadSpec)
	assert.Equal(t, 30, cfg.RateLimitPerMin)
	assert.NotEmpty(t, cfg.DBConn)
}

func TestNewConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RATE_LIMIT_PER_MIN", "5")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5, cfg.RateLimitPerMin)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
}

func TestNewConfigRejectsNonPositiveRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MIN", "0")

	_, err := NewConfig()
	assert.Error(t, err)
}

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MIN", "lots")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.RateLimitPerMin)
}
