package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENVIRONMENT", "GEMINI_API_KEY", "GEMINI_MODEL",
		"GEMINI_MIN_INTERVAL", "SESSION_TTL", "SESSION_SWEEP_INTERVAL",
		"SESSION_BACKEND", "REDIS_URL",
	} {
		// t.Setenv registers the restore; the variable must then be truly
		// unset because envconfig treats empty as present.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8002", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Empty(t, cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, 1500*time.Millisecond, cfg.GeminiInterval)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.SessionSweep)
	assert.Equal(t, "memory", cfg.SessionBackend)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_MIN_INTERVAL", "2s")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
	assert.Equal(t, 2*time.Second, cfg.GeminiInterval)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, "redis", cfg.SessionBackend)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}
