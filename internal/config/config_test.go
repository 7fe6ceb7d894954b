package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATA_DIR", "DEEPSEEK_API_KEY", "TAVILY_API_KEY",
		"JWT_SECRET", "JWT_EXPIRES_IN", "RATE_LIMIT_WINDOW", "RATE_LIMIT_REQUESTS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 100, cfg.RateLimitRequests)
	assert.False(t, cfg.AIConfigured())
	assert.False(t, cfg.SearchConfigured())
}

func TestLoadTreatsPlaceholderKeysAsUnset(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "your_deepseek_api_key_here")
	t.Setenv("TAVILY_API_KEY", "your_tavily_api_key_here")

	cfg := Load()

	assert.Empty(t, cfg.DeepSeekAPIKey)
	assert.Empty(t, cfg.TavilyAPIKey)
	assert.False(t, cfg.AIConfigured())
	assert.False(t, cfg.SearchConfigured())
}

func TestLoadRealKeys(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "sk-real")
	t.Setenv("TAVILY_API_KEY", "tvly-real")

	cfg := Load()

	assert.True(t, cfg.AIConfigured())
	assert.True(t, cfg.SearchConfigured())
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("RATE_LIMIT_REQUESTS", "25")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")
	t.Setenv("JWT_EXPIRES_IN", "24h")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 25, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("RATE_LIMIT_REQUESTS", "lots")
	t.Setenv("RATE_LIMIT_WINDOW", "soon")

	cfg := Load()

	assert.Equal(t, 100, cfg.RateLimitRequests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
}
