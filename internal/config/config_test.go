package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REDIS_URI", "redis://cache:6379")
	t.Setenv("SESSION_TTL_MINUTES", "30")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()

	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, StoreTiered, cfg.StoreBackend)
	assert.True(t, cfg.NeedsMongo())
	assert.True(t, cfg.NeedsRedis())
}

func TestGetEnvIntFallsBack(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	assert.Equal(t, 5, getEnvInt("SOME_INT", 5))
	t.Setenv("SOME_INT", "12")
	assert.Equal(t, 12, getEnvInt("SOME_INT", 5))
}

func TestAIConfigSignalMode(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("SIGNAL_MODE", "ensemble")
	cfg := DefaultAIConfig()
	assert.False(t, cfg.IsEnabled())
	assert.Equal(t, SignalModeKeyword, cfg.EffectiveSignalMode())

	cfg.APIKey = "k"
	assert.Equal(t, SignalModeEnsemble, cfg.EffectiveSignalMode())
	assert.Equal(t, cfg.BaseURL+"/m:generateContent", cfg.ModelEndpoint("m"))
}
