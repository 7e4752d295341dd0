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

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:    ServerConfig{Address: ":8080"},
			RateLimit: RateLimitConfig{RequestsPerMinute: 30, Burst: 5},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validate(base()))
	})

	t.Run("empty address", func(t *testing.T) {
		cfg := base()
		cfg.Server.Address = ""
		assert.Error(t, validate(cfg))
	})

	t.Run("zero rate limit", func(t *testing.T) {
		cfg := base()
		cfg.RateLimit.RequestsPerMinute = 0
		assert.Error(t, validate(cfg))
	})

	t.Run("redis enabled without address", func(t *testing.T) {
		cfg := base()
		cfg.Redis.Enabled = true
		assert.Error(t, validate(cfg))
	})
}
