package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TWITTER_BEARER_TOKEN", "token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "twitter", cfg.TextSource)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 100, cfg.RateLimitRequests)
	assert.Equal(t, time.Hour, cfg.RateLimitWindow)
	assert.Equal(t, 5, cfg.MaxTopics)
	assert.InDelta(t, 0.2, cfg.StrongThreshold, 1e-9)
	assert.Equal(t, 100, cfg.SearchLimit)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TWITTER_BEARER_TOKEN", "token")
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL", "30m")
	t.Setenv("RATE_LIMIT_REQUESTS", "10")
	t.Setenv("STRONG_THRESHOLD", "0.35")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 10, cfg.RateLimitRequests)
	assert.InDelta(t, 0.35, cfg.StrongThreshold, 1e-9)
}

func TestLoad_TwitterSourceRequiresToken(t *testing.T) {
	t.Setenv("TEXT_SOURCE", "twitter")
	t.Setenv("TWITTER_BEARER_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TWITTER_BEARER_TOKEN")
}

func TestLoad_RSSSourceRequiresFeeds(t *testing.T) {
	t.Setenv("TEXT_SOURCE", "rss")
	t.Setenv("NEWS_FEEDS", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NEWS_FEEDS")
}

func TestLoad_RSSSource(t *testing.T) {
	t.Setenv("TEXT_SOURCE", "rss")
	t.Setenv("NEWS_FEEDS", "https://example.com/rss")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "rss", cfg.TextSource)
}

func TestLoad_UnknownSourceRejected(t *testing.T) {
	t.Setenv("TEXT_SOURCE", "carrier-pigeon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEXT_SOURCE")
}

func TestValidate_RejectsNonPositiveTunables(t *testing.T) {
	base := func() *Config {
		return &Config{
			TextSource:         "twitter",
			TwitterBearerToken: "token",
			CacheTTL:           time.Hour,
			RateLimitRequests:  100,
			RateLimitWindow:    time.Hour,
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validate(base()))
	})

	t.Run("zero rate limit", func(t *testing.T) {
		cfg := base()
		cfg.RateLimitRequests = 0
		assert.Error(t, validate(cfg))
	})

	t.Run("zero window", func(t *testing.T) {
		cfg := base()
		cfg.RateLimitWindow = 0
		assert.Error(t, validate(cfg))
	})

	t.Run("zero cache ttl", func(t *testing.T) {
		cfg := base()
		cfg.CacheTTL = 0
		assert.Error(t, validate(cfg))
	})
}
