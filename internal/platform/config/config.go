package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// Text source: "twitter" or "rss"
	TextSource         string `env:"TEXT_SOURCE" default:"twitter"`
	TwitterBearerToken string `env:"TWITTER_BEARER_TOKEN"`
	TwitterBaseURL     string `env:"TWITTER_BASE_URL" default:"https://api.twitter.com"`
	NewsFeeds          string `env:"NEWS_FEEDS"`

	StockAPIBaseURL string `env:"STOCK_API_BASE_URL" default:"https://stooq.com"`

	CacheTTL          time.Duration `env:"CACHE_TTL" default:"1h"`
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" default:"100"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" default:"1h"`
	BurstPerSecond    float64       `env:"BURST_PER_SECOND" default:"5"`
	BurstSize         int           `env:"BURST_SIZE" default:"5"`

	MaxTopics       int     `env:"MAX_TOPICS" default:"5"`
	StrongThreshold float64 `env:"STRONG_THRESHOLD" default:"0.2"`
	SearchLimit     int     `env:"SEARCH_MAX_RESULTS" default:"100"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.TextSource {
	case "twitter":
		if cfg.TwitterBearerToken == "" {
			return fmt.Errorf("TWITTER_BEARER_TOKEN is required when TEXT_SOURCE=twitter")
		}
	case "rss":
		if cfg.NewsFeeds == "" {
			return fmt.Errorf("NEWS_FEEDS is required when TEXT_SOURCE=rss")
		}
	default:
		return fmt.Errorf("TEXT_SOURCE must be \"twitter\" or \"rss\", got %q", cfg.TextSource)
	}

	if cfg.RateLimitRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", cfg.RateLimitRequests)
	}
	if cfg.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", cfg.RateLimitWindow)
	}
	if cfg.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", cfg.CacheTTL)
	}

	return nil
}
