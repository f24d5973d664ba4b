package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pulseworks/marketpulse/internal/adapter/newsfeed"
	"github.com/pulseworks/marketpulse/internal/adapter/stocks"
	"github.com/pulseworks/marketpulse/internal/adapter/twitterapi"
	"github.com/pulseworks/marketpulse/internal/cache"
	"github.com/pulseworks/marketpulse/internal/domain"
	"github.com/pulseworks/marketpulse/internal/engine"
	"github.com/pulseworks/marketpulse/internal/platform/config"
	"github.com/pulseworks/marketpulse/internal/platform/logging"
	"github.com/pulseworks/marketpulse/internal/ratelimit"
	"github.com/pulseworks/marketpulse/internal/sentiment"
	"github.com/pulseworks/marketpulse/internal/server"
)

const evictionInterval = 1 * time.Minute

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupTextSearcher(cfg *config.Config) domain.TextSearcher {
	if cfg.TextSource == "rss" {
		feeds := strings.Split(cfg.NewsFeeds, ",")
		slog.Info("Using RSS news feeds as text source", "feeds", len(feeds))
		return newsfeed.New(feeds)
	}
	return twitterapi.New(cfg.TwitterBaseURL, cfg.TwitterBearerToken)
}

func runGracefulShutdown(srv *server.Server, stoppers ...func()) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		for _, stop := range stoppers {
			stop()
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	assessmentCache := cache.New[domain.MarketAssessment](cfg.CacheTTL, clock)
	stopCacheEviction := assessmentCache.StartEvictionTimer(evictionInterval)

	limiter := ratelimit.NewLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, clock)
	stopLimiterEviction := limiter.StartEvictionTimer(evictionInterval)
	burst := ratelimit.NewBurstGuard(cfg.BurstPerSecond, cfg.BurstSize)

	searcher := setupTextSearcher(cfg)
	prices := stocks.New(cfg.StockAPIBaseURL)
	scorer := sentiment.NewLexiconScorer()

	engineCfg := engine.DefaultConfig()
	engineCfg.StrongThreshold = cfg.StrongThreshold
	engineCfg.MaxTopics = cfg.MaxTopics
	engineCfg.SearchLimit = cfg.SearchLimit

	eng := engine.New(assessmentCache, searcher, prices, scorer, clock, engineCfg)

	srv := server.NewServer(cfg, eng, limiter, burst)

	done := runGracefulShutdown(srv, stopCacheEviction, stopLimiterEviction)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
