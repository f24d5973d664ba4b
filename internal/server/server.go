// Package server provides the HTTP transport over the assessment engine:
// request admission, routing, and JSON encoding. All domain behavior lives
// below it.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pulseworks/marketpulse/internal/domain"
	"github.com/pulseworks/marketpulse/internal/platform/config"
	"github.com/pulseworks/marketpulse/internal/ratelimit"
)

// assessmentService is the subset of engine operations the handlers need.
type assessmentService interface {
	AnalyzeMarketSentiment(ctx context.Context, symbol string) (domain.MarketAssessment, bool, error)
	AnalyzeMarketTrends(ctx context.Context, symbols []string) (domain.TrendAnalysis, error)
	MonitorMarket(ctx context.Context, watchlist []string) (domain.MarketMonitor, error)
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	service assessmentService
	limiter *ratelimit.Limiter
	burst   *ratelimit.BurstGuard

	startTime time.Time
}

func NewServer(cfg *config.Config, service assessmentService, limiter *ratelimit.Limiter, burst *ratelimit.BurstGuard) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:      e,
		config:    cfg,
		service:   service,
		limiter:   limiter,
		burst:     burst,
		startTime: time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
