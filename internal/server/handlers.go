package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pulseworks/marketpulse/internal/domain"
	apperrors "github.com/pulseworks/marketpulse/internal/errors"
)

type analyzeRequest struct {
	Symbol string `json:"symbol"`
}

type analyzeResponse struct {
	domain.MarketAssessment
	// Stale marks an assessment served from the expired cache because the
	// upstream provider was rate limited.
	Stale bool `json:"stale,omitempty"`
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Symbol == "" {
		return apperrors.ValidationError("symbol is required")
	}

	assessment, stale, err := s.service.AnalyzeMarketSentiment(c.Request().Context(), req.Symbol)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, analyzeResponse{MarketAssessment: assessment, Stale: stale})
}

type trendsRequest struct {
	Symbols []string `json:"symbols"`
}

func (s *Server) handleTrends(c echo.Context) error {
	var req trendsRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	analysis, err := s.service.AnalyzeMarketTrends(c.Request().Context(), req.Symbols)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, analysis)
}

type monitorRequest struct {
	Watchlist []string `json:"watchlist"`
}

func (s *Server) handleMonitor(c echo.Context) error {
	var req monitorRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	monitor, err := s.service.MonitorMarket(c.Request().Context(), req.Watchlist)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, monitor)
}
