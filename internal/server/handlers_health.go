package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status: "healthy",
		Uptime: time.Since(s.startTime).Round(time.Second).String(),
	})
}

type capability struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Method      string         `json:"method"`
	Path        string         `json:"path"`
	Parameters  map[string]any `json:"parameters"`
}

func (s *Server) handleCapabilities(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]capability{
		"capabilities": {
			{
				Name:        "analyze_market_sentiment",
				Description: "Analyze sentiment for a specific stock symbol",
				Method:      http.MethodPost,
				Path:        "/analyze",
				Parameters: map[string]any{
					"symbol": map[string]string{"type": "string", "description": "Stock symbol (e.g., AAPL, TSLA)"},
				},
			},
			{
				Name:        "analyze_market_trends",
				Description: "Analyze trends across multiple stocks",
				Method:      http.MethodPost,
				Path:        "/trends",
				Parameters: map[string]any{
					"symbols": map[string]string{"type": "array", "description": "Stock symbols to compare"},
				},
			},
			{
				Name:        "monitor_market",
				Description: "Market sentiment snapshot for a watchlist",
				Method:      http.MethodPost,
				Path:        "/monitor",
				Parameters: map[string]any{
					"watchlist": map[string]string{"type": "array", "description": "Stock symbols to monitor"},
				},
			},
		},
	})
}
