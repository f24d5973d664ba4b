package server

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/pulseworks/marketpulse/internal/errors"
)

func (s *Server) registerRoutes() {
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(correlationMiddleware())
	s.echo.Use(apperrors.Middleware())
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	s.echo.GET("/", s.handleRoot)
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/capabilities", s.handleCapabilities)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Admission control applies only to the evaluation operations.
	admitted := s.echo.Group("", s.admissionMiddleware())
	admitted.POST("/analyze", s.handleAnalyze)
	admitted.POST("/trends", s.handleTrends)
	admitted.POST("/monitor", s.handleMonitor)
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.InfoContext(c.Request().Context(), "Request", attrs...)
			return nil
		},
	})
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Welcome to MarketPulse",
		"docs":    "/capabilities",
	})
}
