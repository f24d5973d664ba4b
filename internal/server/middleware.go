package server

import (
	"github.com/labstack/echo/v4"

	apperrors "github.com/pulseworks/marketpulse/internal/errors"
	"github.com/pulseworks/marketpulse/internal/platform/correlation"
)

// correlationMiddleware assigns each request an ID carried through the
// context so log lines from one evaluation can be tied together.
func correlationMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get("X-Request-ID")
			if id == "" {
				id = correlation.NewID()
			}
			ctx := correlation.WithID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set("X-Request-ID", id)
			return next(c)
		}
	}
}

// admissionMiddleware consults the burst guard and the fixed-window quota for
// the caller's IP before an evaluation is allowed to run. Rejections record
// nothing against the client's window.
func (s *Server) admissionMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			clientID := c.RealIP()

			if !s.burst.Allow(clientID) {
				return apperrors.RateLimitedError("rate limit exceeded", 1)
			}
			if !s.limiter.Allow(clientID) {
				retryAfter := int(s.limiter.Window().Seconds())
				return apperrors.RateLimitedError("rate limit exceeded", retryAfter)
			}

			return next(c)
		}
	}
}
