package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RateLimiter decides whether a request identified by key may proceed.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimiterFunc adapts a function to the RateLimiter interface.
type RateLimiterFunc func(ctx context.Context, key string) (bool, error)

func (f RateLimiterFunc) Allow(ctx context.Context, key string) (bool, error) {
	return f(ctx, key)
}

// RateLimit throttles requests per client IP. The limiter backend is treated
// as advisory: if it errors, the request is let through and the failure is
// logged, so a rate-limiter outage never takes the API down with it.
func RateLimit(limiter RateLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				log.Warn().Err(err).Str("ip", c.RealIP()).Msg("rate limit check failed, allowing request")
				return next(c)
			}
			if !allowed {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}
