package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/eldenheights/ehsas/internal/pkg/apperrors"
	"github.com/eldenheights/ehsas/internal/pkg/metrics"
	"github.com/eldenheights/ehsas/internal/pkg/ratelimit"
)

// RateLimit enforces a per client IP limit on one route. When the limiter
// backend fails the request is let through.
func RateLimit(limiter ratelimit.Limiter, route string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}

		allowed, err := limiter.Allow(c.Request.Context(), route+":"+ip)
		if err != nil {
			log.Warn().Err(err).Str("route", route).Msg("Rate limiter unavailable")
			c.Next()
			return
		}
		if !allowed {
			metrics.RateLimited.WithLabelValues(route).Inc()
			c.Header("Retry-After", "60")
			HandleAPIError(c, apperrors.ErrRateLimited)
			return
		}
		c.Next()
	}
}
