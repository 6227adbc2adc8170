package ratelimit

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/tayyargsayer/projectgen/internal/errors"
	"github.com/tayyargsayer/projectgen/internal/logger"
	"github.com/tayyargsayer/projectgen/internal/metrics"
)

// Middleware rejects requests from clients that exceeded their budget.
// Clients are keyed by IP.
func Middleware(limiter *Limiter, perMinute int, log *logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("ratelimit")
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !limiter.Allow(key) {
			metrics.RateLimitedTotal.Inc()
			log.Warn("request rate limited", "client_ip", key, "path", c.Request.URL.Path)
			apierrors.AbortWithRateLimit(c, apierrors.RequestLimitExceeded(perMinute))
			return
		}
		c.Next()
	}
}
