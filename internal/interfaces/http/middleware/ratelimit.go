package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tessera/internal/infrastructure/ratelimit"
	"tessera/internal/shared/utils"
)

// RateLimiter enforces a per-client-IP request budget. The limiter backend
// is shared across server instances, so limits hold cluster-wide.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	config  ratelimit.Config
	scope   string
}

// NewRateLimiter creates the middleware. scope namespaces the limiter keys
// so different route groups (say, login versus general API) get
// independent budgets for the same IP.
func NewRateLimiter(limiter ratelimit.RateLimiter, config ratelimit.Config, scope string) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		config:  config,
		scope:   scope,
	}
}

// Limit returns a Gin middleware that enforces the rate limit per client IP.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.scope + ":" + c.ClientIP()

		allowed, err := rl.limiter.Allow(key, rl.config)
		if err != nil {
			// If the limiter backend is unavailable, allow the request
			// rather than blocking all traffic.
			c.Next()
			return
		}

		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
