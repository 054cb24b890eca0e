package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Limit is the maximum number of requests per window
	Limit int64
	// Window is the fixed counting window
	Window time.Duration
	// Store is the counter backend (in-memory or Redis)
	Store cache.RateLimitStore
	// KeyFunc extracts the rate limit key; defaults to client IP
	KeyFunc func(*gin.Context) string
	// Logger for store failures
	Logger *zap.Logger
}

// RateLimit returns a rate limiting middleware over the given store.
// Authenticated callers are limited per user, anonymous callers per IP.
// A failing store lets the request through rather than taking the API down.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = defaultRateLimitKey
	}

	return func(c *gin.Context) {
		key := keyFunc(c)

		count, err := cfg.Store.Increment(c.Request.Context(), key, cfg.Window)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Error("rate limit store failure, allowing request",
					zap.String("key", key),
					zap.Error(err),
				)
			}
			c.Next()
			return
		}

		remaining := cfg.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.FormatInt(cfg.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > cfg.Limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponseWithRequestID(
					dto.ErrCodeRateLimited,
					"Too many requests. Please try again later.",
					GetRequestID(c),
				))
			return
		}

		c.Next()
	}
}

// defaultRateLimitKey keys authenticated requests by user and anonymous
// requests by client IP
func defaultRateLimitKey(c *gin.Context) string {
	if principal, ok := GetPrincipal(c); ok {
		return "user:" + principal.UserID.String()
	}
	return "ip:" + c.ClientIP()
}
