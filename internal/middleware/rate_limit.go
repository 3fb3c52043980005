package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"gridwatch/backend/internal/util"
	"gridwatch/backend/pkg/logger"
	"gridwatch/backend/pkg/redis"
)

// Counter is the fixed-window store behind the limiter. *redis.Client implements it.
type Counter interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
}

// RateLimiter middleware limits requests per window
type RateLimiter struct {
	counter Counter
	limit   int
	window  time.Duration
	action  string
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(counter Counter, limit int, window time.Duration, action string) *RateLimiter {
	return &RateLimiter{
		counter: counter,
		limit:   limit,
		window:  window,
		action:  action,
	}
}

// Limit returns a middleware that limits requests
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		identifier := c.ClientIP()
		if userID, exists := c.Get(util.ContextUserID); exists {
			identifier = fmt.Sprintf("user:%v", userID)
		}

		allowed, err := rl.allow(c.Request.Context(), redis.RateLimitKey(identifier, rl.action))
		if err != nil {
			// fail open
			logger.GetLogger().Warnf("rate limit check failed: %v", err)
			c.Next()
			return
		}

		if !allowed {
			util.AbortWithError(c, util.ErrRateLimit("Rate limit exceeded. Please try again later."))
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) allow(ctx context.Context, key string) (bool, error) {
	count, err := rl.counter.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := rl.counter.Expire(ctx, key, rl.window); err != nil {
			return false, err
		}
	}

	return count <= int64(rl.limit), nil
}

// RateLimit limits general API traffic per user or IP per minute
func RateLimit(counter Counter, limit int) gin.HandlerFunc {
	return NewRateLimiter(counter, limit, time.Minute, "general").Limit()
}

// AuthRateLimit limits auth endpoints per IP per minute
func AuthRateLimit(counter Counter, limit int) gin.HandlerFunc {
	return NewRateLimiter(counter, limit, time.Minute, "auth").Limit()
}
