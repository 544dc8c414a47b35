package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"botdash/gateway/internal/util"
	"botdash/gateway/pkg/redis"

	"github.com/gin-gonic/gin"
)

// RateLimiter middleware limits requests per window
type RateLimiter struct {
	redis     *redis.Client
	limit     int
	window    time.Duration
	keyPrefix string
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration, keyPrefix string) *RateLimiter {
	return &RateLimiter{
		redis:     redisClient,
		limit:     limit,
		window:    window,
		keyPrefix: keyPrefix,
	}
}

// Limit returns a middleware that limits requests
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := c.ClientIP()
		if sessionID, exists := c.Get(CtxSessionID); exists {
			identifier = fmt.Sprintf("session:%v", sessionID)
		}

		key := fmt.Sprintf("ratelimit:%s:%s", rl.keyPrefix, identifier)

		allowed, err := rl.checkRateLimit(c.Request.Context(), key)
		if err != nil {
			// Redis trouble must not take the dashboard down
			c.Next()
			return
		}

		if !allowed {
			util.AbortWithCustomError(c, http.StatusTooManyRequests,
				util.ErrCodeRateLimit, "Rate limit exceeded. Please try again later.")
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) checkRateLimit(ctx context.Context, key string) (bool, error) {
	count, err := rl.redis.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	// Set expiration on first request
	if count == 1 {
		if err := rl.redis.Expire(ctx, key, rl.window); err != nil {
			return false, err
		}
	}

	return count <= int64(rl.limit), nil
}

// RateLimit creates a rate limiting middleware with default settings (per IP)
func RateLimit(redisClient *redis.Client, limit int) gin.HandlerFunc {
	return NewRateLimiter(redisClient, limit, time.Minute, "general").Limit()
}

// AuthRateLimit creates a rate limiting middleware for auth endpoints
func AuthRateLimit(redisClient *redis.Client, limit int) gin.HandlerFunc {
	return NewRateLimiter(redisClient, limit, time.Minute, "auth").Limit()
}
