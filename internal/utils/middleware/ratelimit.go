package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quickai/server/internal/infra/ratelimit"
)

const (
	// RateLimitRemaining is the header for remaining requests.
	RateLimitRemaining = "X-RateLimit-Remaining"
	// RateLimitLimit is the header for the limit.
	RateLimitLimit = "X-RateLimit-Limit"
	// RateLimitReset is the header for reset time.
	RateLimitReset = "X-RateLimit-Reset"
	// RetryAfter is the header for retry time.
	RetryAfter = "Retry-After"
)

// RateLimiter checks one request against a limit.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*ratelimit.Result, error)
}

// RateLimitConfig holds rate limit configuration.
type RateLimitConfig struct {
	// Limit is the maximum number of requests.
	Limit int
	// Window is the time window.
	Window time.Duration
	// KeyFunc generates the rate limit key from request.
	// Default uses client IP.
	KeyFunc func(*gin.Context) string
	// Logger receives limiter errors. Optional.
	Logger *zap.Logger
}

// RateLimit returns a middleware that limits requests using the given limiter.
// Limiter errors let the request through.
func RateLimit(limiter RateLimiter, cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string {
			return "ip:" + c.ClientIP()
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		if limiter == nil || cfg.Limit <= 0 {
			c.Next()
			return
		}

		res, err := limiter.Allow(c.Request.Context(), cfg.KeyFunc(c), cfg.Limit, cfg.Window)
		if err != nil {
			cfg.Logger.Warn("Rate limit check failed", zap.Error(err))
			c.Next()
			return
		}

		c.Header(RateLimitLimit, strconv.Itoa(cfg.Limit))
		c.Header(RateLimitRemaining, strconv.FormatInt(res.Remaining, 10))
		c.Header(RateLimitReset, strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed {
			c.Header(RetryAfter, strconv.Itoa(int(cfg.Window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many requests, please try again later",
			})
			return
		}

		c.Next()
	}
}

// RateLimitByUser limits by authenticated user, falling back to client IP.
func RateLimitByUser(limiter RateLimiter, limit int, window time.Duration, log *zap.Logger) gin.HandlerFunc {
	return RateLimit(limiter, RateLimitConfig{
		Limit:  limit,
		Window: window,
		Logger: log,
		KeyFunc: func(c *gin.Context) string {
			if userID := GetUserID(c); userID != "" {
				return "user:" + userID
			}
			return "ip:" + c.ClientIP()
		},
	})
}
