package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Result is the outcome of one limit check.
type Result struct {
	Allowed   bool
	Remaining int64
	Limit     int64
	ResetAt   time.Time
}

// slidingWindow trims entries older than the window, then admits the request
// only if the remaining count stays within the limit.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local window_start = tonumber(ARGV[1])
	local now = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local member = ARGV[4]
	local expiry = tonumber(ARGV[5])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current = redis.call('ZCARD', key)
	if current + 1 > limit then
		return {0, limit - current}
	end

	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, expiry)

	return {1, limit - current - 1}
`)

// Limiter is a Redis sliding-window request limiter.
type Limiter struct {
	redis  redis.UniversalClient
	prefix string
}

// New creates a limiter storing its windows under "ratelimit:".
func New(client redis.UniversalClient) *Limiter {
	return &Limiter{redis: client, prefix: "ratelimit:"}
}

// Allow records one request for key and reports whether it fits in limit
// requests per window.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	now := time.Now()
	member := strconv.FormatInt(now.UnixNano(), 10) + ":" + uuid.NewString()

	raw, err := slidingWindow.Run(ctx, l.redis, []string{l.prefix + key},
		now.Add(-window).UnixNano(),
		now.UnixNano(),
		limit,
		member,
		window.Milliseconds()+60000,
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	allowed, _ := strconv.ParseInt(fmt.Sprint(raw[0]), 10, 64)
	remaining, _ := strconv.ParseInt(fmt.Sprint(raw[1]), 10, 64)
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:   allowed == 1,
		Remaining: remaining,
		Limit:     int64(limit),
		ResetAt:   now.Add(window),
	}, nil
}
