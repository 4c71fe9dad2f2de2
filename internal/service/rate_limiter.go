package service

import (
	"context"
	"time"

	"github.com/diabify/platform/pkg/redis"
)

// RedisRateLimiter is a fixed-window counter per key, backed by Redis.
// Used to throttle admin login attempts per client IP.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisRateLimiter creates a limiter allowing limit attempts per window
func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisRateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Allow increments the counter for key and reports whether it is within the
// limit. The first increment in a window sets the window TTL.
func (r *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := r.client.Incr(ctx, "ratelimit:"+key).Result()
	if err != nil {
		return true, err // fail open on limiter errors
	}
	if count == 1 {
		_ = r.client.Expire(ctx, "ratelimit:"+key, r.window).Err()
	}
	return count <= int64(r.limit), nil
}
