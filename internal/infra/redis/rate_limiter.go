package redis

import (
	"context"
	"time"
)

// RateLimiter is a fixed-window counter used to cap webhook deliveries per
// remote address. The gateway retries rejected deliveries, so throttling is
// safe.
type RateLimiter struct {
	cli RedisClient
}

func NewRateLimiter(cli RedisClient) *RateLimiter {
	return &RateLimiter{cli: cli}
}

func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := r.cli.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := r.cli.Expire(ctx, key, window); err != nil {
			return false, err
		}
	}

	return count <= int64(limit), nil
}
