package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window counter shared by every instance pointed
// at the same Redis.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

// NewRedisLimiter returns a limiter storing counters under prefix.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "hostpro:ratelimit"
	}
	return &RedisLimiter{client: client, limit: int64(limit), window: window, prefix: prefix}
}

func (rl *RedisLimiter) key(k string) string {
	return fmt.Sprintf("%s:%s", rl.prefix, k)
}

// Take increments the counter for key and starts its window on the first
// hit. On a Redis error it returns true with the error.
func (rl *RedisLimiter) Take(ctx context.Context, key string) (bool, error) {
	k := rl.key(key)

	pipe := rl.client.Pipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("redis rate limit: %w", err)
	}
	return incr.Val() <= rl.limit, nil
}
