package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter counts requests in fixed windows shared by every API
// instance using the same Redis
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewRedisLimiter creates a limiter allowing limit requests per window
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration, prefix string) (*RedisLimiter, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if limit <= 0 {
		return nil, errors.New("limit must be greater than 0")
	}
	if window < time.Second {
		return nil, errors.New("window must be at least one second")
	}

	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: prefix,
	}, nil
}

// Allow counts one request for key in the current window
func (r *RedisLimiter) Allow(ctx context.Context, key string) (*Info, error) {
	now := time.Now()
	windowStart := now.Truncate(r.window)
	redisKey := fmt.Sprintf("%sratelimit:%s:%d", r.prefix, key, windowStart.Unix())

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("redis rate limit check failed: %w", err)
	}

	count := int(incr.Val())
	return &Info{
		Limit:     r.limit,
		Remaining: max(r.limit-count, 0),
		ResetAt:   windowStart.Add(r.window),
		Allowed:   count <= r.limit,
	}, nil
}
