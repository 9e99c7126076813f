package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisChecker is a fixed-window counter shared across instances. Each key
// gets an INCR per request; the first increment of a window sets the expiry.
// Fixed windows allow up to 2x the limit across a window boundary, which is
// acceptable for a pre-check guarding an idempotent-ish decision endpoint.
type RedisChecker struct {
	client   redis.UniversalClient
	requests int
	window   time.Duration
	prefix   string
}

// NewRedis constructs the Redis-backed checker.
func NewRedis(client redis.UniversalClient, cfg Config) (*RedisChecker, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.Requests <= 0 {
		return nil, fmt.Errorf("rate limit requests must be positive")
	}
	if cfg.Window <= 0 {
		return nil, fmt.Errorf("rate limit window must be positive")
	}
	return &RedisChecker{
		client:   client,
		requests: cfg.Requests,
		window:   cfg.Window,
		prefix:   "ratelimit:creditline:",
	}, nil
}

func (c *RedisChecker) Allow(ctx context.Context, key string) (Result, error) {
	redisKey := c.prefix + key

	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	// NX so only the window's first request arms the expiry; later requests
	// must not extend it.
	pipe.ExpireNX(ctx, redisKey, c.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("redis rate limit check: %w", err)
	}

	if incr.Val() <= int64(c.requests) {
		return Result{Allowed: true}, nil
	}

	ttl, err := c.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = c.window
	}
	return Result{Allowed: false, RetryAfter: ttl}, nil
}
