package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryChecker is an in-process per-key token bucket. Buckets refill at
// Requests per Window with a burst of Requests, so a quiet customer can spend
// a full window's allowance at once. Idle buckets are evicted so the map does
// not grow with the key population.
type MemoryChecker struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	limit rate.Limit
	burst int
	// idleTTL is how long an untouched bucket survives before Cleanup
	// removes it.
	idleTTL time.Duration
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemory constructs the in-process checker.
func NewMemory(cfg Config) (*MemoryChecker, error) {
	if cfg.Requests <= 0 {
		return nil, fmt.Errorf("rate limit requests must be positive")
	}
	if cfg.Window <= 0 {
		return nil, fmt.Errorf("rate limit window must be positive")
	}
	return &MemoryChecker{
		buckets: make(map[string]*bucket),
		limit:   rate.Every(cfg.Window / time.Duration(cfg.Requests)),
		burst:   cfg.Requests,
		idleTTL: 3 * cfg.Window,
	}, nil
}

func (c *MemoryChecker) Allow(_ context.Context, key string) (Result, error) {
	c.mu.Lock()
	b, ok := c.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.buckets[key] = b
	}
	b.lastSeen = time.Now()
	c.mu.Unlock()

	if b.limiter.Allow() {
		return Result{Allowed: true}, nil
	}

	// Reserve to learn the wait, then cancel so the denied request does not
	// consume a token.
	res := b.limiter.Reserve()
	wait := res.Delay()
	res.Cancel()
	return Result{Allowed: false, RetryAfter: wait}, nil
}

// Cleanup evicts buckets idle past the TTL. Run it periodically from the
// lifecycle goroutine.
func (c *MemoryChecker) Cleanup() {
	cutoff := time.Now().Add(-c.idleTTL)

	c.mu.Lock()
	defer c.mu.Unlock()
	for key, b := range c.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(c.buckets, key)
		}
	}
}

// Run calls Cleanup on an interval until the context is cancelled.
func (c *MemoryChecker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Cleanup()
		}
	}
}

// Len reports the live bucket count, for tests and gauges.
func (c *MemoryChecker) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buckets)
}
