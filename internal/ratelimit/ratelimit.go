// Package ratelimit provides the per-customer request limiter that guards the
// decision endpoint. Two checker backends exist: an in-process token bucket
// for single-instance deployments and a Redis fixed-window counter for fleets.
package ratelimit

import (
	"context"
	"time"
)

// Result is a checker verdict for one request.
type Result struct {
	Allowed bool
	// RetryAfter is the suggested wait before the next attempt. Zero when
	// the backend cannot estimate one.
	RetryAfter time.Duration
}

// Checker decides whether a request identified by key may proceed.
// Implementations must be safe for concurrent use. Errors mean the backend
// could not answer; the middleware treats that as allow.
type Checker interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// Config holds the window policy shared by both backends.
type Config struct {
	// Requests is the number of requests permitted per Window per key.
	Requests int
	// Window is the accounting period.
	Window time.Duration
}
