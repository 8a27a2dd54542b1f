package ratelimit

import "context"

// RateLimiter bounds how often an operation may start within a named scope.
// Import starts use the "imports" scope so a single caller cannot flood the
// background pipeline with jobs.
type RateLimiter interface {
	Allow(ctx context.Context, scope string) (bool, error)
}
