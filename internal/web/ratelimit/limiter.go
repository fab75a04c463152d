// Package ratelimit throttles transpile requests per client.
package ratelimit

import (
	"context"
	"time"
)

// Limiter decides whether a request keyed by client may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (*Info, error)
}

// Info describes the limit state after a request was counted
type Info struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
	Allowed   bool
}
