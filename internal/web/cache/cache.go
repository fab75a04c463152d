// Package cache stores serialized transpile responses so repeated requests
// for the same source skip the compiler. Entries live in process memory or
// in Redis when several API instances share results.
package cache

import (
	"context"
	"errors"
	"time"
)

// Cache is implemented by every response cache backend
type Cache interface {
	// Get returns ErrCacheMiss when key is absent or expired
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value; a zero ttl uses the backend default and a negative
	// ttl never expires
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}

// ErrCacheMiss is returned by Get for absent keys
var ErrCacheMiss = errors.New("cache miss")

// Config holds settings shared by all backends
type Config struct {
	DefaultTTL time.Duration
	Prefix     string
}

// DefaultConfig returns the default cache configuration
func DefaultConfig() Config {
	return Config{
		DefaultTTL: 10 * time.Minute,
		Prefix:     "sylvre:",
	}
}
