package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenBucket is an in-memory limiter granting Capacity requests per Period
// per key, refilled continuously
type TokenBucket struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	capacity int
	period   time.Duration
	now      func() time.Time
	done     chan struct{}
	once     sync.Once
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// NewTokenBucket creates a limiter allowing capacity requests per period.
// Idle buckets are dropped after two periods.
func NewTokenBucket(capacity int, period time.Duration) *TokenBucket {
	tb := &TokenBucket{
		buckets:  make(map[string]*bucket),
		capacity: capacity,
		period:   period,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go tb.cleanupLoop()
	return tb
}

// Allow takes one token for key
func (tb *TokenBucket) Allow(_ context.Context, key string) (*Info, error) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	b, ok := tb.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(tb.capacity), lastSeen: now}
		tb.buckets[key] = b
	}

	rate := float64(tb.capacity) / tb.period.Seconds()
	b.tokens = min(float64(tb.capacity), b.tokens+now.Sub(b.lastSeen).Seconds()*rate)
	b.lastSeen = now

	info := &Info{Limit: tb.capacity}
	if b.tokens >= 1 {
		b.tokens--
		info.Allowed = true
	}
	info.Remaining = int(b.tokens)
	missing := float64(tb.capacity) - b.tokens
	info.ResetAt = now.Add(time.Duration(missing / rate * float64(time.Second)))
	return info, nil
}

// Len returns the number of tracked keys
func (tb *TokenBucket) Len() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return len(tb.buckets)
}

func (tb *TokenBucket) cleanupLoop() {
	ticker := time.NewTicker(tb.period)
	defer ticker.Stop()

	for {
		select {
		case <-tb.done:
			return
		case <-ticker.C:
			tb.cleanup()
		}
	}
}

func (tb *TokenBucket) cleanup() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	cutoff := tb.now().Add(-2 * tb.period)
	for key, b := range tb.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(tb.buckets, key)
		}
	}
}

// Close stops the cleanup goroutine
func (tb *TokenBucket) Close() error {
	tb.once.Do(func() { close(tb.done) })
	return nil
}
