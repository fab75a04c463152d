package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process cache with TTL expiry
type MemoryCache struct {
	mu     sync.RWMutex
	items  map[string]memoryItem
	config Config
	cancel context.CancelFunc
}

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

func (i memoryItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// NewMemoryCache creates a memory cache that sweeps expired entries every
// sweep interval. A zero interval disables sweeping; expired entries are
// still never returned.
func NewMemoryCache(config Config, sweep time.Duration) *MemoryCache {
	ctx, cancel := context.WithCancel(context.Background())
	mc := &MemoryCache{
		items:  make(map[string]memoryItem),
		config: config,
		cancel: cancel,
	}
	if sweep > 0 {
		go mc.sweepLoop(ctx, sweep)
	}
	return mc
}

// Get retrieves a value
func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	item, ok := m.items[m.config.Prefix+key]
	m.mu.RUnlock()

	if !ok || item.expired(time.Now()) {
		return nil, ErrCacheMiss
	}
	return item.value, nil
}

// Set stores a value
func (m *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if ttl == 0 {
		ttl = m.config.DefaultTTL
	}

	item := memoryItem{value: value}
	if ttl > 0 {
		item.expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.items[m.config.Prefix+key] = item
	m.mu.Unlock()
	return nil
}

// Delete removes a value
func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.items, m.config.Prefix+key)
	m.mu.Unlock()
	return nil
}

// Clear removes every value
func (m *MemoryCache) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	m.items = make(map[string]memoryItem)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Close stops the sweeper
func (m *MemoryCache) Close() error {
	m.cancel()
	return nil
}

func (m *MemoryCache) sweepLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.sweep(now)
		}
	}
}

func (m *MemoryCache) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, item := range m.items {
		if item.expired(now) {
			delete(m.items, key)
		}
	}
}
