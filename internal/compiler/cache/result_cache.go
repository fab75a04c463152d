package cache

import (
	"sync"
	"time"

	"github.com/sylvre-lang/sylvre/internal/compiler"
)

// CachedResult is a transpile result with the content hash it was built from
type CachedResult struct {
	Result      *compiler.Result
	Hash        string
	Path        string
	CachedAt    time.Time
	LastChecked time.Time
}

// ResultCache keeps transpile results in memory, keyed by file path
type ResultCache struct {
	entries map[string]*CachedResult
	mu      sync.RWMutex
}

// NewResultCache creates a new result cache
func NewResultCache() *ResultCache {
	return &ResultCache{
		entries: make(map[string]*CachedResult),
	}
}

// Get retrieves a cached result by file path
func (rc *ResultCache) Get(path string) (*CachedResult, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	entry, exists := rc.entries[path]
	return entry, exists
}

// GetByHash retrieves a cached result by content hash, which finds results
// for files that were moved or copied
func (rc *ResultCache) GetByHash(hash string) (*CachedResult, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	for _, entry := range rc.entries {
		if entry.Hash == hash {
			return entry, true
		}
	}
	return nil, false
}

// Set stores a result in the cache
func (rc *ResultCache) Set(path string, result *compiler.Result, hash string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	now := time.Now()
	rc.entries[path] = &CachedResult{
		Result:      result,
		Hash:        hash,
		Path:        path,
		CachedAt:    now,
		LastChecked: now,
	}
}

// Invalidate removes an entry from the cache
func (rc *ResultCache) Invalidate(path string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	delete(rc.entries, path)
}

// InvalidateAll clears the entire cache
func (rc *ResultCache) InvalidateAll() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.entries = make(map[string]*CachedResult)
}

// Size returns the number of cached entries
func (rc *ResultCache) Size() int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	return len(rc.entries)
}

// Prune removes entries that were last stored longer ago than maxAge
func (rc *ResultCache) Prune(maxAge time.Duration) int {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	now := time.Now()
	pruned := 0

	for path, entry := range rc.entries {
		if now.Sub(entry.LastChecked) > maxAge {
			delete(rc.entries, path)
			pruned++
		}
	}

	return pruned
}
