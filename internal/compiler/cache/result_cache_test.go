package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sylvre-lang/sylvre/internal/compiler"
	"github.com/sylvre-lang/sylvre/internal/compiler/codegen"
)

func transpiled(t *testing.T, source string) *compiler.Result {
	t.Helper()

	result, err := compiler.Transpile(source, codegen.JavaScript)
	require.NoError(t, err)
	return result
}

func TestResultCache_SetAndGet(t *testing.T) {
	cache := NewResultCache()
	result := transpiled(t, "create a = 1#")

	cache.Set("main.syl", result, "hash1")

	cached, ok := cache.Get("main.syl")
	require.True(t, ok)
	assert.Same(t, result, cached.Result)
	assert.Equal(t, "hash1", cached.Hash)
	assert.Equal(t, "main.syl", cached.Path)
	assert.False(t, cached.CachedAt.IsZero())

	_, ok = cache.Get("other.syl")
	assert.False(t, ok)
}

func TestResultCache_GetByHash(t *testing.T) {
	cache := NewResultCache()
	cache.Set("a.syl", transpiled(t, "create a = 1#"), "hash-a")

	cached, ok := cache.GetByHash("hash-a")
	require.True(t, ok)
	assert.Equal(t, "a.syl", cached.Path)

	_, ok = cache.GetByHash("hash-b")
	assert.False(t, ok)
}

func TestResultCache_Invalidate(t *testing.T) {
	cache := NewResultCache()
	cache.Set("a.syl", transpiled(t, "create a = 1#"), "a")
	cache.Set("b.syl", transpiled(t, "create b = 1#"), "b")
	assert.Equal(t, 2, cache.Size())

	cache.Invalidate("a.syl")
	assert.Equal(t, 1, cache.Size())

	cache.InvalidateAll()
	assert.Equal(t, 0, cache.Size())
}

func TestResultCache_Prune(t *testing.T) {
	cache := NewResultCache()
	cache.Set("old.syl", transpiled(t, "create a = 1#"), "old")
	time.Sleep(20 * time.Millisecond)
	cache.Set("new.syl", transpiled(t, "create b = 1#"), "new")

	pruned := cache.Prune(10 * time.Millisecond)
	assert.Equal(t, 1, pruned)

	_, ok := cache.Get("new.syl")
	assert.True(t, ok)
}

func TestResultCache_Concurrent(t *testing.T) {
	cache := NewResultCache()
	result := transpiled(t, "create a = 1#")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := string(rune('a'+i)) + ".syl"
			cache.Set(path, result, path)
			cache.Get(path)
			cache.GetByHash(path)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, cache.Size())
}
