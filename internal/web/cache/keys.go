package cache

import (
	compilercache "github.com/sylvre-lang/sylvre/internal/compiler/cache"
)

var hasher = compilercache.NewFileHasher()

// TranspileKey is the cache key for transpiling source to target
func TranspileKey(target, source string) string {
	return "transpile:" + hasher.HashSource(target, source)
}
