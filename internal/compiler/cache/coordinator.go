package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sylvre-lang/sylvre/internal/compiler"
	"github.com/sylvre-lang/sylvre/internal/compiler/codegen"
)

// SourceExt is the extension of Sylvre source files
const SourceExt = ".syl"

// Metrics tracks performance metrics for a transpile run
type Metrics struct {
	TotalFiles        int
	CacheHits         int
	CacheMisses       int
	FilesTranspiled   int
	FilesWritten      int
	FilesFailed       int
	TotalDuration     time.Duration
	TranspileDuration time.Duration
	StartTime         time.Time
	EndTime           time.Time
}

// CacheHitRate returns the cache hit rate as a percentage
func (m *Metrics) CacheHitRate() float64 {
	if m.TotalFiles == 0 {
		return 0.0
	}
	return float64(m.CacheHits) / float64(m.TotalFiles) * 100.0
}

// FileResult is the outcome of transpiling one file
type FileResult struct {
	Path    string
	OutPath string
	Source  string
	Hash    string
	Result  *compiler.Result
	Err     error
	Cached  bool
}

// Failed reports whether the file could not be transpiled cleanly
func (fr *FileResult) Failed() bool {
	return fr.Err != nil || (fr.Result != nil && fr.Result.HasErrors())
}

// Options configures a Coordinator
type Options struct {
	Target codegen.Target

	// SourceDir is the root outputs are mirrored from; OutDir receives the
	// generated files. An empty OutDir writes each output next to its source.
	SourceDir string
	OutDir    string

	// WriteOutputs controls whether successful results are written to disk
	WriteOutputs bool

	// Workers bounds parallel transpiles; zero means GOMAXPROCS
	Workers int
}

// Coordinator manages incremental transpilation with caching
type Coordinator struct {
	opts    Options
	cache   *ResultCache
	hasher  *FileHasher
	metrics *Metrics
	mu      sync.Mutex
}

// NewCoordinator creates a new transpile coordinator
func NewCoordinator(opts Options) *Coordinator {
	if opts.Target == "" {
		opts.Target = codegen.JavaScript
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Coordinator{
		opts:    opts,
		cache:   NewResultCache(),
		hasher:  NewFileHasher(),
		metrics: &Metrics{},
	}
}

// TranspileFiles transpiles the given files, reusing cached results for
// files whose content is unchanged. Results are returned in input order.
func (c *Coordinator) TranspileFiles(paths []string, parallel bool) ([]*FileResult, *Metrics, error) {
	if !codegen.IsRegistered(c.opts.Target) {
		return nil, nil, fmt.Errorf("%w: %q", compiler.ErrUnknownTarget, c.opts.Target)
	}

	c.mu.Lock()
	c.metrics = &Metrics{
		TotalFiles: len(paths),
		StartTime:  time.Now(),
	}
	c.mu.Unlock()

	var results []*FileResult
	if parallel && len(paths) > 1 {
		results = c.transpileParallel(paths)
	} else {
		results = c.transpileSequential(paths)
	}

	c.mu.Lock()
	for _, result := range results {
		if result.Failed() {
			c.metrics.FilesFailed++
		}
	}
	c.metrics.EndTime = time.Now()
	c.metrics.TotalDuration = c.metrics.EndTime.Sub(c.metrics.StartTime)
	metrics := *c.metrics
	c.mu.Unlock()

	return results, &metrics, nil
}

func (c *Coordinator) transpileSequential(paths []string) []*FileResult {
	results := make([]*FileResult, len(paths))
	for i, path := range paths {
		results[i] = c.transpileFile(path)
	}
	return results
}

// transpileParallel fans files out to a bounded pool of workers
func (c *Coordinator) transpileParallel(paths []string) []*FileResult {
	results := make([]*FileResult, len(paths))
	jobs := make(chan int)

	workers := c.opts.Workers
	if workers > len(paths) {
		workers = len(paths)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = c.transpileFile(paths[i])
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// transpileFile transpiles a single file with caching
func (c *Coordinator) transpileFile(path string) *FileResult {
	content, err := os.ReadFile(path)
	if err != nil {
		return &FileResult{
			Path: path,
			Err:  fmt.Errorf("failed to read file: %w", err),
		}
	}

	source := string(content)
	hash := c.hasher.HashSource(string(c.opts.Target), source)
	fr := &FileResult{
		Path:    path,
		OutPath: c.OutputPath(path),
		Source:  source,
		Hash:    hash,
	}

	if cached, exists := c.cache.Get(path); exists && cached.Hash == hash {
		c.recordHit()
		fr.Result = cached.Result
		fr.Cached = true
		return fr
	}

	// Same content under another path, e.g. after a rename
	if cached, exists := c.cache.GetByHash(hash); exists {
		c.recordHit()
		c.cache.Set(path, cached.Result, hash)
		fr.Result = cached.Result
		fr.Cached = true
		return c.write(fr)
	}

	c.mu.Lock()
	c.metrics.CacheMisses++
	c.metrics.FilesTranspiled++
	c.mu.Unlock()

	start := time.Now()
	result, err := compiler.Transpile(source, c.opts.Target)
	elapsed := time.Since(start)

	c.mu.Lock()
	c.metrics.TranspileDuration += elapsed
	c.mu.Unlock()

	if err != nil {
		fr.Err = err
		return fr
	}

	c.cache.Set(path, result, hash)
	fr.Result = result
	return c.write(fr)
}

// write stores a successful result at its output path
func (c *Coordinator) write(fr *FileResult) *FileResult {
	if !c.opts.WriteOutputs || fr.Result.HasErrors() {
		return fr
	}

	if err := os.MkdirAll(filepath.Dir(fr.OutPath), 0755); err != nil {
		fr.Err = fmt.Errorf("failed to create output directory: %w", err)
		return fr
	}
	if err := os.WriteFile(fr.OutPath, []byte(fr.Result.Code), 0644); err != nil {
		fr.Err = fmt.Errorf("failed to write output: %w", err)
		return fr
	}

	c.mu.Lock()
	c.metrics.FilesWritten++
	c.mu.Unlock()
	return fr
}

func (c *Coordinator) recordHit() {
	c.mu.Lock()
	c.metrics.CacheHits++
	c.mu.Unlock()
}

// OutputPath maps a source file to its generated file. Files under
// SourceDir keep their relative layout inside OutDir.
func (c *Coordinator) OutputPath(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".js"
	if c.opts.OutDir == "" {
		return filepath.Join(filepath.Dir(path), name)
	}

	relDir := "."
	if c.opts.SourceDir != "" {
		if rel, err := filepath.Rel(c.opts.SourceDir, filepath.Dir(path)); err == nil && !strings.HasPrefix(rel, "..") {
			relDir = rel
		}
	}
	return filepath.Join(c.opts.OutDir, relDir, name)
}

// InvalidateFile drops the cached result for path
func (c *Coordinator) InvalidateFile(path string) {
	c.cache.Invalidate(path)
}

// GetMetrics returns the metrics of the last run
func (c *Coordinator) GetMetrics() *Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	metrics := *c.metrics
	return &metrics
}

// GetCacheStats returns cache statistics
func (c *Coordinator) GetCacheStats() map[string]interface{} {
	return map[string]interface{}{
		"cache_size": c.cache.Size(),
		"target":     string(c.opts.Target),
	}
}

// Clear clears the cache and metrics
func (c *Coordinator) Clear() {
	c.cache.InvalidateAll()
	c.mu.Lock()
	c.metrics = &Metrics{}
	c.mu.Unlock()
}

// WatchModeTranspile re-transpiles changed files. Deleted files are dropped
// from the cache and their outputs removed.
func (c *Coordinator) WatchModeTranspile(changedFiles []string) ([]*FileResult, *Metrics, error) {
	existing := make([]string, 0, len(changedFiles))
	for _, path := range changedFiles {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			c.cache.Invalidate(path)
			if c.opts.WriteOutputs {
				_ = os.Remove(c.OutputPath(path))
			}
			continue
		}
		existing = append(existing, path)
	}
	sort.Strings(existing)

	return c.TranspileFiles(existing, true)
}

// ScanDirectory returns all .syl files under dir, sorted
func ScanDirectory(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && filepath.Ext(path) == SourceExt {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
