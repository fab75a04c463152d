// Package watch re-transpiles Sylvre sources as they change and pushes
// build results to connected browsers.
package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Options configures a FileWatcher
type Options struct {
	// Root is watched recursively
	Root string
	// Patterns match base names; empty matches every file
	Patterns []string
	// Ignore lists base names (or globs) of files and directories to skip
	Ignore   []string
	Debounce time.Duration
	Logger   *zap.Logger
}

// FileWatcher monitors a source tree and reports batches of changed files
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	opts      Options
	logger    *zap.Logger
	onChange  func([]string) error
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewFileWatcher creates a watcher that calls onChange with each debounced
// batch of created, modified, removed or renamed files.
func NewFileWatcher(opts Options, onChange func([]string) error) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 100 * time.Millisecond
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	fw := &FileWatcher{
		watcher:   watcher,
		debouncer: NewDebouncer(opts.Debounce),
		opts:      opts,
		logger:    logger,
		onChange:  onChange,
		stopChan:  make(chan struct{}),
	}

	fw.debouncer.SetCallback(func(files []string) {
		if err := fw.onChange(files); err != nil {
			fw.logger.Error("error handling file changes", zap.Error(err))
		}
	})

	return fw, nil
}

// Start adds every directory under Root and begins the event loop
func (fw *FileWatcher) Start() error {
	if err := fw.addTree(fw.opts.Root); err != nil {
		return err
	}

	fw.wg.Add(1)
	go fw.watch()

	return nil
}

// Stop stops the watcher. Pending changes are discarded.
func (fw *FileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		close(fw.stopChan)
		fw.wg.Wait()
		fw.debouncer.Stop()
		err = fw.watcher.Close()
	})
	return err
}

// WatchList returns the directories currently watched
func (fw *FileWatcher) WatchList() []string {
	dirs := fw.watcher.WatchList()
	sort.Strings(dirs)
	return dirs
}

func (fw *FileWatcher) watch() {
	defer fw.wg.Done()

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handle(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("watch error", zap.Error(err))

		case <-fw.stopChan:
			return
		}
	}
}

func (fw *FileWatcher) handle(event fsnotify.Event) {
	if fw.shouldIgnore(event.Name) {
		return
	}

	// New directories are watched as they appear
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := fw.addTree(event.Name); err != nil {
				fw.logger.Warn("failed to watch directory", zap.String("dir", event.Name), zap.Error(err))
			}
			return
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	if fw.matchesPattern(event.Name) {
		fw.logger.Debug("file changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
		fw.debouncer.Add(event.Name)
	}
}

func (fw *FileWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && fw.shouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
		fw.logger.Debug("watching directory", zap.String("dir", path))
		return nil
	})
}

// shouldIgnore reports whether path or any of its parents below Root is
// hidden or ignored
func (fw *FileWatcher) shouldIgnore(path string) bool {
	rel, err := filepath.Rel(fw.opts.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = path
	}

	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == "." || part == "" {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
		for _, pattern := range fw.opts.Ignore {
			if matched, _ := filepath.Match(pattern, part); matched {
				return true
			}
		}
	}

	return false
}

func (fw *FileWatcher) matchesPattern(path string) bool {
	if len(fw.opts.Patterns) == 0 {
		return true
	}

	base := filepath.Base(path)
	for _, pattern := range fw.opts.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}

// Debouncer collects file changes and hands them over once no new change
// has arrived for its duration
type Debouncer struct {
	duration time.Duration
	timer    *time.Timer
	files    map[string]struct{}
	mutex    sync.Mutex
	callback func([]string)
	stopped  bool
}

// NewDebouncer creates a new debouncer
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
		files:    make(map[string]struct{}),
	}
}

// Add records a changed file and restarts the timer
func (d *Debouncer) Add(file string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.stopped {
		return
	}

	d.files[file] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.flush)
}

// flush passes the accumulated files, sorted, to the callback
func (d *Debouncer) flush() {
	d.mutex.Lock()
	if d.stopped || len(d.files) == 0 {
		d.mutex.Unlock()
		return
	}

	files := make([]string, 0, len(d.files))
	for file := range d.files {
		files = append(files, file)
	}
	sort.Strings(files)

	d.files = make(map[string]struct{})
	callback := d.callback
	d.mutex.Unlock()

	if callback != nil {
		callback(files)
	}
}

// SetCallback sets the callback function
func (d *Debouncer) SetCallback(callback func([]string)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = callback
}

// Stop cancels any pending flush
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.stopped = true
	d.files = make(map[string]struct{})
}
