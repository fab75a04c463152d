package watch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sylvre-lang/sylvre/internal/cli/config"
	"github.com/sylvre-lang/sylvre/internal/cli/ui"
	"github.com/sylvre-lang/sylvre/internal/compiler/cache"
	"github.com/sylvre-lang/sylvre/internal/compiler/codegen"
	cerrors "github.com/sylvre-lang/sylvre/internal/compiler/errors"
	"github.com/sylvre-lang/sylvre/internal/web/server"
)

// SessionOptions configures a watch session
type SessionOptions struct {
	Logger  *zap.Logger
	Out     io.Writer
	NoColor bool

	// ReloadAddr serves the live reload socket; empty disables it
	ReloadAddr string
}

// Session keeps a project's outputs in sync with its sources
type Session struct {
	cfg    *config.Config
	opts   SessionOptions
	logger *zap.Logger
	coord  *cache.Coordinator
	reload *ReloadServer
}

// NewSession creates a session for the project described by cfg
func NewSession(cfg *config.Config, opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}

	return &Session{
		cfg:    cfg,
		opts:   opts,
		logger: logger,
		coord: cache.NewCoordinator(cache.Options{
			Target:       codegen.Target(cfg.Target),
			SourceDir:    cfg.SourceDir,
			OutDir:       cfg.OutDir,
			WriteOutputs: true,
		}),
		reload: NewReloadServer(logger),
	}
}

// Build transpiles every source file under the source directory
func (s *Session) Build() (*cache.Metrics, error) {
	files, err := cache.ScanDirectory(s.cfg.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", s.cfg.SourceDir, err)
	}

	results, metrics, err := s.coord.TranspileFiles(files, true)
	if err != nil {
		return nil, err
	}
	s.report(results, metrics)
	return metrics, nil
}

// Rebuild handles one batch of changed files
func (s *Session) Rebuild(files []string) error {
	s.reload.NotifyBuilding(files)

	results, metrics, err := s.coord.WatchModeTranspile(files)
	if err != nil {
		return err
	}
	s.report(results, metrics)
	return nil
}

func (s *Session) report(results []*cache.FileResult, metrics *cache.Metrics) {
	var (
		diagnostics cerrors.ErrorList
		written     []string
	)

	for _, fr := range results {
		switch {
		case fr.Err != nil:
			s.logger.Error("transpile failed", zap.String("file", fr.Path), zap.Error(fr.Err))
			fmt.Fprintf(s.opts.Out, "%s\n", ui.FormatError(ui.Message{
				Context: "transpile failed",
				Problem: fr.Err.Error(),
				NoColor: s.opts.NoColor,
			}))
		case fr.Result.HasErrors():
			diagnostics = append(diagnostics, fr.Result.CompilerErrors(fr.Path, fr.Source)...)
		default:
			written = append(written, fr.OutPath)
		}
	}

	s.logger.Info("build finished",
		zap.Int("files", metrics.TotalFiles),
		zap.Int("failed", metrics.FilesFailed),
		zap.Int("cache_hits", metrics.CacheHits),
		zap.Duration("duration", metrics.TotalDuration),
	)

	if len(diagnostics) > 0 {
		fmt.Fprintln(s.opts.Out, cerrors.FormatErrorList(diagnostics))
		s.reload.NotifyErrors(diagnostics)
		return
	}
	if metrics.FilesFailed > 0 {
		return
	}

	ui.WriteSuccess(s.opts.Out, fmt.Sprintf("Transpiled %d file(s) in %s", metrics.TotalFiles,
		metrics.TotalDuration.Round(time.Millisecond)), s.opts.NoColor)
	s.reload.NotifySuccess(metrics.TotalDuration)
	if len(written) > 0 {
		s.reload.NotifyReload(written)
	}
}

// ReloadHandler serves the live reload socket at ReloadPath
func (s *Session) ReloadHandler() http.Handler {
	r := chi.NewRouter()
	r.Get(ReloadPath, s.reload.HandleWebSocket)
	return r
}

// Run builds the project, then watches for changes until ctx is cancelled
func (s *Session) Run(ctx context.Context) error {
	defer s.reload.Close()

	if _, err := s.Build(); err != nil {
		return err
	}

	watcher, err := NewFileWatcher(Options{
		Root:     s.cfg.SourceDir,
		Patterns: s.cfg.Watch.Patterns,
		Ignore:   s.cfg.Watch.Ignore,
		Debounce: s.cfg.Watch.Debounce,
		Logger:   s.logger,
	}, s.Rebuild)
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		watcher.Stop()
		return err
	}
	defer watcher.Stop()

	s.logger.Info("watching for changes", zap.String("dir", s.cfg.SourceDir))

	if s.opts.ReloadAddr == "" {
		<-ctx.Done()
		return nil
	}

	srvConfig := server.DefaultConfig(s.ReloadHandler())
	srvConfig.Address = s.opts.ReloadAddr
	srvConfig.Logger = s.logger
	// Sockets stay open for the whole session
	srvConfig.WriteTimeout = 0
	srvConfig.ShutdownTimeout = 5 * time.Second

	srv, err := server.New(srvConfig)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
