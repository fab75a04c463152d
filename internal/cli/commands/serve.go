package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sylvre-lang/sylvre/internal/web"
)

var (
	serveHost string
	servePort int
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP transpiler API",
		Long: `Start the HTTP transpiler API used by the browser editor.

Endpoints:
  POST /transpiler?target=javascript   {"code": "..."}
  GET  /library
  GET  /health

Results are cached in memory or in Redis (cache.backend in sylvre.yml).`,
		Example: `  # Serve on the configured address
  sylvre serve

  # Override the port
  sylvre serve --port 8080`,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveHost, "host", "", "Host to bind (default from sylvre.yml)")
	cmd.Flags().IntVar(&servePort, "port", 0, "Port to bind (default from sylvre.yml)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := web.New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("transpiler API listening",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("cache", cfg.Cache.Backend))

	return srv.Run(ctx)
}
