package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sylvre-lang/sylvre/internal/cli/ui"
	"github.com/sylvre-lang/sylvre/internal/watch"
)

var watchReloadAddr string

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Transpile on change and push results to the browser",
		Long: `Transpile every .syl file under source_dir into out_dir, then watch for
changes and re-transpile only what changed.

Connected browsers receive building, success, error and reload messages on
the live reload socket at ws://<reload-addr>/__sylvre/ws.`,
		Example: `  # Watch with the live reload socket on :5081
  sylvre watch

  # Watch without a reload socket
  sylvre watch --reload-addr ""`,
		RunE: runWatch,
	}

	cmd.Flags().StringVar(&watchReloadAddr, "reload-addr", "localhost:5081", "Address of the live reload socket (empty disables it)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.SourceDir); os.IsNotExist(err) {
		cmd.PrintErrln(ui.ConfigError(cfg.SourceDir+" not found - is source_dir set correctly?", noColor))
		return errSilent
	}

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := watch.NewSession(cfg, watch.SessionOptions{
		Logger:     logger,
		Out:        cmd.OutOrStdout(),
		NoColor:    noColor,
		ReloadAddr: watchReloadAddr,
	})

	logger.Info("starting watch mode",
		zap.String("source_dir", cfg.SourceDir),
		zap.String("out_dir", cfg.OutDir),
		zap.String("reload_addr", watchReloadAddr))

	return session.Run(ctx)
}
