package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sylvre-lang/sylvre/internal/compiler/codegen"
	"github.com/sylvre-lang/sylvre/internal/lsp"
)

// NewLSPCommand creates the LSP command
func NewLSPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the Sylvre Language Server Protocol (LSP) server.

This command starts an LSP server that provides IDE integration features including:
  • Code completion for keywords and Sylvre library members
  • Diagnostics (parse and transpile errors)
  • Go-to-definition
  • Hover information
  • Find references
  • Document and workspace symbols

The LSP server communicates via JSON-RPC over stdin/stdout.
It is typically started automatically by your editor/IDE.`,
		RunE: runLSP,
	}
}

func runLSP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// stdout carries the protocol; the logger writes to stderr
	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	server := lsp.NewServer(lsp.Options{
		Logger:  logger,
		Version: Version,
		Target:  codegen.Target(cfg.Target),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx)
}
