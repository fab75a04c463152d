package commands

import (
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sylvre-lang/sylvre/internal/cli/config"
	"github.com/sylvre-lang/sylvre/internal/cli/logging"
	"github.com/sylvre-lang/sylvre/internal/cli/ui"
	"github.com/sylvre-lang/sylvre/internal/compiler/codegen"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

var noColor bool

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sylvre",
		Short: "Sylvre compiler and tooling",
		Long: color.CyanString(`Sylvre - a small language for learning to program

Sylvre source files (.syl) transpile to JavaScript. Statements end with '#',
blocks are wrapped in '<' and '>', and the library is reached through
Sylvre.Module.member.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewInitCommand())
	rootCmd.AddCommand(NewTranspileCommand())
	rootCmd.AddCommand(NewCheckCommand())
	rootCmd.AddCommand(NewLibraryCommand())
	rootCmd.AddCommand(NewFormatCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewLSPCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the Sylvre compiler version, Git commit, build date, Go version and code generation targets",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			targets := make([]string, 0, len(codegen.Targets()))
			for _, t := range codegen.Targets() {
				targets = append(targets, string(t))
			}

			w := cmd.OutOrStdout()
			titleColor := color.New(color.FgCyan, color.Bold)
			valueColor := color.New(color.FgWhite)

			titleColor.Fprint(w, "Sylvre version: ")
			valueColor.Fprintln(w, Version)

			titleColor.Fprint(w, "Git commit: ")
			valueColor.Fprintln(w, GitCommit)

			titleColor.Fprint(w, "Build date: ")
			valueColor.Fprintln(w, BuildDate)

			titleColor.Fprint(w, "Go version: ")
			valueColor.Fprintln(w, goVer)

			titleColor.Fprint(w, "Targets: ")
			valueColor.Fprintln(w, strings.Join(targets, ", "))
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		// Commands that already rendered their failure return errSilent
		if err != errSilent {
			ui.WriteError(rootCmd.ErrOrStderr(), ui.Message{Problem: err.Error(), NoColor: noColor})
		}
		return err
	}
	return nil
}

// loadConfig loads sylvre.yml, rendering a configuration error on failure
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		cmd.PrintErrln(ui.ConfigError(err.Error(), noColor))
		return nil, errSilent
	}
	return cfg, nil
}

// newLogger builds the command logger from the configured level
func newLogger(cfg *config.Config) *zap.Logger {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// resolveTarget validates a --target value, suggesting close matches
func resolveTarget(cmd *cobra.Command, name string) (codegen.Target, error) {
	target := codegen.Target(strings.ToLower(name))
	if codegen.IsRegistered(target) {
		return target, nil
	}

	names := make([]string, 0, len(codegen.Targets()))
	for _, t := range codegen.Targets() {
		names = append(names, string(t))
	}
	cmd.PrintErrln(ui.UnknownTarget(name, ui.FindSimilar(name, names, nil), noColor))
	return "", errSilent
}
