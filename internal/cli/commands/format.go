package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sylvre-lang/sylvre/internal/cli/config"
	"github.com/sylvre-lang/sylvre/internal/cli/ui"
	"github.com/sylvre-lang/sylvre/internal/compiler/cache"
	"github.com/sylvre-lang/sylvre/internal/format"
)

var (
	formatWrite bool
	formatCheck bool
	formatDiff  bool
)

// NewFormatCommand creates the fmt command
func NewFormatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt [files...]",
		Short: "Format Sylvre source files",
		Long: `Re-indent blocks, normalize spacing and collapse blank lines in .syl files.
Comments are kept. Files with syntax errors are reported and left alone.

With no arguments every .syl file under source_dir is formatted. Options are
read from the format section of sylvre.yml:

  format:
    indent_size: 4
    use_tabs: false
    max_blank_lines: 1`,
		Example: `  # Print the formatted file
  sylvre fmt src/main.syl

  # Rewrite every file in place
  sylvre fmt -w

  # Fail if any file is not formatted (CI)
  sylvre fmt --check`,
		RunE: runFormat,
	}

	cmd.Flags().BoolVarP(&formatWrite, "write", "w", false, "Write the result back to the source file")
	cmd.Flags().BoolVar(&formatCheck, "check", false, "List unformatted files and exit non-zero if there are any")
	cmd.Flags().BoolVarP(&formatDiff, "diff", "d", false, "Show a diff instead of the formatted source")

	return cmd
}

func runFormat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	formatConfig, err := format.LoadConfig(config.FileName + ".yml")
	if err != nil {
		cmd.PrintErrln(ui.ConfigError(fmt.Sprintf("invalid format section: %v", err), noColor))
		return errSilent
	}

	files := args
	if len(files) == 0 {
		files, err = cache.ScanDirectory(cfg.SourceDir)
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", cfg.SourceDir, err)
		}
	}

	out := cmd.OutOrStdout()
	failed, unformatted := 0, 0
	for _, file := range files {
		original, err := os.ReadFile(file)
		if err != nil {
			failed++
			ui.WriteError(cmd.ErrOrStderr(), ui.Message{Context: "read failed", Problem: err.Error(), NoColor: noColor})
			continue
		}

		formatted, err := format.New(formatConfig).Format(string(original))
		if err != nil {
			failed++
			ui.WriteError(cmd.ErrOrStderr(), ui.Message{
				Context: "format failed",
				Problem: fmt.Sprintf("%s: %v", file, err),
				Help:    []string{"See the errors: sylvre check " + file},
				NoColor: noColor,
			})
			continue
		}

		diff := format.Diff(string(original), formatted)
		if diff.Changed {
			unformatted++
		}

		switch {
		case formatCheck:
			if diff.Changed {
				fmt.Fprintln(out, file)
			}
		case formatDiff:
			fmt.Fprint(out, diff.UnifiedDiff(file))
		case formatWrite:
			if !diff.Changed {
				continue
			}
			if err := os.WriteFile(file, []byte(formatted), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", file, err)
			}
			fmt.Fprintf(out, "%s (%s)\n", file, diff.Stats())
		default:
			fmt.Fprint(out, formatted)
		}
	}

	if failed > 0 || (formatCheck && unformatted > 0) {
		return errSilent
	}
	return nil
}
