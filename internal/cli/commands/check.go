package commands

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sylvre-lang/sylvre/internal/cli/ui"
	"github.com/sylvre-lang/sylvre/internal/compiler/cache"
	cerrors "github.com/sylvre-lang/sylvre/internal/compiler/errors"
)

var checkJSON bool

// CheckReport is the --json output of sylvre check
type CheckReport struct {
	Files  int                 `json:"files"`
	Failed int                 `json:"failed"`
	Errors cerrors.ErrorList   `json:"errors"`
	Read   []map[string]string `json:"readErrors,omitempty"`
}

// NewCheckCommand creates the check command
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Check Sylvre sources for errors without writing output",
		Long: `Parse and generate every given .syl file, reporting errors only.

With no arguments every .syl file under source_dir is checked.`,
		Example: `  # Check the whole project
  sylvre check

  # Check specific files and emit JSON for tooling
  sylvre check src/main.syl src/sort.syl --json`,
		RunE: runCheck,
	}

	cmd.Flags().BoolVar(&checkJSON, "json", false, "Output errors in JSON format")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	target, err := resolveTarget(cmd, cfg.Target)
	if err != nil {
		return err
	}

	files := args
	if len(files) == 0 {
		files, err = cache.ScanDirectory(cfg.SourceDir)
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", cfg.SourceDir, err)
		}
	}
	if len(files) == 0 {
		cmd.PrintErrln(ui.Warning(fmt.Sprintf("No .syl files found in %s", cfg.SourceDir), noColor))
		return nil
	}

	coordinator := cache.NewCoordinator(cache.Options{Target: target})

	var progress *ui.Progress
	if !checkJSON {
		progress = ui.NewProgress(cmd.ErrOrStderr(), len(files), noColor)
	}

	report := CheckReport{Files: len(files), Errors: cerrors.ErrorList{}}
	var failed []*cache.FileResult
	for _, file := range files {
		results, _, err := coordinator.TranspileFiles([]string{file}, false)
		if err != nil {
			return err
		}
		if progress != nil {
			progress.Step(filepath.Base(file))
		}

		for _, fr := range results {
			if !fr.Failed() {
				continue
			}
			report.Failed++
			failed = append(failed, fr)
			if fr.Err != nil {
				report.Read = append(report.Read, map[string]string{"file": fr.Path, "error": fr.Err.Error()})
				continue
			}
			report.Errors = append(report.Errors, fr.Result.CompilerErrors(fr.Path, fr.Source)...)
		}
	}
	if progress != nil {
		progress.Done()
	}

	if checkJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return err
		}
		if report.Failed > 0 {
			return errSilent
		}
		return nil
	}

	if report.Failed == 0 {
		ui.WriteSuccess(cmd.OutOrStdout(), fmt.Sprintf("Checked %d file(s), no errors", len(files)), noColor)
		return nil
	}

	w := cmd.ErrOrStderr()
	for _, fr := range failed {
		if fr.Err != nil {
			ui.WriteError(w, ui.Message{
				Context: "read failed",
				Problem: fr.Err.Error(),
				NoColor: noColor,
			})
			continue
		}
		fmt.Fprintln(w, cerrors.FormatErrorList(fr.Result.CompilerErrors(fr.Path, fr.Source)))
	}
	fmt.Fprint(w, ui.TranspileFailed(report.Failed, len(files), noColor))
	return errSilent
}
