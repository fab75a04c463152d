package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sylvre-lang/sylvre/internal/cli/ui"
	"github.com/sylvre-lang/sylvre/internal/compiler"
	cerrors "github.com/sylvre-lang/sylvre/internal/compiler/errors"
	"github.com/sylvre-lang/sylvre/internal/web/api"
)

var (
	transpileOutput string
	transpileTarget string
	transpileJSON   bool
)

// NewTranspileCommand creates the transpile command
func NewTranspileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transpile <file.syl>",
		Short: "Transpile a Sylvre source file",
		Long: `Transpile a single .syl file and print the generated code.

Parse errors stop the run before code generation. Errors are printed with the
offending source line and the command exits non-zero.`,
		Example: `  # Print JavaScript to stdout
  sylvre transpile src/main.syl

  # Write the output to a file
  sylvre transpile src/main.syl -o build/main.js

  # Machine-readable result, same shape as POST /transpiler
  sylvre transpile src/main.syl --json`,
		Args: cobra.ExactArgs(1),
		RunE: runTranspile,
	}

	cmd.Flags().StringVarP(&transpileOutput, "output", "o", "", "Write generated code to this file")
	cmd.Flags().StringVar(&transpileTarget, "target", "", "Code generation target (default from sylvre.yml)")
	cmd.Flags().BoolVar(&transpileJSON, "json", false, "Print the result as JSON")

	return cmd
}

func runTranspile(cmd *cobra.Command, args []string) error {
	file := args[0]

	targetName := transpileTarget
	if targetName == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		targetName = cfg.Target
	}
	target, err := resolveTarget(cmd, targetName)
	if err != nil {
		return err
	}

	source, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}

	var result *compiler.Result
	transpile := func() error {
		var terr error
		result, terr = compiler.Transpile(string(source), target)
		if terr != nil {
			return terr
		}
		if result.HasErrors() {
			return errSilent
		}
		return nil
	}

	if transpileJSON {
		err = transpile()
	} else {
		err = ui.WithSpinner(cmd.ErrOrStderr(), "Transpiling "+filepath.Base(file), noColor, transpile)
	}
	if err != nil && err != errSilent {
		return err
	}

	if transpileJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if encErr := encoder.Encode(api.NewTranspileResponse(result)); encErr != nil {
			return encErr
		}
		if result.HasErrors() {
			return errSilent
		}
		return writeTranspileOutput(result)
	}

	if result.HasErrors() {
		cmd.PrintErrln(cerrors.FormatErrorList(result.CompilerErrors(file, string(source))))
		return errSilent
	}

	if transpileOutput == "" {
		fmt.Fprintln(cmd.OutOrStdout(), result.Code)
		return nil
	}
	if err := writeTranspileOutput(result); err != nil {
		return err
	}
	ui.WriteSuccess(cmd.OutOrStdout(), fmt.Sprintf("Wrote %s", transpileOutput), noColor)
	return nil
}

func writeTranspileOutput(result *compiler.Result) error {
	if transpileOutput == "" {
		return nil
	}
	if dir := filepath.Dir(transpileOutput); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(transpileOutput, []byte(result.Code), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", transpileOutput, err)
	}
	return nil
}
