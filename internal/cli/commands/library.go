package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sylvre-lang/sylvre/internal/cli/ui"
	"github.com/sylvre-lang/sylvre/internal/compiler/stdlib"
)

var (
	libraryJSON   bool
	libraryTarget string
)

// NewLibraryCommand creates the library command
func NewLibraryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library [module]",
		Short: "List the Sylvre library modules and members",
		Long: `List the library reachable through Sylvre.Module.member and what each
member transpiles to.`,
		Example: `  # Every module
  sylvre library

  # One module
  sylvre library Console

  # JSON for tooling
  sylvre library --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLibrary,
	}

	cmd.Flags().BoolVar(&libraryJSON, "json", false, "Output in JSON format")
	cmd.Flags().StringVar(&libraryTarget, "target", "javascript", "Code generation target")

	return cmd
}

func runLibrary(cmd *cobra.Command, args []string) error {
	target, err := resolveTarget(cmd, libraryTarget)
	if err != nil {
		return err
	}
	lib, err := stdlib.ForTarget(string(target))
	if err != nil {
		return err
	}

	modules := lib.Modules()
	if len(args) > 0 {
		module, ok := lib.Module(args[0])
		if !ok {
			cmd.PrintErrln(ui.UnknownModule(args[0], ui.FindSimilar(args[0], lib.GetNamespaces(), nil), noColor))
			return errSilent
		}
		modules = []*stdlib.ModuleDef{module}
	}

	if libraryJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]interface{}{
			"library": stdlib.LibraryName,
			"target":  lib.Target(),
			"modules": modules,
		})
	}

	writeLibraryTable(cmd.OutOrStdout(), lib, modules)
	return nil
}

func writeLibraryTable(w io.Writer, lib *stdlib.Registry, modules []*stdlib.ModuleDef) {
	ui.Header(w, fmt.Sprintf("SYLVRE LIBRARY (%s, %d members)", lib.Target(), lib.TotalMemberCount()), noColor)
	fmt.Fprintln(w)

	table := ui.NewTable(w, noColor, "MEMBER", "TRANSPILES TO", "DESCRIPTION")
	for _, module := range modules {
		for _, member := range module.Members {
			emitted := member.Target
			if module.Namespace != "" {
				emitted = module.Namespace + "." + member.Target
			}
			table.AddRow(
				fmt.Sprintf("%s.%s.%s", stdlib.LibraryName, module.Name, member.Name),
				emitted,
				member.Description,
			)
		}
	}
	table.Render()
}
