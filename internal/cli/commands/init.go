package commands

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sylvre-lang/sylvre/internal/cli/config"
	"github.com/sylvre-lang/sylvre/internal/compiler/codegen"
)

//go:embed templates/*
var templatesFS embed.FS

var (
	initExample bool
	initPort    int
	initForce   bool
)

var projectNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// projectData is rendered into the scaffold templates
type projectData struct {
	Name     string
	Target   string
	Port     int
	Greeting string
	Example  bool
}

// scaffold maps template files to their place in a new project
var scaffold = []struct {
	template string
	path     string
}{
	{"templates/sylvre.yml.tmpl", config.FileName + ".yml"},
	{"templates/main.syl.tmpl", filepath.Join("src", "main.syl")},
	{"templates/gitignore.tmpl", ".gitignore"},
}

// validateProjectName validates project name with security checks
func validateProjectName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) == 0 || len(name) > 100 {
		return fmt.Errorf("project name must be 1-100 characters")
	}
	if filepath.IsAbs(name) {
		return fmt.Errorf("project name cannot be an absolute path")
	}
	// Rules out dots, so ".." cannot escape the working directory
	if !projectNamePattern.MatchString(name) {
		return fmt.Errorf("project name can only contain letters, numbers, dashes, and underscores")
	}

	return nil
}

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [project-name]",
		Short: "Create a new Sylvre project",
		Long: `Create a new Sylvre project with sylvre.yml and src/main.syl.

If no project name is provided, you will be prompted for one.`,
		Example: `  sylvre init hello
  sylvre init hello --example=false
  sylvre init`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}

	cmd.Flags().BoolVar(&initExample, "example", true, "Include an example function in src/main.syl")
	cmd.Flags().IntVar(&initPort, "port", 5080, "Port of the transpiler API in sylvre.yml")
	cmd.Flags().BoolVar(&initForce, "force", false, "Write into an existing directory")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgCyan)

	data := projectData{
		Target:  string(codegen.JavaScript),
		Port:    initPort,
		Example: initExample,
	}

	if len(args) > 0 {
		data.Name = args[0]
	} else {
		if err := survey.AskOne(&survey.Input{Message: "Project name:"}, &data.Name, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
		if err := survey.AskOne(&survey.Confirm{
			Message: "Include an example function?",
			Default: true,
		}, &data.Example); err != nil {
			return err
		}
	}

	data.Name = strings.TrimSpace(data.Name)
	if err := validateProjectName(data.Name); err != nil {
		return err
	}
	data.Greeting = fmt.Sprintf("Hello from %s!", data.Name)

	if _, err := os.Stat(data.Name); err == nil && !initForce {
		return fmt.Errorf("directory %s already exists (use --force to write into it)", data.Name)
	}

	for _, file := range scaffold {
		if err := renderTemplate(file.template, filepath.Join(data.Name, file.path), data); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	successColor.Fprintf(w, "✓ Created project %s\n\n", data.Name)
	infoColor.Fprintln(w, "Next steps:")
	fmt.Fprintf(w, "  cd %s\n", data.Name)
	fmt.Fprintln(w, "  sylvre transpile src/main.syl")
	fmt.Fprintln(w, "  sylvre watch")

	return nil
}

func renderTemplate(name, dest string, data projectData) error {
	tmpl, err := template.ParseFS(templatesFS, name)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", name, err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dest), err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", dest, err)
	}
	return nil
}
