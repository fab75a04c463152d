package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Level represents the severity of a message
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
)

// Message describes a user-facing CLI message
type Message struct {
	Level       Level
	Context     string
	Problem     string
	Detail      string
	Suggestions []string
	Help        []string
	NoColor     bool
}

func (l Level) colors() (header, body *color.Color, symbol string) {
	switch l {
	case LevelWarning:
		return color.New(color.FgYellow, color.Bold), color.New(color.FgYellow), "⚠"
	case LevelInfo:
		return color.New(color.FgCyan, color.Bold), color.New(color.FgCyan), "ℹ"
	default:
		return color.New(color.FgRed, color.Bold), color.New(color.FgRed), "✗"
	}
}

// FormatError renders a message with its context, suggestions and help lines:
//
//	✗ UNKNOWN MODULE: Mth
//	   Sylvre has no module named 'Mth'.
//
//	   Did you mean: Math?
//
//	   → List modules: sylvre library
func FormatError(m Message) string {
	var b strings.Builder

	header, body, symbol := m.Level.colors()
	hint := color.New(color.FgYellow)
	help := color.New(color.FgCyan)
	if m.NoColor {
		for _, c := range []*color.Color{header, body, hint, help} {
			c.DisableColor()
		}
	}

	if m.Context != "" {
		header.Fprintf(&b, "%s %s\n", symbol, strings.ToUpper(m.Context))
		body.Fprintf(&b, "   %s\n", m.Problem)
	} else {
		header.Fprintf(&b, "%s %s\n", symbol, m.Problem)
	}

	if m.Detail != "" {
		b.WriteString("\n")
		body.Fprintf(&b, "   %s\n", m.Detail)
	}

	if len(m.Suggestions) > 0 {
		b.WriteString("\n")
		hint.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(m.Suggestions, ", "))
	}

	if len(m.Help) > 0 {
		b.WriteString("\n")
		for _, line := range m.Help {
			help.Fprintf(&b, "   → %s\n", line)
		}
	}

	return b.String()
}

// WriteError writes a formatted message to w
func WriteError(w io.Writer, m Message) {
	fmt.Fprint(w, FormatError(m))
}

// FormatSuccess creates a success line
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success line to w
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// TranspileFailed reports that one or more files did not transpile
func TranspileFailed(failed, total int, noColor bool) string {
	return FormatError(Message{
		Context: "transpile failed",
		Problem: fmt.Sprintf("%d of %d file(s) have errors.", failed, total),
		Help: []string{
			"Check without writing output: sylvre check <files>",
			"Get help: sylvre transpile --help",
		},
		NoColor: noColor,
	})
}

// UnknownModule reports a library module lookup miss
func UnknownModule(name string, suggestions []string, noColor bool) string {
	return FormatError(Message{
		Context:     "unknown module",
		Problem:     fmt.Sprintf("Sylvre has no module named '%s'.", name),
		Suggestions: suggestions,
		Help:        []string{"List modules: sylvre library"},
		NoColor:     noColor,
	})
}

// UnknownTarget reports an unsupported code generation target
func UnknownTarget(name string, suggestions []string, noColor bool) string {
	return FormatError(Message{
		Context:     "unknown target",
		Problem:     fmt.Sprintf("No code generator is registered for '%s'.", name),
		Suggestions: suggestions,
		Help:        []string{"Show version and targets: sylvre version"},
		NoColor:     noColor,
	})
}

// ConfigError reports an invalid sylvre.yml
func ConfigError(message string, noColor bool) string {
	return FormatError(Message{
		Context: "configuration error",
		Problem: message,
		Help: []string{
			"View config: cat sylvre.yml",
			"Create a fresh project: sylvre init",
		},
		NoColor: noColor,
	})
}

// Warning creates a warning message
func Warning(message string, noColor bool) string {
	return FormatError(Message{Level: LevelWarning, Problem: message, NoColor: noColor})
}

// Info creates an informational message
func Info(message string, noColor bool) string {
	return FormatError(Message{Level: LevelInfo, Problem: message, NoColor: noColor})
}
