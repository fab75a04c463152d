package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	headerColor = color.New(color.FgRed, color.Bold)
	caretColor  = color.New(color.FgRed)
	hintColor   = color.New(color.FgCyan)
)

// FormatError returns a human-readable error message for terminal output
func FormatError(e *CompilerError) string {
	var b strings.Builder

	icon := severityIcon(e.Severity)

	file := e.File
	if file == "" {
		file = "<source>"
	}

	categoryName := categoryDisplayName(e.Category)

	fmt.Fprintf(&b, "%s %s in %s\n", icon, headerColor.Sprint(categoryName), file)
	fmt.Fprintf(&b, "Line %d, Column %d:\n", e.Location.Line, e.Location.Column)

	if e.Context != nil && len(e.Context.SourceLines) > 0 {
		for i, line := range e.Context.SourceLines {
			lineNum := e.Context.FirstLine + i
			fmt.Fprintf(&b, "%s  %s\n", formatLineNumber(lineNum), line)
			if lineNum == e.Location.Line {
				fmt.Fprintf(&b, "%s  %s%s\n", strings.Repeat(" ", 5), caretPadding(line, e.Location.Column), caretColor.Sprint("^ "+e.Message))
			}
		}
	} else {
		fmt.Fprintf(&b, "  %s\n", e.Message)
	}

	if e.Expected != "" || e.Actual != "" {
		b.WriteString("\n")
		if e.Expected != "" {
			fmt.Fprintf(&b, "  Expected: %s\n", e.Expected)
		}
		if e.Actual != "" {
			fmt.Fprintf(&b, "  Actual:   %s\n", e.Actual)
		}
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n💡 %s\n", hintColor.Sprint(e.Suggestion))
	}

	if len(e.Examples) > 0 {
		b.WriteString("\nQuick Fixes:\n")
		for i, example := range e.Examples {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, example)
		}
	}

	if e.Documentation != "" {
		fmt.Fprintf(&b, "\nLearn more: %s\n", e.Documentation)
	}

	return b.String()
}

// FormatErrorList returns a formatted string of all errors
func FormatErrorList(errors ErrorList) string {
	if len(errors) == 0 {
		return "no errors"
	}

	var b strings.Builder

	errCount, warnCount, infoCount := errors.ErrorCount()
	fmt.Fprintf(&b, "Compilation failed with %d error(s), %d warning(s), %d info\n\n",
		errCount, warnCount, infoCount)

	for i, err := range errors {
		if i > 0 {
			b.WriteString("\n" + strings.Repeat("-", 80) + "\n\n")
		}
		b.WriteString(err.Format())
	}

	return b.String()
}

// FormatCompact returns a compact one-line error format
func FormatCompact(e *CompilerError) string {
	file := e.File
	if file == "" {
		file = "<source>"
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s [%s]",
		file, e.Location.Line, e.Location.Column,
		e.Severity, e.Message, e.Code)
}

// SourceContext returns the text of the given 1-based line and the
// surrounding lines (one before, one after) starting at max(1, line-1).
func SourceContext(source string, line int) (string, []string) {
	lines := strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
	if line < 1 || line > len(lines) {
		return "", nil
	}

	first := line - 1
	if first < 1 {
		first = 1
	}
	last := line + 1
	if last > len(lines) {
		last = len(lines)
	}

	snippet := make([]string, 0, last-first+1)
	for n := first; n <= last; n++ {
		snippet = append(snippet, lines[n-1])
	}
	return lines[line-1], snippet
}

// caretPadding returns whitespace that lines a caret up under the given
// 1-based column, keeping tabs so the alignment survives tab rendering.
func caretPadding(line string, column int) string {
	var b strings.Builder
	for i := 0; i < column-1 && i < len(line); i++ {
		if line[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	for i := len(line); i < column-1; i++ {
		b.WriteByte(' ')
	}
	return b.String()
}

func severityIcon(severity ErrorSeverity) string {
	switch severity {
	case SeverityError:
		return "❌"
	case SeverityWarning:
		return "⚠️ "
	case SeverityInfo:
		return "ℹ️ "
	default:
		return "❓"
	}
}

func categoryDisplayName(category ErrorCategory) string {
	switch category {
	case CategorySyntax:
		return "Syntax Error"
	case CategoryCodeGen:
		return "Transpile Error"
	default:
		return "Compiler Error"
	}
}

func formatLineNumber(lineNum int) string {
	return fmt.Sprintf("%3d |", lineNum)
}
