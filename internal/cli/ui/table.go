package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Table renders aligned columns with a bold header and a rule beneath it
type Table struct {
	w       io.Writer
	headers []string
	rows    [][]string
	noColor bool
}

// NewTable creates a table with the given headers
func NewTable(w io.Writer, noColor bool, headers ...string) *Table {
	return &Table{w: w, headers: headers, noColor: noColor}
}

// AddRow appends a row. Missing cells render empty; extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render writes the table
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], utf8.RuneCountInString(row[i]))
		}
	}

	head := color.New(color.Bold, color.FgCyan)
	rule := color.New(color.FgHiBlack)
	if t.noColor {
		head.DisableColor()
		rule.DisableColor()
	}

	cells := make([]string, len(widths))
	for i, h := range t.headers {
		cells[i] = head.Sprint(pad(h, widths[i]))
	}
	t.line(cells)

	for i, width := range widths {
		cells[i] = rule.Sprint(strings.Repeat("─", width))
	}
	t.line(cells)

	for _, row := range t.rows {
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = pad(cell, widths[i])
		}
		t.line(cells)
	}
}

func (t *Table) line(cells []string) {
	fmt.Fprintln(t.w, strings.TrimRight(strings.Join(cells, "  "), " "))
}

func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// Header renders a bold title with a rule of the same width
func Header(w io.Writer, title string, noColor bool) {
	head := color.New(color.Bold, color.FgCyan)
	rule := color.New(color.FgHiBlack)
	if noColor {
		head.DisableColor()
		rule.DisableColor()
	}
	head.Fprintln(w, title)
	rule.Fprintln(w, strings.Repeat("─", utf8.RuneCountInString(title)))
}
