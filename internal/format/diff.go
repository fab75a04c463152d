package format

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// DiffResult represents the difference between original and formatted code
type DiffResult struct {
	Original  string
	Formatted string
	Changed   bool

	edits []edit
}

// edit is one line of a line-level diff: ' ' kept, '-' removed, '+' added
type edit struct {
	op      byte
	text    string
	oldLine int
	newLine int
}

// Diff compares original and formatted code line by line
func Diff(original, formatted string) *DiffResult {
	d := &DiffResult{
		Original:  original,
		Formatted: formatted,
		Changed:   original != formatted,
	}
	if d.Changed {
		d.edits = diffLines(splitLines(original), splitLines(formatted))
	}
	return d
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// diffLines computes a minimal edit script from the longest common
// subsequence of a and b
func diffLines(a, b []string) []edit {
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	var edits []edit
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			edits = append(edits, edit{' ', a[i], i + 1, j + 1})
			i++
			j++
		case i < len(a) && (j == len(b) || lcs[i+1][j] >= lcs[i][j+1]):
			edits = append(edits, edit{'-', a[i], i + 1, j})
			i++
		default:
			edits = append(edits, edit{'+', b[j], i, j + 1})
			j++
		}
	}
	return edits
}

// hunks groups consecutive changed lines
func (d *DiffResult) hunks() [][]edit {
	var hunks [][]edit
	var current []edit
	for _, e := range d.edits {
		if e.op == ' ' {
			if current != nil {
				hunks = append(hunks, current)
				current = nil
			}
			continue
		}
		current = append(current, e)
	}
	if current != nil {
		hunks = append(hunks, current)
	}
	return hunks
}

// String returns a human-readable diff with color highlighting
func (d *DiffResult) String() string {
	if !d.Changed {
		return color.GreenString("No changes needed")
	}

	var buf bytes.Buffer
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	for _, hunk := range d.hunks() {
		cyan.Fprintf(&buf, "@@ Line %d @@\n", hunkLine(hunk))
		for _, e := range hunk {
			if e.op == '-' {
				red.Fprintf(&buf, "- %s\n", e.text)
			} else {
				green.Fprintf(&buf, "+ %s\n", e.text)
			}
		}
	}

	return buf.String()
}

// UnifiedDiff returns the changes in unified diff form without context lines
func (d *DiffResult) UnifiedDiff(filename string) string {
	if !d.Changed {
		return ""
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- a/%s\n", filename)
	fmt.Fprintf(&buf, "+++ b/%s\n", filename)

	for _, hunk := range d.hunks() {
		removed, added := 0, 0
		for _, e := range hunk {
			if e.op == '-' {
				removed++
			} else {
				added++
			}
		}
		fmt.Fprintf(&buf, "@@ -%d,%d +%d,%d @@\n", hunkStart(hunk, false), removed, hunkStart(hunk, true), added)
		for _, e := range hunk {
			fmt.Fprintf(&buf, "%c%s\n", e.op, e.text)
		}
	}

	return buf.String()
}

// Stats returns statistics about the changes
func (d *DiffResult) Stats() string {
	if !d.Changed {
		return "No changes"
	}

	added, removed := 0, 0
	for _, e := range d.edits {
		switch e.op {
		case '+':
			added++
		case '-':
			removed++
		}
	}
	return fmt.Sprintf("%d lines added, %d removed", added, removed)
}

func hunkLine(hunk []edit) int {
	if hunk[0].op == '-' {
		return hunk[0].oldLine
	}
	return hunk[0].newLine
}

// hunkStart is the first line of the hunk on one side. For a side with no
// lines it is the line the hunk follows, as in diff -u.
func hunkStart(hunk []edit, formatted bool) int {
	for _, e := range hunk {
		if formatted && e.op == '+' {
			return e.newLine
		}
		if !formatted && e.op == '-' {
			return e.oldLine
		}
	}
	if formatted {
		return hunk[0].newLine
	}
	return hunk[0].oldLine
}
