package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, true, "Member", "Target")
	table.AddRow("output", "console.log")
	table.AddRow("squareroot", "Math.sqrt")
	table.AddRow("short")
	table.Render()

	expected := "" +
		"Member      Target\n" +
		"──────────  ───────────\n" +
		"output      console.log\n" +
		"squareroot  Math.sqrt\n" +
		"short\n"
	assert.Equal(t, expected, buf.String())
}

func TestTableNoHeaders(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf, true).Render()
	assert.Empty(t, buf.String())
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	Header(&buf, "Console", true)
	assert.Equal(t, "Console\n───────\n", buf.String())
}
