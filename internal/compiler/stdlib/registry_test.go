package stdlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJavaScriptRegistryModules(t *testing.T) {
	reg := JavaScript()

	assert.Equal(t, "javascript", reg.Target())
	assert.Equal(t, []string{"Console", "Math"}, reg.GetNamespaces())
	assert.Equal(t, 13, reg.TotalMemberCount())

	console, ok := reg.Module("Console")
	require.True(t, ok)
	assert.Equal(t, "console", console.Namespace)

	_, ok = reg.Module("console")
	assert.False(t, ok, "module lookup is case-sensitive")
	_, ok = reg.Module("NonExist")
	assert.False(t, ok)
}

func TestJavaScriptRegistryMembers(t *testing.T) {
	reg := JavaScript()

	tests := []struct {
		module string
		member string
		target string
	}{
		{"Console", "output", "log"},
		{"Console", "refresh", "clear"},
		{"Console", "warning", "warn"},
		{"Console", "error", "error"},
		{"Math", "absolute", "abs"},
		{"Math", "power", "pow"},
		{"Math", "squareroot", "sqrt"},
		{"Math", "random", "random"},
	}

	for _, tt := range tests {
		def, ok := reg.Member(tt.module, tt.member)
		require.True(t, ok, "%s.%s should exist", tt.module, tt.member)
		assert.Equal(t, tt.target, def.Target)
		assert.NotEmpty(t, def.Description)
	}

	_, ok := reg.Member("Console", "log")
	assert.False(t, ok, "target names are not Sylvre members")
	_, ok = reg.Member("Nope", "output")
	assert.False(t, ok)
}

func TestReservedWords(t *testing.T) {
	reg := JavaScript()

	for _, word := range []string{"var", "function", "true", "false", "null", "undefined", "class", "new"} {
		assert.True(t, reg.IsReserved(word), word)
	}
	for _, word := range []string{"length", "numbers", "Var", "Sylvre"} {
		assert.False(t, reg.IsReserved(word), word)
	}

	words := reg.ReservedWords()
	assert.IsIncreasing(t, words)
	assert.Contains(t, words, "yield")
}

func TestForTargetIsCached(t *testing.T) {
	first, err := ForTarget("javascript")
	require.NoError(t, err)
	second, err := ForTarget("javascript")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestForTargetUnknown(t *testing.T) {
	_, err := ForTarget("cobol")
	assert.Error(t, err)
}

func TestParseRejectsInvalidTables(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid yaml", "modules: [\n"},
		{"unnamed module", "modules:\n  - namespace: x\n"},
		{"duplicate module", "modules:\n  - name: A\n  - name: A\n"},
		{"member without target", "modules:\n  - name: A\n    members:\n      - name: b\n"},
		{"duplicate member", "modules:\n  - name: A\n    members:\n      - {name: b, target: c}\n      - {name: b, target: d}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParseEmptyNamespace(t *testing.T) {
	reg, err := Parse([]byte("target: test\nmodules:\n  - name: Global\n    members:\n      - {name: show, target: alert}\n"))
	require.NoError(t, err)

	module, ok := reg.Module("Global")
	require.True(t, ok)
	assert.Empty(t, module.Namespace)
	assert.Empty(t, reg.ReservedWords())
}
