package tooling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(items []CompletionItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Label)
	}
	return out
}

func completionsFor(t *testing.T, source string, at Position) []CompletionItem {
	t.Helper()
	api := NewAPI()
	_, err := api.ParseFile(sampleURI, source)
	require.NoError(t, err)
	items, err := api.GetCompletions(sampleURI, at)
	require.NoError(t, err)
	return items
}

func TestCompletions_Modules(t *testing.T) {
	items := completionsFor(t, "call Sylvre.", pos(0, 12))
	assert.Equal(t, []string{"Console", "Math"}, labels(items))
	assert.Equal(t, CompletionKindModule, items[0].Kind)
	assert.Equal(t, "module → console", items[0].Detail)
}

func TestCompletions_ModulesWithPartialName(t *testing.T) {
	items := completionsFor(t, "call Sylvre.Con", pos(0, 15))
	assert.Contains(t, labels(items), "Console")
}

func TestCompletions_Members(t *testing.T) {
	items := completionsFor(t, "call Sylvre.Console.", pos(0, 20))
	assert.Equal(t, []string{"output", "refresh", "warning", "error"}, labels(items))
	assert.Equal(t, CompletionKindMember, items[0].Kind)
	assert.Equal(t, "→ console.log", items[0].Detail)
}

func TestCompletions_UnknownModule(t *testing.T) {
	assert.Empty(t, completionsFor(t, "call Sylvre.Nope.", pos(0, 17)))
}

func TestCompletions_MemberOfVariable(t *testing.T) {
	assert.Empty(t, completionsFor(t, "create n = arr.", pos(0, 15)))
}

func TestCompletions_LibraryNameMustStandAlone(t *testing.T) {
	items := completionsFor(t, "create x = mySylvre.", pos(0, 20))
	assert.Empty(t, items)
}

func TestCompletions_Statement(t *testing.T) {
	items := completionsFor(t, sample, pos(3, 4))
	got := labels(items)

	assert.Contains(t, got, "create")
	assert.Contains(t, got, "loopwhile")
	assert.Contains(t, got, "GEQUAL")
	assert.Contains(t, got, "Sylvre")

	// Inside add: globals, add's own locals and parameters, not main's
	assert.Contains(t, got, "total")
	assert.Contains(t, got, "sum")
	assert.Contains(t, got, "a")
	assert.Contains(t, got, "main")

	var snippet *CompletionItem
	for i := range items {
		if items[i].Kind == CompletionKindSnippet && items[i].Label == "loopfor" {
			snippet = &items[i]
		}
	}
	require.NotNil(t, snippet)
	assert.Contains(t, snippet.InsertText, "increment")
}

func TestCompletions_ScopeOutsideFunction(t *testing.T) {
	got := labels(completionsFor(t, sample, pos(9, 0)))
	assert.Contains(t, got, "add")
	assert.NotContains(t, got, "sum")
	assert.NotContains(t, got, "a")
}

func TestWordAt(t *testing.T) {
	line := "call Sylvre.Console.output(total)#"

	tests := []struct {
		char    int
		chain   []string
		segment int
		rng     Range
	}{
		{5, []string{"Sylvre", "Console", "output"}, 0, span(0, 5, 11)},
		{14, []string{"Sylvre", "Console", "output"}, 1, span(0, 12, 19)},
		{26, []string{"Sylvre", "Console", "output"}, 2, span(0, 20, 26)},
		{29, []string{"total"}, 0, span(0, 27, 32)},
	}

	for _, tt := range tests {
		w := wordAt(line, pos(0, tt.char))
		require.NotNil(t, w, "char %d", tt.char)
		assert.Equal(t, tt.chain, w.Chain)
		assert.Equal(t, tt.segment, w.Segment)
		assert.Equal(t, tt.rng, w.Range)
	}

	assert.Nil(t, wordAt(line, pos(0, 33)))
	assert.Nil(t, wordAt(line, pos(4, 0)))
}
