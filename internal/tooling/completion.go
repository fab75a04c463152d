package tooling

import (
	"sort"
	"strings"

	"github.com/coregx/coregex"

	"github.com/sylvre-lang/sylvre/internal/compiler/lexer"
	"github.com/sylvre-lang/sylvre/internal/compiler/stdlib"
)

var (
	// chainPattern matches a reference such as `Sylvre.Console.output`
	chainPattern = mustCompile(`[A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*`)

	memberContextPattern = mustCompile(`(?:^|[^A-Za-z0-9_.])Sylvre\.[A-Za-z_][A-Za-z0-9_]*\.[A-Za-z0-9_]*$`)
	moduleContextPattern = mustCompile(`(?:^|[^A-Za-z0-9_.])Sylvre\.[A-Za-z0-9_]*$`)
	dottedContextPattern = mustCompile(`[A-Za-z0-9_\]\)]\.[A-Za-z0-9_]*$`)
)

func mustCompile(pattern string) *coregex.Regexp {
	re, err := coregex.Compile(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

// CompletionContext describes the text before the cursor
type CompletionContext struct {
	Kind CompletionContextKind

	// Module is set for member completions
	Module string

	// Pos is where completion was requested
	Pos Position
}

// CompletionContextKind categorizes the completion context
type CompletionContextKind int

const (
	// CompletionContextNone offers nothing, e.g. after `arr.`
	CompletionContextNone CompletionContextKind = iota
	// CompletionContextStatement offers keywords, snippets and names in scope
	CompletionContextStatement
	// CompletionContextModule follows `Sylvre.`
	CompletionContextModule
	// CompletionContextMember follows `Sylvre.Module.`
	CompletionContextMember
)

func getCompletionContext(doc *Document, pos Position) *CompletionContext {
	lines := strings.Split(doc.Content, "\n")
	if pos.Line >= len(lines) {
		return &CompletionContext{Kind: CompletionContextNone, Pos: pos}
	}

	line := lines[pos.Line]
	prefix := line[:min(max(pos.Character, 0), len(line))]

	if loc := memberContextPattern.FindStringIndex(prefix); loc != nil {
		chain := strings.Split(trimToLibrary(prefix[loc[0]:loc[1]]), ".")
		return &CompletionContext{Kind: CompletionContextMember, Module: chain[1], Pos: pos}
	}
	if moduleContextPattern.MatchString(prefix) {
		return &CompletionContext{Kind: CompletionContextModule, Pos: pos}
	}
	if dottedContextPattern.MatchString(prefix) {
		return &CompletionContext{Kind: CompletionContextNone, Pos: pos}
	}

	return &CompletionContext{Kind: CompletionContextStatement, Pos: pos}
}

func trimToLibrary(s string) string {
	if i := strings.Index(s, stdlib.LibraryName+"."); i >= 0 {
		return s[i:]
	}
	return s
}

func (a *API) buildCompletions(doc *Document, ctx *CompletionContext) []CompletionItem {
	switch ctx.Kind {
	case CompletionContextModule:
		return a.moduleCompletions()
	case CompletionContextMember:
		return a.memberCompletions(ctx.Module)
	case CompletionContextStatement:
		items := keywordCompletions()
		items = append(items, snippetCompletions()...)
		items = append(items, CompletionItem{
			Label:         stdlib.LibraryName,
			Kind:          CompletionKindModule,
			Detail:        "Sylvre library",
			Documentation: "Entry point to the library modules, e.g. `Sylvre.Console.output`.",
			SortText:      "1" + stdlib.LibraryName,
		})
		return append(items, scopeCompletions(doc, ctx.Pos)...)
	default:
		return []CompletionItem{}
	}
}

func (a *API) moduleCompletions() []CompletionItem {
	items := make([]CompletionItem, 0, len(a.library.Modules()))
	for _, module := range a.library.Modules() {
		items = append(items, CompletionItem{
			Label:         module.Name,
			Kind:          CompletionKindModule,
			Detail:        "module → " + namespaceOf(module),
			Documentation: module.Description,
		})
	}
	return items
}

func (a *API) memberCompletions(moduleName string) []CompletionItem {
	module, ok := a.library.Module(moduleName)
	if !ok {
		return []CompletionItem{}
	}

	items := make([]CompletionItem, 0, len(module.Members))
	for _, member := range module.Members {
		items = append(items, CompletionItem{
			Label:         member.Name,
			Kind:          CompletionKindMember,
			Detail:        "→ " + targetName(module, member),
			Documentation: member.Description,
		})
	}
	return items
}

func keywordCompletions() []CompletionItem {
	names := make([]string, 0, len(lexer.Keywords))
	for name := range lexer.Keywords {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]CompletionItem, 0, len(names))
	for _, name := range names {
		items = append(items, CompletionItem{
			Label:         name,
			Kind:          CompletionKindKeyword,
			Detail:        "keyword",
			Documentation: keywordDocs[name],
			SortText:      "2" + name,
		})
	}
	return items
}

func snippetCompletions() []CompletionItem {
	return []CompletionItem{
		{
			Label:      "function",
			Kind:       CompletionKindSnippet,
			Detail:     "function declaration",
			InsertText: "function ${1:name} PARAMS ${2:args} <\n\t$0\n>",
			SortText:   "3function",
		},
		{
			Label:      "if",
			Kind:       CompletionKindSnippet,
			Detail:     "if block",
			InsertText: "if (${1:condition}) <\n\t$0\n>",
			SortText:   "3if",
		},
		{
			Label:      "loopwhile",
			Kind:       CompletionKindSnippet,
			Detail:     "while loop",
			InsertText: "loopwhile (${1:condition}) <\n\t$0\n>",
			SortText:   "3loopwhile",
		},
		{
			Label:      "loopfor",
			Kind:       CompletionKindSnippet,
			Detail:     "counting loop",
			InsertText: "loopfor (create ${1:i} = 0# ${1:i} LTHAN ${2:count}# ${1:i} increment) <\n\t$0\n>",
			SortText:   "3loopfor",
		},
	}
}

// scopeCompletions offers top-level names plus those of the enclosing function
func scopeCompletions(doc *Document, pos Position) []CompletionItem {
	container := ""
	if fn := enclosingFunction(doc, pos); fn != nil {
		container = fn.Name
	}

	seen := make(map[string]bool)
	items := make([]CompletionItem, 0)
	for _, sym := range doc.Symbols {
		if seen[sym.Name] || (sym.ContainerName != "" && sym.ContainerName != container) {
			continue
		}
		seen[sym.Name] = true

		kind := CompletionKindVariable
		if sym.Kind == SymbolKindFunction {
			kind = CompletionKindFunction
		}
		items = append(items, CompletionItem{
			Label:    sym.Name,
			Kind:     kind,
			Detail:   sym.Detail,
			SortText: "0" + sym.Name,
		})
	}
	return items
}

// Word is the reference chain under the cursor
type Word struct {
	// Chain holds the dot-separated names, e.g. [Sylvre Console output]
	Chain []string
	// Segment is the index in Chain the cursor is on
	Segment int
	// Range covers the segment under the cursor
	Range Range
}

// wordAt returns the reference chain containing pos, or nil
func wordAt(content string, pos Position) *Word {
	lines := strings.Split(content, "\n")
	if pos.Line < 0 || pos.Line >= len(lines) {
		return nil
	}
	line := lines[pos.Line]

	for _, loc := range chainPattern.FindAllStringIndex(line, -1) {
		if pos.Character < loc[0] || pos.Character > loc[1] {
			continue
		}

		chain := strings.Split(line[loc[0]:loc[1]], ".")
		start := loc[0]
		for i, name := range chain {
			end := start + len(name)
			if pos.Character <= end {
				// The cursor sits on the dot before the next segment
				if pos.Character == end && i+1 < len(chain) && pos.Character < loc[1] {
					start = end + 1
					continue
				}
				return &Word{
					Chain:   chain,
					Segment: i,
					Range: Range{
						Start: Position{Line: pos.Line, Character: start},
						End:   Position{Line: pos.Line, Character: end},
					},
				}
			}
			start = end + 1
		}
	}

	return nil
}
