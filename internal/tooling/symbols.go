package tooling

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sylvre-lang/sylvre/internal/compiler/ast"
	"github.com/sylvre-lang/sylvre/internal/compiler/lexer"
)

// SymbolIndex maintains a searchable index of all symbols across documents
type SymbolIndex struct {
	// symbols maps symbol name to all declarations
	symbols map[string][]*IndexedSymbol
	mutex   sync.RWMutex
}

// IndexedSymbol represents a symbol with its location
type IndexedSymbol struct {
	URI   string
	Range Range
	*Symbol
}

// NewSymbolIndex creates a new symbol index
func NewSymbolIndex() *SymbolIndex {
	return &SymbolIndex{
		symbols: make(map[string][]*IndexedSymbol),
	}
}

// Index replaces the symbols of a document
func (si *SymbolIndex) Index(uri string, symbols []*Symbol) {
	si.mutex.Lock()
	defer si.mutex.Unlock()

	si.removeDocumentLocked(uri)

	for _, sym := range symbols {
		si.symbols[sym.Name] = append(si.symbols[sym.Name], &IndexedSymbol{
			URI:    uri,
			Range:  sym.Range,
			Symbol: sym,
		})
	}
}

// RemoveDocument removes all symbols from a document
func (si *SymbolIndex) RemoveDocument(uri string) {
	si.mutex.Lock()
	defer si.mutex.Unlock()

	si.removeDocumentLocked(uri)
}

func (si *SymbolIndex) removeDocumentLocked(uri string) {
	for name, syms := range si.symbols {
		filtered := make([]*IndexedSymbol, 0, len(syms))
		for _, sym := range syms {
			if sym.URI != uri {
				filtered = append(filtered, sym)
			}
		}
		if len(filtered) > 0 {
			si.symbols[name] = filtered
		} else {
			delete(si.symbols, name)
		}
	}
}

// FindDefinition finds a declaration by name, preferring functions
func (si *SymbolIndex) FindDefinition(name string) *IndexedSymbol {
	si.mutex.RLock()
	defer si.mutex.RUnlock()

	syms := si.symbols[name]
	if len(syms) == 0 {
		return nil
	}

	for _, sym := range syms {
		if sym.Kind == SymbolKindFunction {
			return sym
		}
	}
	return syms[0]
}

// SearchSymbols returns symbols whose name contains query, case-insensitively
func (si *SymbolIndex) SearchSymbols(query string) []*IndexedSymbol {
	si.mutex.RLock()
	defer si.mutex.RUnlock()

	query = strings.ToLower(query)
	result := make([]*IndexedSymbol, 0)

	for name, syms := range si.symbols {
		if query == "" || strings.Contains(strings.ToLower(name), query) {
			result = append(result, syms...)
		}
	}

	return result
}

// extractSymbols lists the declarations of a document in source order.
// Blocks that failed to parse contribute nothing.
func extractSymbols(doc *Document) []*Symbol {
	if doc.Program == nil || doc.Program.Root == nil {
		return nil
	}

	blocks := doc.Program.Root.Blocks
	symbols := make([]*Symbol, 0)

	for i, block := range blocks {
		fn, ok := block.(*ast.FunctionBlock)
		if !ok {
			symbols = append(symbols, blockSymbols(block, "")...)
			continue
		}
		if fn.Name == nil {
			continue
		}

		// A function's scope runs until the next top-level block
		end := endOfContent(doc.Content)
		if i+1 < len(blocks) {
			end = toPosition(blocks[i+1].Location())
		}

		params := make([]string, 0, len(fn.Params))
		for _, p := range fn.Params {
			params = append(params, p.Name)
		}
		detail := "function " + fn.Name.Name
		if len(params) > 0 {
			detail += " PARAMS " + strings.Join(params, ", ")
		}

		symbols = append(symbols, &Symbol{
			Name:   fn.Name.Name,
			Kind:   SymbolKindFunction,
			Range:  identRange(fn.Name),
			Scope:  Range{Start: toPosition(fn.Loc), End: end},
			Detail: detail,
		})

		for _, p := range fn.Params {
			symbols = append(symbols, &Symbol{
				Name:          p.Name,
				Kind:          SymbolKindParameter,
				Range:         identRange(p),
				ContainerName: fn.Name.Name,
				Detail:        fmt.Sprintf("parameter of %s", fn.Name.Name),
			})
		}

		for _, b := range fn.Body {
			symbols = append(symbols, blockSymbols(b, fn.Name.Name)...)
		}
	}

	return symbols
}

func blockSymbols(block ast.Block, container string) []*Symbol {
	var symbols []*Symbol
	body := func(blocks []ast.Block) {
		for _, b := range blocks {
			symbols = append(symbols, blockSymbols(b, container)...)
		}
	}

	switch b := block.(type) {
	case *ast.StatementBlock:
		if decl, ok := b.Statement.(*ast.Declaration); ok {
			symbols = append(symbols, declarationSymbol(decl, container)...)
		}
	case *ast.IfBlock:
		if b.If != nil {
			body(b.If.Body)
		}
		for _, branch := range b.ElseIfs {
			body(branch.Body)
		}
		if b.Else != nil {
			body(b.Else.Body)
		}
	case *ast.WhileBlock:
		body(b.Body)
	case *ast.ForBlock:
		if decl, ok := b.Init.(*ast.Declaration); ok {
			symbols = append(symbols, declarationSymbol(decl, container)...)
		}
		body(b.Body)
	}

	return symbols
}

func declarationSymbol(decl *ast.Declaration, container string) []*Symbol {
	if decl == nil || decl.Name == nil {
		return nil
	}
	return []*Symbol{{
		Name:          decl.Name.Name,
		Kind:          SymbolKindVariable,
		Range:         identRange(decl.Name),
		ContainerName: container,
		Detail:        "create " + decl.Name.Name,
	}}
}

// enclosingFunction returns the function whose scope contains pos
func enclosingFunction(doc *Document, pos Position) *Symbol {
	for _, sym := range doc.Symbols {
		if sym.Kind == SymbolKindFunction && positionInRange(pos, sym.Scope) {
			return sym
		}
	}
	return nil
}

// resolveSymbol finds the declaration name refers to at pos. Parameters and
// locals of the enclosing function shadow top-level declarations.
func resolveSymbol(doc *Document, name string, pos Position) *Symbol {
	if fn := enclosingFunction(doc, pos); fn != nil {
		for _, sym := range doc.Symbols {
			if sym.Name == name && sym.ContainerName == fn.Name && sym.Kind != SymbolKindFunction {
				return sym
			}
		}
	}

	var variable *Symbol
	for _, sym := range doc.Symbols {
		if sym.Name != name || sym.ContainerName != "" {
			continue
		}
		if sym.Kind == SymbolKindFunction {
			return sym
		}
		if variable == nil {
			variable = sym
		}
	}
	return variable
}

// findReferences returns the identifier tokens that resolve to the same
// declaration as name does at pos. Member names after a dot are skipped.
func findReferences(doc *Document, name string, pos Position, includeDeclaration bool) []Location {
	target := resolveSymbol(doc, name, pos)

	tokens, _ := lexer.New(doc.Content).ScanTokens()
	locations := make([]Location, 0)

	for i, tok := range tokens {
		if tok.Type != lexer.TOKEN_IDENTIFIER || tok.Lexeme != name {
			continue
		}
		if i > 0 && tokens[i-1].Type == lexer.TOKEN_DOT {
			continue
		}

		r := Range{
			Start: Position{Line: tok.Line - 1, Character: tok.Column - 1},
			End:   Position{Line: tok.Line - 1, Character: tok.Column - 1 + len(tok.Lexeme)},
		}
		if resolveSymbol(doc, name, r.Start) != target {
			continue
		}
		if !includeDeclaration && target != nil && r == target.Range {
			continue
		}
		locations = append(locations, Location{URI: doc.URI, Range: r})
	}

	return locations
}

func identRange(id *ast.Identifier) Range {
	start := toPosition(id.Loc)
	return Range{
		Start: start,
		End:   Position{Line: start.Line, Character: start.Character + len(id.Name)},
	}
}

// toPosition converts a 1-based source location
func toPosition(loc ast.SourceLocation) Position {
	return Position{Line: max(loc.Line-1, 0), Character: max(loc.Column-1, 0)}
}

func endOfContent(content string) Position {
	lines := strings.Split(content, "\n")
	return Position{Line: len(lines) - 1, Character: len(lines[len(lines)-1])}
}

// positionInRange reports whether pos lies in r, end exclusive
func positionInRange(pos Position, r Range) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character >= r.End.Character {
		return false
	}
	return true
}
