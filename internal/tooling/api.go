// Package tooling provides a programmatic API for IDE integration via LSP.
// It keeps open documents parsed and transpiled and answers position-based
// queries against them. Positions are zero-based, like LSP's.
package tooling

import (
	"fmt"
	"sync"

	"github.com/sylvre-lang/sylvre/internal/compiler"
	"github.com/sylvre-lang/sylvre/internal/compiler/cache"
	"github.com/sylvre-lang/sylvre/internal/compiler/codegen"
	cerrors "github.com/sylvre-lang/sylvre/internal/compiler/errors"
	"github.com/sylvre-lang/sylvre/internal/compiler/stdlib"
)

// API provides thread-safe access to compiler functionality for IDE integration
type API struct {
	documents map[string]*Document
	docsMutex sync.RWMutex

	symbolIndex *SymbolIndex
	results     *cache.ResultCache
	hasher      *cache.FileHasher
	library     *stdlib.Registry

	config *Config
}

// Config holds configuration for the tooling API
type Config struct {
	// Target is the code generation target diagnostics are computed for
	Target codegen.Target
}

// Document is an open source file with its parse and transpile results
type Document struct {
	URI     string
	Content string
	Version int

	Program *compiler.Program
	Result  *compiler.Result

	// Symbols lists functions, parameters and declared variables
	Symbols []*Symbol
}

// Position is a zero-based line and character offset
type Position struct {
	Line      int
	Character int
}

// Range represents a range in a document
type Range struct {
	Start Position
	End   Position
}

// Location represents a source location with URI and range
type Location struct {
	URI   string
	Range Range
}

// Symbol is a name declared in a document
type Symbol struct {
	Name  string
	Kind  SymbolKind
	Range Range

	// ContainerName is the enclosing function, empty at top level
	ContainerName string

	// Scope is the extent of a function's body; only set for functions
	Scope Range

	Detail string
}

// SymbolKind categorizes symbols for IDE display
type SymbolKind int

const (
	SymbolKindFunction SymbolKind = iota
	SymbolKindParameter
	SymbolKindVariable
)

// Hover represents hover information for a symbol
type Hover struct {
	// Contents is markdown
	Contents string
	Range    Range
}

// CompletionItem represents a completion suggestion
type CompletionItem struct {
	Label         string
	Kind          CompletionKind
	Detail        string
	Documentation string
	InsertText    string
	SortText      string
}

// CompletionKind categorizes completion items
type CompletionKind int

const (
	CompletionKindKeyword CompletionKind = iota
	CompletionKindModule
	CompletionKindMember
	CompletionKindFunction
	CompletionKindVariable
	CompletionKindSnippet
)

// Diagnostic represents a compilation error
type Diagnostic struct {
	Range    Range
	Severity DiagnosticSeverity
	Code     string
	Message  string
	Source   string
}

// DiagnosticSeverity indicates the severity of a diagnostic
type DiagnosticSeverity int

const (
	DiagnosticSeverityError DiagnosticSeverity = iota
	DiagnosticSeverityWarning
	DiagnosticSeverityInfo
	DiagnosticSeverityHint
)

// DiagnosticSource names the producer of diagnostics
const DiagnosticSource = "sylvre"

// NewAPI creates a tooling API for the JavaScript target
func NewAPI() *API {
	return NewAPIWithConfig(&Config{Target: codegen.JavaScript})
}

// NewAPIWithConfig creates a tooling API with custom configuration
func NewAPIWithConfig(config *Config) *API {
	if config.Target == "" {
		config.Target = codegen.JavaScript
	}

	library, err := stdlib.ForTarget(string(config.Target))
	if err != nil {
		library = stdlib.JavaScript()
	}

	return &API{
		documents:   make(map[string]*Document),
		symbolIndex: NewSymbolIndex(),
		results:     cache.NewResultCache(),
		hasher:      cache.NewFileHasher(),
		library:     library,
		config:      config,
	}
}

// ParseFile parses and transpiles content and stores it as version 1
func (a *API) ParseFile(uri, content string) (*Document, error) {
	return a.UpdateDocument(uri, content, 1)
}

// UpdateDocument replaces the content of a document
func (a *API) UpdateDocument(uri, content string, version int) (*Document, error) {
	a.docsMutex.RLock()
	old, exists := a.documents[uri]
	a.docsMutex.RUnlock()

	if exists && old.Content == content {
		a.docsMutex.Lock()
		old.Version = version
		a.docsMutex.Unlock()
		return old, nil
	}

	doc, err := a.analyze(uri, content)
	if err != nil {
		return nil, err
	}
	doc.Version = version

	a.docsMutex.Lock()
	a.documents[uri] = doc
	a.docsMutex.Unlock()

	a.symbolIndex.Index(uri, doc.Symbols)

	return doc, nil
}

func (a *API) analyze(uri, content string) (*Document, error) {
	program := compiler.Parse(content)

	hash := a.hasher.HashSource(string(a.config.Target), content)
	var result *compiler.Result
	if cached, ok := a.results.Get(uri); ok && cached.Hash == hash {
		result = cached.Result
	} else {
		var err error
		result, err = compiler.Transpile(content, a.config.Target)
		if err != nil {
			return nil, fmt.Errorf("failed to transpile %s: %w", uri, err)
		}
		a.results.Set(uri, result, hash)
	}

	doc := &Document{
		URI:     uri,
		Content: content,
		Program: program,
		Result:  result,
	}
	doc.Symbols = extractSymbols(doc)
	return doc, nil
}

// GetDocument retrieves an open document
func (a *API) GetDocument(uri string) (*Document, bool) {
	a.docsMutex.RLock()
	defer a.docsMutex.RUnlock()

	doc, exists := a.documents[uri]
	return doc, exists
}

// CloseDocument forgets a document
func (a *API) CloseDocument(uri string) {
	a.docsMutex.Lock()
	delete(a.documents, uri)
	a.docsMutex.Unlock()

	a.results.Invalidate(uri)
	a.symbolIndex.RemoveDocument(uri)
}

// GetDiagnostics returns the parse or transpile errors of a document
func (a *API) GetDiagnostics(uri string) []Diagnostic {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil
	}

	diagnostics := make([]Diagnostic, 0)
	for _, ce := range doc.Result.CompilerErrors("", "") {
		diagnostics = append(diagnostics, Diagnostic{
			Range:    errorRange(ce),
			Severity: DiagnosticSeverityError,
			Code:     string(ce.Code),
			Message:  ce.Message,
			Source:   DiagnosticSource,
		})
	}

	return diagnostics
}

// errorRange spans the offending symbol; the end of input gets an empty range
func errorRange(ce *cerrors.CompilerError) Range {
	start := Position{Line: max(ce.Location.Line-1, 0), Character: max(ce.Location.Column-1, 0)}
	width := len(ce.Actual)
	if ce.Actual == "<EOF>" {
		width = 0
	}
	return Range{
		Start: start,
		End:   Position{Line: start.Line, Character: start.Character + width},
	}
}

// GetHover returns hover information for a position in a document.
// Returns (nil, nil) if there is nothing to describe at the position.
func (a *API) GetHover(uri string, pos Position) (*Hover, error) {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil, fmt.Errorf("document not found: %s", uri)
	}

	return a.buildHover(doc, pos), nil
}

// GetCompletions returns completion items for a position in a document
func (a *API) GetCompletions(uri string, pos Position) ([]CompletionItem, error) {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil, fmt.Errorf("document not found: %s", uri)
	}

	return a.buildCompletions(doc, getCompletionContext(doc, pos)), nil
}

// GetDefinition returns where the name at a position is declared.
// Returns (nil, nil) if no declaration is known.
func (a *API) GetDefinition(uri string, pos Position) (*Location, error) {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil, fmt.Errorf("document not found: %s", uri)
	}

	word := wordAt(doc.Content, pos)
	if word == nil || word.Segment != 0 || word.Chain[0] == stdlib.LibraryName {
		return nil, nil //nolint:nilnil // nil location is valid when nothing is declared
	}

	if sym := resolveSymbol(doc, word.Chain[0], pos); sym != nil {
		return &Location{URI: uri, Range: sym.Range}, nil
	}

	// Functions declared in other open documents
	if def := a.symbolIndex.FindDefinition(word.Chain[0]); def != nil && def.Kind == SymbolKindFunction {
		return &Location{URI: def.URI, Range: def.Range}, nil
	}

	return nil, nil //nolint:nilnil // nil location is valid when nothing is declared
}

// GetReferences returns every use of the name at a position within its
// scope. The declaration itself is included when includeDeclaration is set.
func (a *API) GetReferences(uri string, pos Position, includeDeclaration bool) ([]Location, error) {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil, fmt.Errorf("document not found: %s", uri)
	}

	word := wordAt(doc.Content, pos)
	if word == nil || word.Segment != 0 || word.Chain[0] == stdlib.LibraryName {
		return []Location{}, nil
	}

	return findReferences(doc, word.Chain[0], pos, includeDeclaration), nil
}

// GetDocumentSymbols returns all symbols in a document
func (a *API) GetDocumentSymbols(uri string) ([]*Symbol, error) {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil, fmt.Errorf("document not found: %s", uri)
	}

	return doc.Symbols, nil
}

// GetWorkspaceSymbols searches symbols across all open documents
func (a *API) GetWorkspaceSymbols(query string) []*IndexedSymbol {
	return a.symbolIndex.SearchSymbols(query)
}
