package lsp

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/sylvre-lang/sylvre/internal/tooling"
)

const docURI = protocol.DocumentURI("file:///project/src/main.syl")

const sample = `create total = 0#
function add PARAMS a, b <
    create sum = a + b#
    exit with sum#
>
call Sylvre.Console.output(total)#`

type testClient struct {
	conn        jsonrpc2.Conn
	diagnostics chan protocol.PublishDiagnosticsParams
}

func startServer(t *testing.T) *testClient {
	t.Helper()

	serverSide, clientSide := net.Pipe()
	srv := NewServer(Options{Version: "test"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, serverSide) }()

	client := &testClient{
		conn:        jsonrpc2.NewConn(jsonrpc2.NewStream(clientSide)),
		diagnostics: make(chan protocol.PublishDiagnosticsParams, 16),
	}
	client.conn.Go(ctx, func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		if req.Method() == "textDocument/publishDiagnostics" {
			var params protocol.PublishDiagnosticsParams
			if err := json.Unmarshal(req.Params(), &params); err == nil {
				client.diagnostics <- params
			}
		}
		return reply(ctx, nil, nil)
	})

	t.Cleanup(func() {
		cancel()
		_ = client.conn.Close()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})

	return client
}

func (c *testClient) call(t *testing.T, method string, params, result interface{}) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := c.conn.Call(ctx, method, params, result)
	require.NoError(t, err)
}

func (c *testClient) notify(t *testing.T, method string, params interface{}) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.conn.Notify(ctx, method, params))
}

func (c *testClient) nextDiagnostics(t *testing.T) protocol.PublishDiagnosticsParams {
	t.Helper()
	select {
	case d := <-c.diagnostics:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("no diagnostics published")
		return protocol.PublishDiagnosticsParams{}
	}
}

func (c *testClient) open(t *testing.T, text string) protocol.PublishDiagnosticsParams {
	t.Helper()
	c.notify(t, protocol.MethodTextDocumentDidOpen, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        docURI,
			LanguageID: "sylvre",
			Version:    1,
			Text:       text,
		},
	})
	return c.nextDiagnostics(t)
}

func position(line, char uint32) protocol.TextDocumentPositionParams {
	return protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
		Position:     protocol.Position{Line: line, Character: char},
	}
}

func lspRange(line, from, to uint32) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: line, Character: from},
		End:   protocol.Position{Line: line, Character: to},
	}
}

func TestServer_Initialize(t *testing.T) {
	client := startServer(t)

	var result protocol.InitializeResult
	client.call(t, protocol.MethodInitialize, &protocol.InitializeParams{}, &result)

	require.NotNil(t, result.ServerInfo)
	assert.Equal(t, "sylvre-lsp", result.ServerInfo.Name)
	assert.Equal(t, "test", result.ServerInfo.Version)
	require.NotNil(t, result.Capabilities.CompletionProvider)
	assert.Equal(t, []string{"."}, result.Capabilities.CompletionProvider.TriggerCharacters)
	assert.Equal(t, true, result.Capabilities.HoverProvider)
	assert.Equal(t, true, result.Capabilities.ReferencesProvider)
	assert.Nil(t, result.Capabilities.DocumentFormattingProvider)
}

func TestServer_IndexesWorkspace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.syl")
	require.NoError(t, os.WriteFile(path, []byte("function helper <\n    exit#\n>\n"), 0o644))

	client := startServer(t)

	var result protocol.InitializeResult
	client.call(t, protocol.MethodInitialize, &protocol.InitializeParams{
		RootURI: protocol.DocumentURI(uri.File(dir)),
	}, &result)

	var symbols []protocol.SymbolInformation
	client.call(t, protocol.MethodWorkspaceSymbol, &protocol.WorkspaceSymbolParams{Query: "help"}, &symbols)

	require.Len(t, symbols, 1)
	assert.Equal(t, "helper", symbols[0].Name)
	assert.Equal(t, protocol.SymbolKindFunction, symbols[0].Kind)
	assert.Equal(t, protocol.DocumentURI(uri.File(path)), symbols[0].Location.URI)
}

func TestServer_DiagnosticsFollowEdits(t *testing.T) {
	client := startServer(t)

	published := client.open(t, "create a 1#")
	assert.Equal(t, docURI, published.URI)
	require.Len(t, published.Diagnostics, 1)
	d := published.Diagnostics[0]
	assert.Equal(t, lspRange(0, 9, 10), d.Range)
	assert.Equal(t, protocol.DiagnosticSeverityError, d.Severity)
	assert.Equal(t, "SYN002", d.Code)
	assert.Equal(t, tooling.DiagnosticSource, d.Source)

	client.notify(t, protocol.MethodTextDocumentDidChange, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: docURI},
			Version:                2,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{{Text: "create a = 1#"}},
	})
	assert.Empty(t, client.nextDiagnostics(t).Diagnostics)

	client.notify(t, protocol.MethodTextDocumentDidClose, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
	})
	assert.Empty(t, client.nextDiagnostics(t).Diagnostics)
}

func TestServer_Hover(t *testing.T) {
	client := startServer(t)
	client.open(t, sample)

	var hover protocol.Hover
	client.call(t, protocol.MethodTextDocumentHover, &protocol.HoverParams{
		TextDocumentPositionParams: position(5, 22),
	}, &hover)

	assert.Equal(t, protocol.Markdown, hover.Contents.Kind)
	assert.Contains(t, hover.Contents.Value, "Transpiles to `console.log`")
	require.NotNil(t, hover.Range)
	assert.Equal(t, lspRange(5, 20, 26), *hover.Range)
}

func TestServer_Completion(t *testing.T) {
	client := startServer(t)
	client.open(t, "call Sylvre.Console.")

	var list protocol.CompletionList
	client.call(t, protocol.MethodTextDocumentCompletion, &protocol.CompletionParams{
		TextDocumentPositionParams: position(0, 20),
	}, &list)

	labels := make(map[string]protocol.CompletionItemKind)
	for _, item := range list.Items {
		labels[item.Label] = item.Kind
	}
	assert.Equal(t, protocol.CompletionItemKindMethod, labels["output"])
	assert.Contains(t, labels, "refresh")
}

func TestServer_DefinitionAndReferences(t *testing.T) {
	client := startServer(t)
	client.open(t, sample)

	var def protocol.Location
	client.call(t, protocol.MethodTextDocumentDefinition, &protocol.DefinitionParams{
		TextDocumentPositionParams: position(2, 17),
	}, &def)
	assert.Equal(t, docURI, def.URI)
	assert.Equal(t, lspRange(1, 20, 21), def.Range)

	var refs []protocol.Location
	client.call(t, protocol.MethodTextDocumentReferences, &protocol.ReferenceParams{
		TextDocumentPositionParams: position(0, 8),
		Context:                    protocol.ReferenceContext{IncludeDeclaration: false},
	}, &refs)
	require.Len(t, refs, 1)
	assert.Equal(t, lspRange(5, 27, 32), refs[0].Range)
}

func TestServer_DocumentSymbols(t *testing.T) {
	client := startServer(t)
	client.open(t, sample)

	var symbols []protocol.DocumentSymbol
	client.call(t, protocol.MethodTextDocumentDocumentSymbol, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
	}, &symbols)

	require.Len(t, symbols, 2)
	assert.Equal(t, "total", symbols[0].Name)
	assert.Equal(t, "add", symbols[1].Name)
	assert.Equal(t, protocol.SymbolKindFunction, symbols[1].Kind)
	assert.Equal(t, lspRange(1, 9, 12), symbols[1].SelectionRange)

	var children []string
	for _, c := range symbols[1].Children {
		children = append(children, c.Name)
	}
	assert.Equal(t, []string{"a", "b", "sum"}, children)
}

func TestServer_UnknownMethod(t *testing.T) {
	client := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := client.conn.Call(ctx, "sylvre/unknown", nil, nil)
	assert.Error(t, err)
}

func TestBuildDocumentSymbols_TopLevelAfterFunction(t *testing.T) {
	symbols := []*tooling.Symbol{
		{Name: "f", Kind: tooling.SymbolKindFunction},
		{Name: "x", Kind: tooling.SymbolKindVariable, ContainerName: "f"},
		{Name: "y", Kind: tooling.SymbolKindVariable},
	}

	result := buildDocumentSymbols(symbols)
	require.Len(t, result, 2)
	assert.Len(t, result[0].Children, 1)
	assert.Equal(t, "y", result[1].Name)
}

func TestConverters(t *testing.T) {
	assert.Equal(t, protocol.DiagnosticSeverityError, convertSeverity(tooling.DiagnosticSeverityError))
	assert.Equal(t, protocol.DiagnosticSeverityWarning, convertSeverity(tooling.DiagnosticSeverityWarning))
	assert.Equal(t, protocol.DiagnosticSeverityInformation, convertSeverity(tooling.DiagnosticSeverityInfo))
	assert.Equal(t, protocol.DiagnosticSeverityHint, convertSeverity(tooling.DiagnosticSeverityHint))

	assert.Equal(t, protocol.SymbolKindFunction, convertSymbolKind(tooling.SymbolKindFunction))
	assert.Equal(t, protocol.SymbolKindVariable, convertSymbolKind(tooling.SymbolKindParameter))
	assert.Equal(t, protocol.CompletionItemKindSnippet, convertCompletionKind(tooling.CompletionKindSnippet))
	assert.Equal(t, protocol.CompletionItemKindKeyword, convertCompletionKind(tooling.CompletionKindKeyword))
}
