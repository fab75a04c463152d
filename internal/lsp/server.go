// Package lsp implements a Language Server Protocol server for Sylvre.
// It publishes diagnostics as documents change and answers hover,
// completion, definition, references and symbol requests.
package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"

	"github.com/sylvre-lang/sylvre/internal/compiler/cache"
	"github.com/sylvre-lang/sylvre/internal/compiler/codegen"
	"github.com/sylvre-lang/sylvre/internal/tooling"
)

// Options configures a Server
type Options struct {
	Logger  *zap.Logger
	Version string
	Target  codegen.Target
}

// Server implements the LSP server for Sylvre
type Server struct {
	api    *tooling.API
	conn   jsonrpc2.Conn
	client protocol.Client
	logger *zap.Logger

	version       string
	workspaceRoot string
	capabilities  protocol.ServerCapabilities

	cancel context.CancelFunc
}

// NewServer creates a new LSP server instance
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	return &Server{
		api:     tooling.NewAPIWithConfig(&tooling.Config{Target: opts.Target}),
		logger:  logger,
		version: version,
		capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
				Save: &protocol.SaveOptions{
					IncludeText: false,
				},
			},
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{"."},
				ResolveProvider:   false,
			},
			HoverProvider: true,
			DefinitionProvider: &protocol.DefinitionOptions{
				WorkDoneProgressOptions: protocol.WorkDoneProgressOptions{
					WorkDoneProgress: false,
				},
			},
			ReferencesProvider:      true,
			DocumentSymbolProvider:  true,
			WorkspaceSymbolProvider: true,
		},
	}
}

// Run serves the protocol over stdin and stdout
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, stdrwc{})
}

// Serve serves the protocol over rwc until ctx is cancelled, the client
// sends exit, or the stream closes
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	s.logger.Info("starting Sylvre language server", zap.String("version", s.version))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.cancel = cancel

	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	s.conn = conn
	s.client = protocol.ClientDispatcher(conn, s.logger)

	conn.Go(ctx, s.handler())

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down Sylvre language server")
		return conn.Close()
	case <-conn.Done():
		if err := conn.Err(); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) {
			return err
		}
		return nil
	}
}

func (s *Server) handler() jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		s.logger.Debug("received", zap.String("method", req.Method()))

		switch req.Method() {
		case protocol.MethodInitialize:
			return s.handleInitialize(ctx, reply, req)
		case protocol.MethodInitialized:
			return reply(ctx, nil, nil)
		case protocol.MethodShutdown:
			s.logger.Info("shutdown requested")
			return reply(ctx, nil, nil)
		case protocol.MethodExit:
			return s.handleExit(ctx, reply, req)
		case protocol.MethodTextDocumentDidOpen:
			return s.handleTextDocumentDidOpen(ctx, reply, req)
		case protocol.MethodTextDocumentDidChange:
			return s.handleTextDocumentDidChange(ctx, reply, req)
		case protocol.MethodTextDocumentDidClose:
			return s.handleTextDocumentDidClose(ctx, reply, req)
		case protocol.MethodTextDocumentDidSave:
			return s.handleTextDocumentDidSave(ctx, reply, req)
		case protocol.MethodTextDocumentCompletion:
			return s.handleTextDocumentCompletion(ctx, reply, req)
		case protocol.MethodTextDocumentHover:
			return s.handleTextDocumentHover(ctx, reply, req)
		case protocol.MethodTextDocumentDefinition:
			return s.handleTextDocumentDefinition(ctx, reply, req)
		case protocol.MethodTextDocumentReferences:
			return s.handleTextDocumentReferences(ctx, reply, req)
		case protocol.MethodTextDocumentDocumentSymbol:
			return s.handleTextDocumentDocumentSymbol(ctx, reply, req)
		case protocol.MethodWorkspaceSymbol:
			return s.handleWorkspaceSymbol(ctx, reply, req)
		default:
			return reply(ctx, nil, jsonrpc2.ErrMethodNotFound)
		}
	}
}

func (s *Server) handleInitialize(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.InitializeParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse initialize params")
	}

	switch {
	case len(params.WorkspaceFolders) > 0:
		s.workspaceRoot = uri.URI(params.WorkspaceFolders[0].URI).Filename()
	case params.RootURI != "":
		s.workspaceRoot = params.RootURI.Filename()
	case params.RootPath != "":
		s.workspaceRoot = params.RootPath
	}

	if s.workspaceRoot != "" {
		s.logger.Info("workspace root", zap.String("root", s.workspaceRoot))
		s.indexWorkspace()
	}

	return reply(ctx, protocol.InitializeResult{
		Capabilities: s.capabilities,
		ServerInfo: &protocol.ServerInfo{
			Name:    "sylvre-lsp",
			Version: s.version,
		},
	}, nil)
}

// indexWorkspace loads every source file under the workspace root so that
// definitions and workspace symbols span unopened files
func (s *Server) indexWorkspace() {
	files, err := cache.ScanDirectory(s.workspaceRoot)
	if err != nil {
		s.logger.Warn("failed to scan workspace", zap.Error(err))
		return
	}

	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if _, err := s.api.ParseFile(string(uri.File(path)), string(content)); err != nil {
			s.logger.Warn("failed to index file", zap.String("file", path), zap.Error(err))
		}
	}
	s.logger.Debug("indexed workspace", zap.Int("files", len(files)))
}

func (s *Server) handleExit(ctx context.Context, reply jsonrpc2.Replier, _ jsonrpc2.Request) error {
	if err := reply(ctx, nil, nil); err != nil {
		s.logger.Debug("error replying to exit", zap.Error(err))
	}
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

func (s *Server) handleTextDocumentDidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse didOpen params")
	}

	docURI := string(params.TextDocument.URI)
	if _, err := s.api.UpdateDocument(docURI, params.TextDocument.Text, int(params.TextDocument.Version)); err != nil {
		s.logger.Warn("error parsing document", zap.String("uri", docURI), zap.Error(err))
	}
	s.publishDiagnostics(ctx, docURI)

	return reply(ctx, nil, nil)
}

func (s *Server) handleTextDocumentDidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse didChange params")
	}

	if len(params.ContentChanges) == 0 {
		return reply(ctx, nil, nil)
	}

	// Full document sync: the last change holds the whole text
	docURI := string(params.TextDocument.URI)
	content := params.ContentChanges[len(params.ContentChanges)-1].Text
	if _, err := s.api.UpdateDocument(docURI, content, int(params.TextDocument.Version)); err != nil {
		s.logger.Warn("error updating document", zap.String("uri", docURI), zap.Error(err))
	}
	s.publishDiagnostics(ctx, docURI)

	return reply(ctx, nil, nil)
}

func (s *Server) handleTextDocumentDidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse didClose params")
	}

	s.api.CloseDocument(string(params.TextDocument.URI))
	s.sendDiagnostics(ctx, params.TextDocument.URI, []protocol.Diagnostic{})

	return reply(ctx, nil, nil)
}

func (s *Server) handleTextDocumentDidSave(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidSaveTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse didSave params")
	}

	s.publishDiagnostics(ctx, string(params.TextDocument.URI))
	return reply(ctx, nil, nil)
}

func (s *Server) publishDiagnostics(ctx context.Context, docURI string) {
	diagnostics := s.api.GetDiagnostics(docURI)

	lspDiagnostics := make([]protocol.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		lspDiagnostics = append(lspDiagnostics, protocol.Diagnostic{
			Range:    toProtocolRange(d.Range),
			Severity: convertSeverity(d.Severity),
			Code:     d.Code,
			Source:   d.Source,
			Message:  d.Message,
		})
	}

	s.sendDiagnostics(ctx, protocol.DocumentURI(docURI), lspDiagnostics)
}

func (s *Server) sendDiagnostics(ctx context.Context, docURI protocol.DocumentURI, diagnostics []protocol.Diagnostic) {
	err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         docURI,
		Diagnostics: diagnostics,
	})
	if err != nil {
		s.logger.Warn("error publishing diagnostics", zap.Error(err))
	}
}

func (s *Server) replyWithError(ctx context.Context, reply jsonrpc2.Replier, code jsonrpc2.Code, message string) error {
	return reply(ctx, nil, &jsonrpc2.Error{
		Code:    code,
		Message: message,
	})
}

func convertSeverity(severity tooling.DiagnosticSeverity) protocol.DiagnosticSeverity {
	switch severity {
	case tooling.DiagnosticSeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case tooling.DiagnosticSeverityInfo:
		return protocol.DiagnosticSeverityInformation
	case tooling.DiagnosticSeverityHint:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

// stdrwc implements io.ReadWriteCloser for stdin/stdout
type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdrwc) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}
