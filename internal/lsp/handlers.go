package lsp

import (
	"context"
	"encoding/json"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/sylvre-lang/sylvre/internal/tooling"
)

func (s *Server) handleTextDocumentCompletion(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.CompletionParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse completion params")
	}

	completions, err := s.api.GetCompletions(string(params.TextDocument.URI), fromProtocolPosition(params.Position))
	if err != nil {
		s.logger.Debug("completion failed", zap.Error(err))
		return s.replyWithError(ctx, reply, jsonrpc2.InternalError, "Failed to get completions")
	}

	items := make([]protocol.CompletionItem, 0, len(completions))
	for _, c := range completions {
		item := protocol.CompletionItem{
			Label:      c.Label,
			Kind:       convertCompletionKind(c.Kind),
			Detail:     c.Detail,
			InsertText: c.InsertText,
			SortText:   c.SortText,
		}
		if c.Kind == tooling.CompletionKindSnippet {
			item.InsertTextFormat = protocol.InsertTextFormatSnippet
		}
		if c.Documentation != "" {
			item.Documentation = protocol.MarkupContent{
				Kind:  protocol.Markdown,
				Value: c.Documentation,
			}
		}
		items = append(items, item)
	}

	return reply(ctx, protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil)
}

func (s *Server) handleTextDocumentHover(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.HoverParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse hover params")
	}

	hover, err := s.api.GetHover(string(params.TextDocument.URI), fromProtocolPosition(params.Position))
	if err != nil {
		s.logger.Debug("hover failed", zap.Error(err))
		return reply(ctx, nil, nil)
	}
	if hover == nil {
		return reply(ctx, nil, nil)
	}

	r := toProtocolRange(hover.Range)
	return reply(ctx, protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: hover.Contents,
		},
		Range: &r,
	}, nil)
}

func (s *Server) handleTextDocumentDefinition(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DefinitionParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse definition params")
	}

	location, err := s.api.GetDefinition(string(params.TextDocument.URI), fromProtocolPosition(params.Position))
	if err != nil || location == nil {
		return reply(ctx, nil, nil)
	}

	return reply(ctx, toProtocolLocation(*location), nil)
}

func (s *Server) handleTextDocumentReferences(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.ReferenceParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse references params")
	}

	locations, err := s.api.GetReferences(
		string(params.TextDocument.URI),
		fromProtocolPosition(params.Position),
		params.Context.IncludeDeclaration,
	)
	if err != nil {
		return reply(ctx, []protocol.Location{}, nil)
	}

	result := make([]protocol.Location, 0, len(locations))
	for _, loc := range locations {
		result = append(result, toProtocolLocation(loc))
	}
	return reply(ctx, result, nil)
}

func (s *Server) handleTextDocumentDocumentSymbol(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentSymbolParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse documentSymbol params")
	}

	symbols, err := s.api.GetDocumentSymbols(string(params.TextDocument.URI))
	if err != nil {
		return reply(ctx, []protocol.DocumentSymbol{}, nil)
	}

	return reply(ctx, buildDocumentSymbols(symbols), nil)
}

func (s *Server) handleWorkspaceSymbol(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.WorkspaceSymbolParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse workspace symbol params")
	}

	matches := s.api.GetWorkspaceSymbols(params.Query)
	result := make([]protocol.SymbolInformation, 0, len(matches))
	for _, sym := range matches {
		result = append(result, protocol.SymbolInformation{
			Name: sym.Name,
			Kind: convertSymbolKind(sym.Kind),
			Location: protocol.Location{
				URI:   protocol.DocumentURI(sym.URI),
				Range: toProtocolRange(sym.Range),
			},
			ContainerName: sym.ContainerName,
		})
	}
	return reply(ctx, result, nil)
}

// buildDocumentSymbols nests parameters and locals under their function
func buildDocumentSymbols(symbols []*tooling.Symbol) []protocol.DocumentSymbol {
	result := make([]protocol.DocumentSymbol, 0, len(symbols))
	functions := make(map[string]int)

	for _, sym := range symbols {
		ds := protocol.DocumentSymbol{
			Name:           sym.Name,
			Detail:         sym.Detail,
			Kind:           convertSymbolKind(sym.Kind),
			Range:          toProtocolRange(sym.Range),
			SelectionRange: toProtocolRange(sym.Range),
		}

		if sym.Kind == tooling.SymbolKindFunction {
			ds.Range = toProtocolRange(sym.Scope)
			functions[sym.Name] = len(result)
			result = append(result, ds)
			continue
		}

		if idx, ok := functions[sym.ContainerName]; ok && sym.ContainerName != "" {
			result[idx].Children = append(result[idx].Children, ds)
			continue
		}
		result = append(result, ds)
	}

	return result
}

func fromProtocolPosition(p protocol.Position) tooling.Position {
	return tooling.Position{
		Line:      int(p.Line),
		Character: int(p.Character),
	}
}

func toProtocolPosition(p tooling.Position) protocol.Position {
	return protocol.Position{
		Line:      uint32(p.Line),
		Character: uint32(p.Character),
	}
}

func toProtocolRange(r tooling.Range) protocol.Range {
	return protocol.Range{
		Start: toProtocolPosition(r.Start),
		End:   toProtocolPosition(r.End),
	}
}

func toProtocolLocation(loc tooling.Location) protocol.Location {
	return protocol.Location{
		URI:   protocol.DocumentURI(loc.URI),
		Range: toProtocolRange(loc.Range),
	}
}

func convertCompletionKind(kind tooling.CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case tooling.CompletionKindKeyword:
		return protocol.CompletionItemKindKeyword
	case tooling.CompletionKindModule:
		return protocol.CompletionItemKindModule
	case tooling.CompletionKindMember:
		return protocol.CompletionItemKindMethod
	case tooling.CompletionKindFunction:
		return protocol.CompletionItemKindFunction
	case tooling.CompletionKindVariable:
		return protocol.CompletionItemKindVariable
	case tooling.CompletionKindSnippet:
		return protocol.CompletionItemKindSnippet
	default:
		return protocol.CompletionItemKindText
	}
}

func convertSymbolKind(kind tooling.SymbolKind) protocol.SymbolKind {
	switch kind {
	case tooling.SymbolKindFunction:
		return protocol.SymbolKindFunction
	default:
		return protocol.SymbolKindVariable
	}
}
