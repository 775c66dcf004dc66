package lsp

import (
	"context"
	"encoding/json"
	"fmt"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/vertere-lang/vertere/compiler/ast"
	"github.com/vertere-lang/vertere/compiler/errors"
	"github.com/vertere-lang/vertere/internal/diag"
	"github.com/vertere-lang/vertere/internal/tooling"
)

func (s *Server) handleDidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error()))
	}
	s.compileAndPublish(ctx, string(params.TextDocument.URI), params.TextDocument.Text)
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error()))
	}
	if len(params.ContentChanges) == 0 {
		return reply(ctx, nil, nil)
	}
	// Full-document sync: the last change event carries the entire text.
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	s.compileAndPublish(ctx, string(params.TextDocument.URI), text)
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error()))
	}
	s.mu.Lock()
	delete(s.docs, string(params.TextDocument.URI))
	s.mu.Unlock()
	return reply(ctx, nil, nil)
}

func (s *Server) compileAndPublish(ctx context.Context, uri, text string) {
	program, diags := diag.Compile(text, uri)
	s.mu.Lock()
	s.docs[uri] = &document{text: text, program: program, diags: diags}
	s.mu.Unlock()

	lspDiags := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		start := tooling.FromAST(ast.Position{Line: d.Location.Line, Column: d.Location.Column})
		end := tooling.FromAST(ast.Position{Line: d.Location.Line, Column: d.Location.Column + 1})
		lspDiags = append(lspDiags, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: uint32(start.Line), Character: uint32(start.Character)},
				End:   protocol.Position{Line: uint32(end.Line), Character: uint32(end.Character)},
			},
			Severity: convertSeverity(d.Severity),
			Code:     string(d.Code),
			Source:   "vertere",
			Message:  d.Message,
		})
	}
	if err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(uri),
		Diagnostics: lspDiags,
	}); err != nil {
		s.logger.Warn("publish diagnostics failed", zap.Error(err))
	}
}

func convertSeverity(sev errors.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case errors.Info:
		return protocol.DiagnosticSeverityInformation
	case errors.Warning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityError
	}
}

func (s *Server) handleHover(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.HoverParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error()))
	}
	s.mu.Lock()
	doc := s.docs[string(params.TextDocument.URI)]
	s.mu.Unlock()
	if doc == nil || doc.program == nil {
		return reply(ctx, nil, nil)
	}

	target := tooling.FindNode(doc.program, int(params.Position.Line)+1, int(params.Position.Character)+1)
	if target == nil {
		return reply(ctx, nil, nil)
	}

	return reply(ctx, protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.Markdown, Value: describeNode(target)},
	}, nil)
}

func describeNode(n ast.Node) string {
	switch v := n.(type) {
	case *ast.FunctioDecl:
		return fmt.Sprintf("```\nfunctio %s\n```", v.Name)
	case *ast.VariaDecl:
		return fmt.Sprintf("```\n%s %s\n```", v.BindKind, v.Name)
	case *ast.GenusDecl:
		return fmt.Sprintf("```\ngenus %s\n```", v.Name)
	default:
		return fmt.Sprintf("`%T`", n)
	}
}

func (s *Server) handleDocumentSymbol(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentSymbolParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error()))
	}
	s.mu.Lock()
	doc := s.docs[string(params.TextDocument.URI)]
	s.mu.Unlock()
	if doc == nil || doc.program == nil {
		return reply(ctx, []protocol.DocumentSymbol{}, nil)
	}

	var symbols []protocol.DocumentSymbol
	for _, stmt := range doc.program.Body {
		name, kind, ok := symbolOf(stmt)
		if !ok {
			continue
		}
		pos := stmt.GetLocation()
		start := tooling.FromAST(pos)
		end := tooling.FromAST(ast.Position{Line: pos.Line, Column: pos.Column + 1})
		rng := protocol.Range{
			Start: protocol.Position{Line: uint32(start.Line), Character: uint32(start.Character)},
			End:   protocol.Position{Line: uint32(end.Line), Character: uint32(end.Character)},
		}
		symbols = append(symbols, protocol.DocumentSymbol{Name: name, Kind: kind, Range: rng, SelectionRange: rng})
	}
	return reply(ctx, symbols, nil)
}

func symbolOf(stmt ast.Stmt) (string, protocol.SymbolKind, bool) {
	switch v := stmt.(type) {
	case *ast.FunctioDecl:
		return v.Name, protocol.SymbolKindFunction, true
	case *ast.GenusDecl:
		return v.Name, protocol.SymbolKindClass, true
	case *ast.PactumDecl:
		return v.Name, protocol.SymbolKindInterface, true
	case *ast.OrdoDecl:
		return v.Name, protocol.SymbolKindEnum, true
	case *ast.DiscretioDecl:
		return v.Name, protocol.SymbolKindEnum, true
	case *ast.TypeAliasDecl:
		return v.Name, protocol.SymbolKindTypeParameter, true
	case *ast.VariaDecl:
		if v.Name != "" {
			return v.Name, protocol.SymbolKindVariable, true
		}
	}
	return "", 0, false
}
