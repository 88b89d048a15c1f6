package lsp

import (
	"context"
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jward/treelight"
)

// document is one open buffer and the engine bound to it.
type document struct {
	engine  *treelight.Engine
	content []byte
	version int32
}

func (s *Server) openDocument(uri protocol.DocumentUri, text string, version int32) error {
	eng, err := treelight.New(uriToPath(uri))
	if err != nil {
		return fmt.Errorf("open %s: %w", uri, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.docs[uri]; ok {
		old.engine.Close()
	}
	s.docs[uri] = &document{engine: eng, content: []byte(text), version: version}
	return nil
}

// snapshot returns the engine and a copy-safe view of the current
// content for a document. The content slice must not be mutated.
func (s *Server) snapshot(uri protocol.DocumentUri) (*treelight.Engine, []byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok {
		return nil, nil, false
	}
	return doc.engine, doc.content, true
}

func (s *Server) closeDocument(uri protocol.DocumentUri) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.docs[uri]; ok {
		doc.engine.Close()
		delete(s.docs, uri)
	}
}

func (s *Server) textDocumentDidOpen(
	context *glsp.Context,
	params *protocol.DidOpenTextDocumentParams,
) error {
	uri := params.TextDocument.URI
	if err := s.openDocument(uri, params.TextDocument.Text, params.TextDocument.Version); err != nil {
		return err
	}
	s.publishDiagnostics(context, uri)
	return nil
}

func (s *Server) textDocumentDidChange(
	context *glsp.Context,
	params *protocol.DidChangeTextDocumentParams,
) error {
	uri := params.TextDocument.TextDocumentIdentifier.URI

	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("change for unopened document %s", uri)
	}
	for _, raw := range params.ContentChanges {
		switch change := raw.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			doc.content = applyChange(doc.content, nil, change.Text)
		case protocol.TextDocumentContentChangeEvent:
			doc.content = applyChange(doc.content, change.Range, change.Text)
		default:
			s.mu.Unlock()
			return fmt.Errorf("unexpected change event type %T", raw)
		}
	}
	doc.version = params.TextDocument.Version
	s.mu.Unlock()

	s.publishDiagnostics(context, uri)
	return nil
}

func (s *Server) textDocumentDidClose(
	context *glsp.Context,
	params *protocol.DidCloseTextDocumentParams,
) error {
	s.closeDocument(params.TextDocument.URI)
	return nil
}

// publishDiagnostics pushes the document's current syntax errors.
// An empty list clears previously shown diagnostics.
func (s *Server) publishDiagnostics(glspCtx *glsp.Context, uri protocol.DocumentUri) {
	eng, content, ok := s.snapshot(uri)
	if !ok {
		return
	}

	diags := eng.Diagnostics(context.Background(), content)

	severity := protocol.DiagnosticSeverityError
	source := lsName

	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: d.StartLine, Character: d.StartCol},
				End:   protocol.Position{Line: d.EndLine, Character: d.EndCol},
			},
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}

	glspCtx.Notify("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: out,
	})
}
