// Package lsp exposes the engine over the Language Server Protocol.
//
// One Engine is kept per open document; edits arrive as incremental
// content changes, are applied to the tracked buffer, and flow through
// the engine's normal parse path. Cross-file definition lookups fall
// back to the symbol index when one is attached.
package lsp

import (
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/jward/treelight/internal/index"
)

const lsName = "treelight"

var version = "0.1.0"

// Server holds per-document state behind the protocol handler.
type Server struct {
	handler *protocol.Handler
	store   *index.Store

	mu   sync.Mutex
	docs map[protocol.DocumentUri]*document
}

// Option configures a Server.
type Option func(*Server)

// WithStore attaches a symbol index for cross-file definition lookups.
func WithStore(store *index.Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// NewServer builds the protocol handler and wraps it in a stdio-capable
// server.
func NewServer(opts ...Option) (*server.Server, error) {
	ls := &Server{
		docs: make(map[protocol.DocumentUri]*document),
	}
	for _, opt := range opts {
		opt(ls)
	}

	ls.handler = &protocol.Handler{
		Initialize:                     ls.initialize,
		Initialized:                    ls.initialized,
		Shutdown:                       ls.shutdown,
		SetTrace:                       ls.setTrace,
		TextDocumentDidOpen:            ls.textDocumentDidOpen,
		TextDocumentDidChange:          ls.textDocumentDidChange,
		TextDocumentDidClose:           ls.textDocumentDidClose,
		TextDocumentFoldingRange:       ls.textDocumentFoldingRange,
		TextDocumentSelectionRange:     ls.textDocumentSelectionRange,
		TextDocumentDefinition:         ls.textDocumentDefinition,
		TextDocumentDocumentSymbol:     ls.textDocumentDocumentSymbol,
		TextDocumentSemanticTokensFull: ls.textDocumentSemanticTokensFull,
	}

	return server.NewServer(ls.handler, lsName, false), nil
}

func (s *Server) initialize(
	context *glsp.Context,
	params *protocol.InitializeParams,
) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}
	capabilities.SemanticTokensProvider = &protocol.SemanticTokensOptions{
		Legend: protocol.SemanticTokensLegend{
			TokenTypes:     semanticTokenTypes,
			TokenModifiers: []string{},
		},
		Full: true,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(context *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	s.mu.Lock()
	defer s.mu.Unlock()
	for uri, doc := range s.docs {
		doc.engine.Close()
		delete(s.docs, uri)
	}
	return nil
}

func (s *Server) setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}
