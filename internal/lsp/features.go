package lsp

import (
	"context"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jward/treelight"
)

func (s *Server) textDocumentFoldingRange(
	glspCtx *glsp.Context,
	params *protocol.FoldingRangeParams,
) ([]protocol.FoldingRange, error) {
	eng, content, ok := s.snapshot(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	regions := eng.FoldRegions(context.Background(), content)
	out := make([]protocol.FoldingRange, 0, len(regions))
	for _, r := range regions {
		out = append(out, protocol.FoldingRange{
			StartLine: r.StartLine,
			EndLine:   r.EndLine,
		})
	}
	return out, nil
}

func (s *Server) textDocumentSelectionRange(
	glspCtx *glsp.Context,
	params *protocol.SelectionRangeParams,
) ([]protocol.SelectionRange, error) {
	eng, content, ok := s.snapshot(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	out := make([]protocol.SelectionRange, 0, len(params.Positions))
	for _, pos := range params.Positions {
		chain := eng.SelectionRanges(context.Background(), content, offsetAt(content, pos))

		// Innermost range first, parent links walking outward.
		var parent *protocol.SelectionRange
		for i := len(chain) - 1; i >= 0; i-- {
			r := chain[i]
			parent = &protocol.SelectionRange{
				Range: protocol.Range{
					Start: protocol.Position{Line: r.StartLine, Character: r.StartCol},
					End:   protocol.Position{Line: r.EndLine, Character: r.EndCol},
				},
				Parent: parent,
			}
		}
		if parent == nil {
			parent = &protocol.SelectionRange{Range: protocol.Range{Start: pos, End: pos}}
		}
		out = append(out, *parent)
	}
	return out, nil
}

func (s *Server) textDocumentDefinition(
	glspCtx *glsp.Context,
	params *protocol.DefinitionParams,
) (any, error) {
	uri := params.TextDocument.URI
	eng, content, ok := s.snapshot(uri)
	if !ok {
		return nil, nil
	}

	cursor := offsetAt(content, params.Position)
	if def := eng.Definition(context.Background(), content, cursor); def != nil {
		nameLen := def.EndByte - def.StartByte
		return protocol.Location{
			URI: uri,
			Range: protocol.Range{
				Start: protocol.Position{Line: def.StartLine, Character: def.StartCol},
				End:   protocol.Position{Line: def.StartLine, Character: def.StartCol + nameLen},
			},
		}, nil
	}

	// Not declared in this buffer; try the workspace index.
	if s.store == nil {
		return nil, nil
	}
	name, ok := treelight.IdentifierAt(content, cursor)
	if !ok {
		return nil, nil
	}
	locs, err := s.store.LookupSymbol(name)
	if err != nil || len(locs) == 0 {
		return nil, nil
	}

	out := make([]protocol.Location, 0, len(locs))
	for _, loc := range locs {
		out = append(out, protocol.Location{
			URI: pathToURI(loc.Path),
			Range: protocol.Range{
				Start: protocol.Position{Line: uint32(loc.StartLine), Character: uint32(loc.StartCol)},
				End:   protocol.Position{Line: uint32(loc.StartLine), Character: uint32(loc.StartCol + len(loc.Name))},
			},
		})
	}
	return out, nil
}

func (s *Server) textDocumentDocumentSymbol(
	glspCtx *glsp.Context,
	params *protocol.DocumentSymbolParams,
) (any, error) {
	eng, content, ok := s.snapshot(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	syms := eng.DocumentSymbols(context.Background(), content)
	offsets := lineOffsets(content)
	tree, _ := buildSymbolTree(syms, 0, 0, offsets)
	return tree, nil
}

// buildSymbolTree converts the flat depth-annotated symbol list into
// the protocol's nested form. It consumes symbols at exactly depth
// until a shallower one appears; deeper runs become children of the
// most recent node at this level.
func buildSymbolTree(
	syms []treelight.DocumentSymbol, i, depth int, offsets []uint32,
) ([]protocol.DocumentSymbol, int) {
	var out []protocol.DocumentSymbol
	for i < len(syms) {
		sym := syms[i]
		if sym.Depth < depth {
			break
		}
		if sym.Depth > depth && len(out) > 0 {
			var kids []protocol.DocumentSymbol
			kids, i = buildSymbolTree(syms, i, sym.Depth, offsets)
			out[len(out)-1].Children = append(out[len(out)-1].Children, kids...)
			continue
		}
		rng := rangeFor(offsets, sym.StartByte, sym.EndByte)
		out = append(out, protocol.DocumentSymbol{
			Name:           sym.Name,
			Kind:           symbolKind(sym.Kind, sym.Depth > 0),
			Range:          rng,
			SelectionRange: rng,
		})
		i++
	}
	return out, i
}

func symbolKind(kind string, nested bool) protocol.SymbolKind {
	switch kind {
	case "function":
		if nested {
			return protocol.SymbolKindMethod
		}
		return protocol.SymbolKindFunction
	case "type":
		return protocol.SymbolKindClass
	case "constant":
		return protocol.SymbolKindConstant
	case "field":
		return protocol.SymbolKindField
	default:
		return protocol.SymbolKindVariable
	}
}

func (s *Server) textDocumentSemanticTokensFull(
	glspCtx *glsp.Context,
	params *protocol.SemanticTokensParams,
) (*protocol.SemanticTokens, error) {
	eng, content, ok := s.snapshot(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	highlights := eng.Highlight(context.Background(), content)
	return &protocol.SemanticTokens{
		Data: encodeSemanticTokens(content, highlights),
	}, nil
}
