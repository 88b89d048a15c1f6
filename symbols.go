package treelight

import "context"

// DocumentSymbols lists the declarations in content in document order. Depth
// reflects declaration nesting, so a struct field or method sits one level
// under its type. Empty without a tree.
func (e *Engine) DocumentSymbols(ctx context.Context, content []byte) []DocumentSymbol {
	adapter, ok := e.ensureTree(ctx, content)
	if !ok {
		return nil
	}
	decls := adapter.Declarations()
	out := make([]DocumentSymbol, 0, len(decls))
	for _, d := range decls {
		out = append(out, DocumentSymbol{
			Name:      d.Name,
			Kind:      d.Kind,
			Depth:     d.Depth,
			StartByte: d.SpanStart,
			EndByte:   d.SpanEnd,
			StartLine: d.SpanStartLine,
			EndLine:   d.SpanEndLine,
		})
	}
	return out
}
