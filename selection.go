package treelight

import "context"

// SelectionRanges returns the chain of syntactic spans enclosing cursor,
// smallest first, ending at the whole file. Successive ranges always contain
// their predecessors. Empty without a tree or for an empty buffer.
func (e *Engine) SelectionRanges(ctx context.Context, content []byte, cursor uint32) []SelectionRange {
	if len(content) == 0 {
		return nil
	}
	adapter, ok := e.ensureTree(ctx, content)
	if !ok {
		return nil
	}
	spans := adapter.SelectionSpansAt(cursor)
	out := make([]SelectionRange, 0, len(spans))
	for _, s := range spans {
		out = append(out, SelectionRange{
			StartByte: s.StartByte,
			EndByte:   s.EndByte,
			StartLine: s.StartLine,
			StartCol:  s.StartCol,
			EndLine:   s.EndLine,
			EndCol:    s.EndCol,
			Kind:      SelectionKind(s.Kind),
		})
	}
	return out
}

// ExpandSelection returns the smallest enclosing range that strictly
// contains the selection [startByte, endByte), skipping ranges identical to
// it. Nil means the selection already covers the outermost range; that is
// the end of the chain, not an error.
func (e *Engine) ExpandSelection(ctx context.Context, content []byte, startByte, endByte uint32) *SelectionRange {
	for _, r := range e.SelectionRanges(ctx, content, startByte) {
		if r.StartByte <= startByte && r.EndByte >= endByte &&
			!(r.StartByte == startByte && r.EndByte == endByte) {
			out := r
			return &out
		}
	}
	return nil
}

// ShrinkSelection returns the largest range strictly inside the selection
// [startByte, endByte). Nil means the selection is already minimal.
func (e *Engine) ShrinkSelection(ctx context.Context, content []byte, startByte, endByte uint32) *SelectionRange {
	ranges := e.SelectionRanges(ctx, content, startByte)
	for i := len(ranges) - 1; i >= 0; i-- {
		r := ranges[i]
		if r.StartByte >= startByte && r.EndByte <= endByte &&
			!(r.StartByte == startByte && r.EndByte == endByte) {
			out := r
			return &out
		}
	}
	return nil
}
