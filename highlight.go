package treelight

import "context"

// Highlight returns the classified spans for content. Results for unchanged
// content come from the single-slot cache without touching the parser. All
// parser failures are caught and downgraded to lexical classification, so
// this operation never surfaces an error.
func (e *Engine) Highlight(ctx context.Context, content []byte) []Highlight {
	h := hashContent(content)
	if e.cache != nil && e.cache.hash == h {
		return append([]Highlight(nil), e.cache.highlights...)
	}

	var highlights []Highlight
	if adapter, ok := e.ensureTree(ctx, content); ok {
		highlights = treeHighlights(adapter)
	} else {
		highlights = e.lexicalHighlights(content)
	}

	e.cache = &cacheEntry{hash: h, highlights: highlights}
	return append([]Highlight(nil), highlights...)
}

func treeHighlights(adapter treeAdapter) []Highlight {
	captures := adapter.Captures()
	out := make([]Highlight, 0, len(captures))
	for _, c := range captures {
		out = append(out, Highlight{
			StartByte: c.StartByte,
			EndByte:   c.EndByte,
			Kind:      HighlightKind(c.Kind),
		})
	}
	return out
}

func (e *Engine) lexicalHighlights(content []byte) []Highlight {
	tokens := e.lexicon.Scan(content)
	out := make([]Highlight, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, Highlight{
			StartByte: t.StartByte,
			EndByte:   t.EndByte,
			Kind:      HighlightKind(t.Kind),
		})
	}
	return out
}
