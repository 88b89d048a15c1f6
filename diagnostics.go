package treelight

import (
	"context"
	"fmt"
)

// Diagnostics reports the syntax errors in content. A clean parse, a
// lexical-mode engine, and a failed parse all yield an empty result.
func (e *Engine) Diagnostics(ctx context.Context, content []byte) []Diagnostic {
	adapter, ok := e.ensureTree(ctx, content)
	if !ok {
		return nil
	}
	spans := adapter.ErrorSpans()
	out := make([]Diagnostic, 0, len(spans))
	for _, s := range spans {
		msg := "syntax error"
		if s.Missing {
			msg = fmt.Sprintf("missing %q", s.Kind)
		}
		out = append(out, Diagnostic{
			Message:   msg,
			StartByte: s.StartByte,
			EndByte:   s.EndByte,
			StartLine: s.StartLine,
			StartCol:  s.StartCol,
			EndLine:   s.EndLine,
			EndCol:    s.EndCol,
		})
	}
	return out
}
