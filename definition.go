package treelight

import (
	"context"

	"github.com/jward/treelight/internal/grammar"
)

// Definition finds the declaration site for the identifier at cursor. The
// returned range covers the declared name itself. Nil when no identifier
// touches the cursor, no tree is available, or nothing in the buffer
// declares that name.
//
// With multiple candidates the nearest declaration preceding the cursor
// wins; when none precedes it, the first declaration in document order does.
// This is a byte-offset heuristic, not scope resolution: an outer shadowed
// declaration between the inner one and the cursor can win incorrectly.
func (e *Engine) Definition(ctx context.Context, content []byte, cursor uint32) *Definition {
	name, ok := IdentifierAt(content, cursor)
	if !ok {
		return nil
	}
	adapter, treeOK := e.ensureTree(ctx, content)
	if !treeOK {
		return nil
	}

	var candidates []grammar.Declaration
	for _, d := range adapter.Declarations() {
		if d.Name == name {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	preceding := false
	for _, d := range candidates {
		if d.StartByte < cursor && (!preceding || d.StartByte > best.StartByte) {
			best = d
			preceding = true
		}
	}
	if !preceding {
		best = candidates[0]
	}
	return &Definition{
		StartByte: best.StartByte,
		EndByte:   best.EndByte,
		StartLine: best.StartLine,
		StartCol:  best.StartCol,
		Kind:      best.Kind,
	}
}

// IdentifierAt extracts the maximal alnum/underscore run overlapping the
// cursor. A cursor sitting immediately past the last character still counts.
func IdentifierAt(content []byte, cursor uint32) (string, bool) {
	i := int(cursor)
	if i > len(content) {
		i = len(content)
	}
	if i >= len(content) || !isWordByte(content[i]) {
		if i == 0 || !isWordByte(content[i-1]) {
			return "", false
		}
		i--
	}
	start := i
	for start > 0 && isWordByte(content[start-1]) {
		start--
	}
	end := i + 1
	for end < len(content) && isWordByte(content[end]) {
		end++
	}
	return string(content[start:end]), true
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}
