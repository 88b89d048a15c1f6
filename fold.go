package treelight

import (
	"context"
	"sort"
)

// FoldRegions returns the collapsible line ranges of content in document
// order. With a tree, block-like constructs fold; without one, a raw brace
// scan supplies a best-effort approximation.
func (e *Engine) FoldRegions(ctx context.Context, content []byte) []FoldRegion {
	if adapter, ok := e.ensureTree(ctx, content); ok {
		spans := adapter.FoldSpans()
		out := make([]FoldRegion, 0, len(spans))
		for _, s := range spans {
			out = append(out, FoldRegion{
				StartLine: s.StartLine,
				EndLine:   s.EndLine,
				Level:     s.Level,
			})
		}
		return out
	}
	return braceFoldRegions(content)
}

// braceFoldRegions pairs braces in a single scan, pushing the line of each
// '{' and emitting a region when the matching '}' closes on a later line.
// Level is the stack depth remaining after the pop. Assumes balanced braces
// and does not see strings or comments.
func braceFoldRegions(content []byte) []FoldRegion {
	var regions []FoldRegion
	var stack []uint32
	var line uint32
	for _, b := range content {
		switch b {
		case '\n':
			line++
		case '{':
			stack = append(stack, line)
		case '}':
			if len(stack) == 0 {
				continue
			}
			start := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if line > start {
				regions = append(regions, FoldRegion{
					StartLine: start,
					EndLine:   line,
					Level:     len(stack),
				})
			}
		}
	}
	sort.Slice(regions, func(i, j int) bool {
		if regions[i].StartLine != regions[j].StartLine {
			return regions[i].StartLine < regions[j].StartLine
		}
		return regions[i].EndLine > regions[j].EndLine
	})
	return regions
}
