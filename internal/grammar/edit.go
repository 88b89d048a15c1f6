package grammar

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// editBetween computes the single byte-range edit that turns oldContent into
// newContent: the longest common prefix and suffix are located and everything
// between them is treated as replaced. Good enough for tree-sitter to reuse
// subtrees on typical edits, which touch one contiguous region.
func editBetween(oldContent, newContent []byte) sitter.EditInput {
	prefix := 0
	for prefix < len(oldContent) && prefix < len(newContent) &&
		oldContent[prefix] == newContent[prefix] {
		prefix++
	}

	suffix := 0
	for suffix < len(oldContent)-prefix && suffix < len(newContent)-prefix &&
		oldContent[len(oldContent)-1-suffix] == newContent[len(newContent)-1-suffix] {
		suffix++
	}

	startIndex := uint32(prefix)
	oldEndIndex := uint32(len(oldContent) - suffix)
	newEndIndex := uint32(len(newContent) - suffix)

	return sitter.EditInput{
		StartIndex:  startIndex,
		OldEndIndex: oldEndIndex,
		NewEndIndex: newEndIndex,
		StartPoint:  pointAt(oldContent, int(startIndex)),
		OldEndPoint: pointAt(oldContent, int(oldEndIndex)),
		NewEndPoint: pointAt(newContent, int(newEndIndex)),
	}
}

// pointAt converts a byte offset into a row/column point by scanning content
// up to the offset.
func pointAt(content []byte, offset int) sitter.Point {
	if offset > len(content) {
		offset = len(content)
	}
	var p sitter.Point
	for _, b := range content[:offset] {
		if b == '\n' {
			p.Row++
			p.Column = 0
		} else {
			p.Column++
		}
	}
	return p
}
