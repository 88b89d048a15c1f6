package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jward/treelight"
)

// semanticTokenTypes is the legend advertised at initialize. Standard
// LSP names where one exists; clients ignore entries they don't know.
var semanticTokenTypes = []string{
	"keyword",
	"function",
	"type",
	"variable",
	"string",
	"number",
	"comment",
	"operator",
	"punctuation",
}

var semanticTokenIndex = map[treelight.HighlightKind]uint32{
	treelight.KindKeyword:       0,
	treelight.KindFunctionName:  1,
	treelight.KindTypeName:      2,
	treelight.KindVariable:      3,
	treelight.KindStringLiteral: 4,
	treelight.KindNumberLiteral: 5,
	treelight.KindComment:       6,
	treelight.KindOperator:      7,
	treelight.KindPunctuation:   8,
}

// encodeSemanticTokens flattens highlights into the protocol's
// delta-encoded five-tuple stream. Spans crossing line boundaries are
// split, one tuple per line, since most clients reject multiline
// tokens.
func encodeSemanticTokens(content []byte, highlights []treelight.Highlight) []protocol.UInteger {
	offsets := lineOffsets(content)
	data := make([]protocol.UInteger, 0, len(highlights)*5)

	prevLine := uint32(0)
	prevCol := uint32(0)
	for _, h := range highlights {
		typeIdx, ok := semanticTokenIndex[h.Kind]
		if !ok {
			continue
		}
		for _, seg := range splitByLine(offsets, h.StartByte, h.EndByte, uint32(len(content))) {
			pos := positionAt(offsets, seg.start)
			deltaLine := pos.Line - prevLine
			deltaCol := pos.Character
			if deltaLine == 0 {
				deltaCol = pos.Character - prevCol
			}
			data = append(data, deltaLine, deltaCol, seg.end-seg.start, typeIdx, 0)
			prevLine = pos.Line
			prevCol = pos.Character
		}
	}
	return data
}

type lineSegment struct {
	start uint32
	end   uint32
}

// splitByLine cuts the byte span [start, end) at every line boundary it
// crosses. Empty segments from trailing newlines are dropped.
func splitByLine(offsets []uint32, start, end, contentLen uint32) []lineSegment {
	if end > contentLen {
		end = contentLen
	}
	if start >= end {
		return nil
	}

	var segs []lineSegment
	for start < end {
		pos := positionAt(offsets, start)
		lineEnd := end
		if int(pos.Line)+1 < len(offsets) && offsets[pos.Line+1] <= end {
			lineEnd = offsets[pos.Line+1] - 1
		}
		if lineEnd > start {
			segs = append(segs, lineSegment{start: start, end: lineEnd})
		}
		if lineEnd >= end {
			break
		}
		start = lineEnd + 1
	}
	return segs
}
