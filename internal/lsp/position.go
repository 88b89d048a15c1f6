package lsp

import (
	"net/url"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Positions on the wire are interpreted with byte-counted columns.
// Identical to the protocol's UTF-16 counts for ASCII content; for
// multi-byte runes the mapping drifts, which the engine tolerates
// because every offset is clamped.

// lineOffsets returns the byte offset of the start of each line.
// There is always at least one entry, for line 0.
func lineOffsets(content []byte) []uint32 {
	offsets := []uint32{0}
	for i, b := range content {
		if b == '\n' {
			offsets = append(offsets, uint32(i+1))
		}
	}
	return offsets
}

// offsetAt converts a protocol position to a byte offset, clamping the
// line to the document and the column to the line.
func offsetAt(content []byte, pos protocol.Position) uint32 {
	offsets := lineOffsets(content)
	if int(pos.Line) >= len(offsets) {
		return uint32(len(content))
	}
	start := offsets[pos.Line]
	end := uint32(len(content))
	if int(pos.Line)+1 < len(offsets) {
		end = offsets[pos.Line+1] - 1
	}
	off := start + pos.Character
	if off > end {
		off = end
	}
	return off
}

// positionAt converts a byte offset to a protocol position using
// precomputed line offsets.
func positionAt(offsets []uint32, off uint32) protocol.Position {
	line := 0
	for line+1 < len(offsets) && offsets[line+1] <= off {
		line++
	}
	return protocol.Position{
		Line:      uint32(line),
		Character: off - offsets[line],
	}
}

// rangeFor converts a byte span to a protocol range.
func rangeFor(offsets []uint32, start, end uint32) protocol.Range {
	return protocol.Range{
		Start: positionAt(offsets, start),
		End:   positionAt(offsets, end),
	}
}

// applyChange applies one content change to the document. A change
// without a range replaces the whole document.
func applyChange(content []byte, rng *protocol.Range, text string) []byte {
	if rng == nil {
		return []byte(text)
	}
	start := offsetAt(content, rng.Start)
	end := offsetAt(content, rng.End)
	if end < start {
		start, end = end, start
	}
	buf := make([]byte, 0, len(content)-int(end-start)+len(text))
	buf = append(buf, content[:start]...)
	buf = append(buf, text...)
	buf = append(buf, content[end:]...)
	return buf
}

// uriToPath strips the file scheme from a document URI. Non-file URIs
// are returned as-is.
func uriToPath(uri protocol.DocumentUri) string {
	parsed, err := url.Parse(string(uri))
	if err != nil || parsed.Scheme != "file" {
		return string(uri)
	}
	return parsed.Path
}

// pathToURI builds a file URI from an absolute path.
func pathToURI(path string) protocol.DocumentUri {
	if strings.HasPrefix(path, "file://") {
		return protocol.DocumentUri(path)
	}
	return protocol.DocumentUri("file://" + path)
}
