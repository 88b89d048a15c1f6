package treelight

import "github.com/jward/treelight/internal/index"

// HighlightKind classifies a highlighted span.
type HighlightKind string

const (
	KindKeyword       HighlightKind = "keyword"
	KindStringLiteral HighlightKind = "string_literal"
	KindNumberLiteral HighlightKind = "number_literal"
	KindComment       HighlightKind = "comment"
	KindFunctionName  HighlightKind = "function_name"
	KindTypeName      HighlightKind = "type_name"
	KindVariable      HighlightKind = "variable"
	KindOperator      HighlightKind = "operator"
	KindPunctuation   HighlightKind = "punctuation"
	KindError         HighlightKind = "error"
	KindNone          HighlightKind = "none"
)

// SelectionKind labels one link of a selection-range chain.
type SelectionKind string

const (
	SelectionToken      SelectionKind = "token"
	SelectionExpression SelectionKind = "expression"
	SelectionStatement  SelectionKind = "statement"
	SelectionBlock      SelectionKind = "block"
	SelectionFunction   SelectionKind = "function"
	SelectionClass      SelectionKind = "class"
	SelectionFile       SelectionKind = "file"
)

// Highlight is one classified byte range. Ranges are half-open
// [StartByte, EndByte) and highlights produced in one pass never overlap.
type Highlight struct {
	StartByte uint32
	EndByte   uint32
	Kind      HighlightKind
}

// FoldRegion is a collapsible line range. EndLine is strictly greater than
// StartLine; Level is the nesting depth, 0 at top level. Folded belongs to
// the UI: the engine initializes it to false and never touches it again.
type FoldRegion struct {
	StartLine uint32
	EndLine   uint32
	Level     int
	Folded    bool
}

// SelectionRange is one enclosing syntactic span around a cursor. Ranges
// returned together form a containment chain ordered smallest to largest.
type SelectionRange struct {
	StartByte uint32
	EndByte   uint32
	StartLine uint32
	StartCol  uint32
	EndLine   uint32
	EndCol    uint32
	Kind      SelectionKind
}

// Definition locates a declaration site. The byte range covers the declared
// name itself, not the whole declaration.
type Definition struct {
	StartByte uint32
	EndByte   uint32
	StartLine uint32
	StartCol  uint32
	Kind      string
}

// DocumentSymbol is one named declaration in a buffer. Depth counts the
// enclosing declarations, so a method sits at depth 1 under its type.
type DocumentSymbol struct {
	Name      string
	Kind      string
	Depth     int
	StartByte uint32
	EndByte   uint32
	StartLine uint32
	EndLine   uint32
}

// Diagnostic reports one syntax error found while parsing.
type Diagnostic struct {
	Message   string
	StartByte uint32
	EndByte   uint32
	StartLine uint32
	StartCol  uint32
	EndLine   uint32
	EndCol    uint32
}

// Aliases for the internal index types returned by Indexer queries.

type IndexedFile = index.File
type IndexedSymbol = index.Symbol
type SymbolLocation = index.Location
