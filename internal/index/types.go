package index

import "time"

// File is one indexed source file. Hash is the hex SHA-256 of the
// content at the time it was indexed; the indexer compares it against
// the current content to skip files that have not changed.
type File struct {
	ID          int64
	Path        string
	Language    string
	Hash        string
	LineCount   int
	LastIndexed time.Time
}

// Symbol is one declaration extracted from a file. Lines and columns
// are zero-based. Depth is the nesting level within the file's other
// declarations (methods and fields sit at depth 1 under their type).
type Symbol struct {
	ID        int64
	FileID    int64
	Name      string
	Kind      string
	Depth     int
	StartLine int
	StartCol  int
	EndLine   int
	StartByte int64
	EndByte   int64
}

// Location is a symbol joined with the path of the file that declares
// it, the shape lookup queries return.
type Location struct {
	Path      string
	Name      string
	Kind      string
	StartLine int
	StartCol  int
	EndLine   int
}
