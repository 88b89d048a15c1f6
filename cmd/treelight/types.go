package main

// CLIResult is the top-level JSON envelope for all commands.
type CLIResult struct {
	Command    string `json:"command"`
	File       string `json:"file,omitempty"`
	Language   string `json:"language,omitempty"`
	Results    any    `json:"results"`
	TotalCount *int   `json:"total_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CLIHighlight is a JSON-friendly highlight span. Text carries the
// covered source so consumers don't have to re-slice the file.
type CLIHighlight struct {
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	Kind      string `json:"kind"`
	Text      string `json:"text,omitempty"`
}

// CLIFoldRegion is a JSON-friendly fold region.
type CLIFoldRegion struct {
	StartLine uint32 `json:"start_line"`
	EndLine   uint32 `json:"end_line"`
	Level     int    `json:"level"`
}

// CLISelectionRange is one link of a selection chain.
type CLISelectionRange struct {
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line"`
	StartCol  uint32 `json:"start_col"`
	EndLine   uint32 `json:"end_line"`
	EndCol    uint32 `json:"end_col"`
	Kind      string `json:"kind"`
}

// CLIDefinition is a JSON-friendly definition site.
type CLIDefinition struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	StartLine uint32 `json:"start_line"`
	StartCol  uint32 `json:"start_col"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
}

// CLISymbol is a JSON-friendly document symbol.
type CLISymbol struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Depth     int    `json:"depth"`
	StartLine uint32 `json:"start_line"`
	EndLine   uint32 `json:"end_line"`
}

// CLIDiagnostic is a JSON-friendly syntax diagnostic.
type CLIDiagnostic struct {
	Message   string `json:"message"`
	StartLine uint32 `json:"start_line"`
	StartCol  uint32 `json:"start_col"`
	EndLine   uint32 `json:"end_line"`
	EndCol    uint32 `json:"end_col"`
}

// CLILocation is an indexed declaration with its file path.
type CLILocation struct {
	File      string `json:"file"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
}

// CLIStats summarizes index contents.
type CLIStats struct {
	Files     int            `json:"files"`
	Symbols   int            `json:"symbols"`
	Languages map[string]int `json:"languages"`
}
