package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jward/treelight"
	"github.com/jward/treelight/internal/logging"
)

// loadEngine creates an engine for path and reads the file's content.
// The caller owns the engine and must Close it.
func loadEngine(path string) (*treelight.Engine, []byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving path %q: %w", path, err)
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", abs, err)
	}

	var opts []treelight.Option
	if flagLexicons != "" {
		opts = append(opts, treelight.WithLexiconPath(flagLexicons))
	}
	if flagVerbose {
		opts = append(opts, treelight.WithLogger(logging.Default()))
	}

	eng, err := treelight.New(abs, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("creating engine for %s: %w", abs, err)
	}
	return eng, content, nil
}

// parseIntArg parses a positional argument as a non-negative integer.
func parseIntArg(value, name string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative integer", name, value)
	}
	return n, nil
}

// positionOffset converts a zero-based line and column to a byte
// offset, clamping the line to the document and the column to the line.
func positionOffset(content []byte, line, col int) uint32 {
	off := 0
	for line > 0 && off < len(content) {
		if content[off] == '\n' {
			line--
		}
		off++
	}
	for col > 0 && off < len(content) && content[off] != '\n' {
		col--
		off++
	}
	return uint32(off)
}
