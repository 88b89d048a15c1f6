package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var selectCmd = &cobra.Command{
	Use:   "select <file> <line> <col>",
	Short: "Show the selection chain at a position",
	Long:  "Prints the enclosing syntactic ranges around a zero-based line and column, smallest to largest. Each range is what expand-selection would pick next.",
	Args:  cobra.ExactArgs(3),
	RunE:  runSelect,
}

func runSelect(cmd *cobra.Command, args []string) error {
	line, err := parseIntArg(args[1], "line")
	if err != nil {
		return outputError("select", err)
	}
	col, err := parseIntArg(args[2], "col")
	if err != nil {
		return outputError("select", err)
	}

	eng, content, err := loadEngine(args[0])
	if err != nil {
		return outputError("select", err)
	}
	defer eng.Close()

	chain := eng.SelectionRanges(context.Background(), content, positionOffset(content, line, col))

	ranges := make([]CLISelectionRange, 0, len(chain))
	for _, r := range chain {
		ranges = append(ranges, CLISelectionRange{
			StartByte: r.StartByte,
			EndByte:   r.EndByte,
			StartLine: r.StartLine,
			StartCol:  r.StartCol,
			EndLine:   r.EndLine,
			EndCol:    r.EndCol,
			Kind:      string(r.Kind),
		})
	}

	return outputResult(CLIResult{
		Command:  "select",
		File:     eng.Filename(),
		Language: string(eng.Language()),
		Results:  ranges,
	})
}

var defCmd = &cobra.Command{
	Use:   "def <file> <line> <col>",
	Short: "Find the declaration for the identifier at a position",
	Long:  "Resolves the identifier under the zero-based position to its declaration in the same file. When no in-file declaration exists, the symbol index is consulted if present.",
	Args:  cobra.ExactArgs(3),
	RunE:  runDef,
}

func runDef(cmd *cobra.Command, args []string) error {
	line, err := parseIntArg(args[1], "line")
	if err != nil {
		return outputError("def", err)
	}
	col, err := parseIntArg(args[2], "col")
	if err != nil {
		return outputError("def", err)
	}

	eng, content, err := loadEngine(args[0])
	if err != nil {
		return outputError("def", err)
	}
	defer eng.Close()

	def := eng.Definition(context.Background(), content, positionOffset(content, line, col))
	if def != nil {
		return outputResult(CLIResult{
			Command:  "def",
			File:     eng.Filename(),
			Language: string(eng.Language()),
			Results: CLIDefinition{
				Name:      string(content[def.StartByte:def.EndByte]),
				Kind:      def.Kind,
				StartLine: def.StartLine,
				StartCol:  def.StartCol,
				StartByte: def.StartByte,
				EndByte:   def.EndByte,
			},
		})
	}

	// No in-file declaration; fall back to the index when one exists.
	locs, err := lookupInIndex(content, positionOffset(content, line, col))
	if err != nil {
		return outputError("def", err)
	}
	if len(locs) == 0 {
		return outputError("def", fmt.Errorf("no definition found at %s:%d:%d", args[0], line, col))
	}

	return outputResult(CLIResult{
		Command: "def",
		File:    eng.Filename(),
		Results: locs,
	})
}
