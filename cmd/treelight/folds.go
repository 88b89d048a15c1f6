package main

import (
	"context"

	"github.com/spf13/cobra"
)

var foldsCmd = &cobra.Command{
	Use:   "folds <file>",
	Short: "List collapsible regions of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runFolds,
}

func runFolds(cmd *cobra.Command, args []string) error {
	eng, content, err := loadEngine(args[0])
	if err != nil {
		return outputError("folds", err)
	}
	defer eng.Close()

	regions := eng.FoldRegions(context.Background(), content)

	folds := make([]CLIFoldRegion, 0, len(regions))
	for _, r := range regions {
		folds = append(folds, CLIFoldRegion{
			StartLine: r.StartLine,
			EndLine:   r.EndLine,
			Level:     r.Level,
		})
	}

	return outputResult(CLIResult{
		Command:  "folds",
		File:     eng.Filename(),
		Language: string(eng.Language()),
		Results:  folds,
	})
}

var symbolsCmd = &cobra.Command{
	Use:   "symbols <file>",
	Short: "List the declarations in a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSymbols,
}

func runSymbols(cmd *cobra.Command, args []string) error {
	eng, content, err := loadEngine(args[0])
	if err != nil {
		return outputError("symbols", err)
	}
	defer eng.Close()

	docSyms := eng.DocumentSymbols(context.Background(), content)

	syms := make([]CLISymbol, 0, len(docSyms))
	for _, s := range docSyms {
		syms = append(syms, CLISymbol{
			Name:      s.Name,
			Kind:      s.Kind,
			Depth:     s.Depth,
			StartLine: s.StartLine,
			EndLine:   s.EndLine,
		})
	}

	return outputResult(CLIResult{
		Command:  "symbols",
		File:     eng.Filename(),
		Language: string(eng.Language()),
		Results:  syms,
	})
}

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Report syntax errors found while parsing",
	Long:  "Parses the file and lists error and missing-node regions. Exits zero even when the file has errors; use the output to decide.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	eng, content, err := loadEngine(args[0])
	if err != nil {
		return outputError("check", err)
	}
	defer eng.Close()

	found := eng.Diagnostics(context.Background(), content)

	diags := make([]CLIDiagnostic, 0, len(found))
	for _, d := range found {
		diags = append(diags, CLIDiagnostic{
			Message:   d.Message,
			StartLine: d.StartLine,
			StartCol:  d.StartCol,
			EndLine:   d.EndLine,
			EndCol:    d.EndCol,
		})
	}

	return outputResult(CLIResult{
		Command:  "check",
		File:     eng.Filename(),
		Language: string(eng.Language()),
		Results:  diags,
	})
}
