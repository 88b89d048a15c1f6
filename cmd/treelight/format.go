package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
)

// outputResult marshals a CLIResult to stdout in the selected format.
func outputResult(result CLIResult) error {
	if flagFormat == "text" {
		return outputResultText(result)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputError writes an error in the selected format and returns it so
// RunE can propagate it to Cobra. JSON mode wraps it in the envelope on
// stdout; text mode goes to stderr.
func outputError(command string, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	result := CLIResult{
		Command: command,
		Error:   err.Error(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
	return err
}

// outputResultText dispatches to a text formatter by result type.
func outputResultText(result CLIResult) error {
	w := io.Writer(os.Stdout)

	switch v := result.Results.(type) {
	case []CLIHighlight:
		formatHighlightsText(w, v)
	case []CLIFoldRegion:
		formatFoldsText(w, v)
	case []CLISelectionRange:
		formatSelectionsText(w, v)
	case CLIDefinition:
		formatDefinitionText(w, result.File, v)
	case []CLISymbol:
		formatSymbolsText(w, v)
	case []CLIDiagnostic:
		formatDiagnosticsText(w, result.File, v)
	case []CLILocation:
		formatLocationsText(w, v)
	case CLIStats:
		formatStatsText(w, v)
	case nil:
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

func formatHighlightsText(w io.Writer, spans []CLIHighlight) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "START\tEND\tKIND\tTEXT")
	for _, s := range spans {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", s.StartByte, s.EndByte, s.Kind, truncate(s.Text, 40))
	}
	tw.Flush()
}

func formatFoldsText(w io.Writer, folds []CLIFoldRegion) {
	for _, f := range folds {
		fmt.Fprintf(w, "%s%d-%d\n", strings.Repeat("  ", f.Level), f.StartLine, f.EndLine)
	}
}

func formatSelectionsText(w io.Writer, ranges []CLISelectionRange) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tSTART\tEND\tRANGE")
	for _, r := range ranges {
		fmt.Fprintf(tw, "%s\t%d:%d\t%d:%d\t[%d,%d)\n",
			r.Kind, r.StartLine, r.StartCol, r.EndLine, r.EndCol, r.StartByte, r.EndByte)
	}
	tw.Flush()
}

func formatDefinitionText(w io.Writer, file string, def CLIDefinition) {
	fmt.Fprintf(w, "%s:%d:%d\t%s (%s)\n", file, def.StartLine, def.StartCol, def.Name, def.Kind)
}

func formatSymbolsText(w io.Writer, syms []CLISymbol) {
	for _, s := range syms {
		fmt.Fprintf(w, "%s%s %s [%d-%d]\n",
			strings.Repeat("  ", s.Depth), s.Kind, s.Name, s.StartLine, s.EndLine)
	}
}

func formatDiagnosticsText(w io.Writer, file string, diags []CLIDiagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s:%d:%d: %s\n", file, d.StartLine, d.StartCol, d.Message)
	}
}

func formatLocationsText(w io.Writer, locs []CLILocation) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, loc := range locs {
		fmt.Fprintf(tw, "%s:%d:%d\t%s\t%s\n", loc.File, loc.StartLine, loc.StartCol, loc.Name, loc.Kind)
	}
	tw.Flush()
}

func formatStatsText(w io.Writer, stats CLIStats) {
	fmt.Fprintf(w, "Files: %d\n", stats.Files)
	fmt.Fprintf(w, "Symbols: %d\n", stats.Symbols)
	if len(stats.Languages) > 0 {
		fmt.Fprintln(w, "Languages:")
		langs := make([]string, 0, len(stats.Languages))
		for lang := range stats.Languages {
			langs = append(langs, lang)
		}
		sort.Strings(langs)
		for _, lang := range langs {
			fmt.Fprintf(w, "  %s: %d\n", lang, stats.Languages[lang])
		}
	}
}

// truncate shortens s to max bytes with an ellipsis marker, flattening
// newlines so table rows stay on one line.
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
