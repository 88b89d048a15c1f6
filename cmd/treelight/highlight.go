package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jward/treelight"
)

var flagRender bool

var highlightCmd = &cobra.Command{
	Use:   "highlight <file>",
	Short: "Classify a file into highlight spans",
	Long:  "Parses the file (or falls back to the lexical tokenizer) and emits classified spans. With --render the source is printed with ANSI colors instead.",
	Args:  cobra.ExactArgs(1),
	RunE:  runHighlight,
}

func init() {
	highlightCmd.Flags().BoolVar(&flagRender, "render", false, "print the colorized source instead of span data")
}

func runHighlight(cmd *cobra.Command, args []string) error {
	eng, content, err := loadEngine(args[0])
	if err != nil {
		return outputError("highlight", err)
	}
	defer eng.Close()

	highlights := eng.Highlight(context.Background(), content)

	if flagRender {
		styles := NewStyles(isColorEnabled(flagColor, os.Stdout))
		renderHighlighted(os.Stdout, content, highlights, styles)
		return nil
	}

	spans := make([]CLIHighlight, 0, len(highlights))
	for _, h := range highlights {
		spans = append(spans, CLIHighlight{
			StartByte: h.StartByte,
			EndByte:   h.EndByte,
			Kind:      string(h.Kind),
			Text:      string(content[h.StartByte:h.EndByte]),
		})
	}

	return outputResult(CLIResult{
		Command:  "highlight",
		File:     eng.Filename(),
		Language: string(eng.Language()),
		Results:  spans,
	})
}

// renderHighlighted writes the source with each span styled. Bytes not
// covered by a span pass through unstyled.
func renderHighlighted(w io.Writer, content []byte, highlights []treelight.Highlight, styles *Styles) {
	pos := uint32(0)
	for _, h := range highlights {
		if h.StartByte > pos {
			fmt.Fprint(w, string(content[pos:h.StartByte]))
		}
		fmt.Fprint(w, styles.For(h.Kind).Render(string(content[h.StartByte:h.EndByte])))
		pos = h.EndByte
	}
	if int(pos) < len(content) {
		fmt.Fprint(w, string(content[pos:]))
	}
}
