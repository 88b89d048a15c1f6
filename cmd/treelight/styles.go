package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/jward/treelight"
)

// Styles maps highlight kinds to terminal renderers.
type Styles struct {
	Keyword      lipgloss.Style
	String       lipgloss.Style
	Number       lipgloss.Style
	Comment      lipgloss.Style
	FunctionName lipgloss.Style
	TypeName     lipgloss.Style
	Variable     lipgloss.Style
	Operator     lipgloss.Style
	Punctuation  lipgloss.Style
	Error        lipgloss.Style
}

// NewStyles creates highlight styles for the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &Styles{
			Keyword:      plain,
			String:       plain,
			Number:       plain,
			Comment:      plain,
			FunctionName: plain,
			TypeName:     plain,
			Variable:     plain,
			Operator:     plain,
			Punctuation:  plain,
			Error:        plain,
		}
	}
	return &Styles{
		Keyword:      lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
		String:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Number:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Comment:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		FunctionName: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		TypeName:     lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
		Variable:     lipgloss.NewStyle(),
		Operator:     lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Punctuation:  lipgloss.NewStyle(),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}

// For returns the style for a highlight kind.
func (s *Styles) For(kind treelight.HighlightKind) lipgloss.Style {
	switch kind {
	case treelight.KindKeyword:
		return s.Keyword
	case treelight.KindStringLiteral:
		return s.String
	case treelight.KindNumberLiteral:
		return s.Number
	case treelight.KindComment:
		return s.Comment
	case treelight.KindFunctionName:
		return s.FunctionName
	case treelight.KindTypeName:
		return s.TypeName
	case treelight.KindVariable:
		return s.Variable
	case treelight.KindOperator:
		return s.Operator
	case treelight.KindPunctuation:
		return s.Punctuation
	case treelight.KindError:
		return s.Error
	default:
		return s.Variable
	}
}

// isColorEnabled decides color use from the mode flag and writer.
// Mode values: "auto" (default), "always", "never". Auto enables color
// only for a TTY with NO_COLOR unset.
func isColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
