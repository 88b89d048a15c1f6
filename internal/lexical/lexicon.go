// Package lexical implements the fallback tokenizer used when a buffer's
// language has no tree-sitter grammar or when parsing fails. Classification
// is driven by per-language lexicons: comment markers, quote characters, a
// keyword table, and operator/punctuation sets. Built-in lexicons ship as
// embedded YAML; callers may layer a user-supplied YAML file over them.
package lexical

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed lexicons.yaml
var builtinYAML []byte

// Lexicon holds the lexical classification data for one language.
type Lexicon struct {
	Name              string
	LineComment       string
	BlockCommentStart string
	BlockCommentEnd   string
	Quotes            string
	Keywords          map[string]bool
	Operators         string
	Punctuation       string
}

// lexiconYAML is the on-disk shape of one lexicon entry.
type lexiconYAML struct {
	LineComment       string   `yaml:"line_comment"`
	BlockCommentStart string   `yaml:"block_comment_start"`
	BlockCommentEnd   string   `yaml:"block_comment_end"`
	Quotes            string   `yaml:"quotes"`
	Keywords          []string `yaml:"keywords"`
	Operators         string   `yaml:"operators"`
	Punctuation       string   `yaml:"punctuation"`
}

func (y lexiconYAML) toLexicon(name string) *Lexicon {
	lex := &Lexicon{
		Name:              name,
		LineComment:       y.LineComment,
		BlockCommentStart: y.BlockCommentStart,
		BlockCommentEnd:   y.BlockCommentEnd,
		Quotes:            y.Quotes,
		Keywords:          make(map[string]bool, len(y.Keywords)),
		Operators:         y.Operators,
		Punctuation:       y.Punctuation,
	}
	for _, kw := range y.Keywords {
		lex.Keywords[kw] = true
	}
	return lex
}

// Set is an immutable collection of lexicons keyed by language name.
type Set struct {
	lexicons map[string]*Lexicon
}

var (
	builtinOnce sync.Once
	builtinSet  *Set
)

// Builtin returns the set parsed from the embedded lexicon data.
// Parsed once; the returned set is shared and must not be mutated.
func Builtin() *Set {
	builtinOnce.Do(func() {
		set, err := parseSet(builtinYAML)
		if err != nil {
			// The embedded data is part of the build; a parse failure here
			// is a programming error, not a runtime condition.
			panic(fmt.Sprintf("lexical: embedded lexicons: %v", err))
		}
		builtinSet = set
	})
	return builtinSet
}

func parseSet(data []byte) (*Set, error) {
	var raw map[string]lexiconYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse lexicons: %w", err)
	}
	set := &Set{lexicons: make(map[string]*Lexicon, len(raw))}
	for name, entry := range raw {
		set.lexicons[strings.ToLower(name)] = entry.toLexicon(name)
	}
	return set, nil
}

// WithFile returns a new set with the lexicons from path layered over s.
// Entries in the file replace same-named built-ins wholesale.
func (s *Set) WithFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon file: %w", err)
	}
	overlay, err := parseSet(data)
	if err != nil {
		return nil, fmt.Errorf("lexicon file %s: %w", path, err)
	}
	merged := &Set{lexicons: make(map[string]*Lexicon, len(s.lexicons)+len(overlay.lexicons))}
	for name, lex := range s.lexicons {
		merged.lexicons[name] = lex
	}
	for name, lex := range overlay.lexicons {
		merged.lexicons[name] = lex
	}
	return merged, nil
}

// For returns the lexicon for the given language, or the generic lexicon
// when the language has no entry. Never nil.
func (s *Set) For(language string) *Lexicon {
	if lex, ok := s.lexicons[strings.ToLower(language)]; ok {
		return lex
	}
	return Generic()
}

// Languages returns the names of all languages with a lexicon entry.
func (s *Set) Languages() []string {
	names := make([]string, 0, len(s.lexicons))
	for name := range s.lexicons {
		names = append(names, name)
	}
	return names
}

var genericLexicon = &Lexicon{
	Name:              "generic",
	LineComment:       "//",
	BlockCommentStart: "/*",
	BlockCommentEnd:   "*/",
	Quotes:            "\"'`",
	Keywords:          map[string]bool{},
	Operators:         "+-*/%=<>!&|^~?",
	Punctuation:       "()[]{},;:.",
}

// Generic returns the C-like lexicon used for languages without an entry.
// It has an empty keyword table, so identifiers are left unhighlighted.
func Generic() *Lexicon {
	return genericLexicon
}
