// Package grammar wraps the tree-sitter backend: the registry of compiled
// grammars, the per-buffer parser adapter with incremental reparse, and the
// tree-level extraction behind highlighting, folding, selection ranges, and
// definition lookup. Tree-sitter node handles never leave this package;
// every exported function returns plain value types.
package grammar

import (
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/dockerfile"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/lua"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	ts "github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/smacker/go-tree-sitter/yaml"
)

// langToGrammar maps language names to tree-sitter Language objects.
// Lazily initialized on first call via sync.Once.
var (
	langToGrammar map[string]*sitter.Language
	grammarsOnce  sync.Once
)

func initGrammars() {
	grammarsOnce.Do(func() {
		langToGrammar = map[string]*sitter.Language{
			"bash":       bash.GetLanguage(),
			"c":          c.GetLanguage(),
			"cpp":        cpp.GetLanguage(),
			"css":        css.GetLanguage(),
			"dockerfile": dockerfile.GetLanguage(),
			"go":         golang.GetLanguage(),
			"html":       html.GetLanguage(),
			"java":       java.GetLanguage(),
			"javascript": javascript.GetLanguage(),
			"lua":        lua.GetLanguage(),
			"php":        php.GetLanguage(),
			"python":     python.GetLanguage(),
			"ruby":       ruby.GetLanguage(),
			"rust":       rust.GetLanguage(),
			"toml":       toml.GetLanguage(),
			"tsx":        tsx.GetLanguage(),
			"typescript": ts.GetLanguage(),
			"yaml":       yaml.GetLanguage(),
		}
	})
}

// GrammarFor returns the tree-sitter Language for a canonical language name.
// Returns (nil, false) if the language has no compiled grammar.
func GrammarFor(language string) (*sitter.Language, bool) {
	initGrammars()
	l, ok := langToGrammar[language]
	return l, ok
}

// Supported reports whether a compiled grammar exists for the language.
func Supported(language string) bool {
	_, ok := GrammarFor(language)
	return ok
}

// Languages returns the canonical names of all languages with a compiled
// grammar, in no particular order.
func Languages() []string {
	initGrammars()
	names := make([]string, 0, len(langToGrammar))
	for name := range langToGrammar {
		names = append(names, name)
	}
	return names
}
