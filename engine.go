package treelight

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/charmbracelet/log"

	"github.com/jward/treelight/internal/grammar"
	"github.com/jward/treelight/internal/lexical"
	"github.com/jward/treelight/internal/logging"
)

// ErrLanguageNotSupported reports that a language has no compiled grammar.
// Engine construction never returns it; engines for such languages run in
// lexical mode instead.
var ErrLanguageNotSupported = grammar.ErrLanguageNotSupported

// ParseError reports a backend-level parser failure. Syntactically invalid
// input is not a ParseError; the parser returns a tree with error nodes.
type ParseError = grammar.ParseError

// backing is the engine's parser state: grammarBacked engines own a tree
// adapter, lexicalBacked engines classify with keyword tables alone. Call
// sites type-switch on it, keeping the fallback path an explicit branch.
type backing interface{ isBacking() }

type grammarBacked struct{ adapter treeAdapter }

type lexicalBacked struct{}

func (grammarBacked) isBacking() {}
func (lexicalBacked) isBacking() {}

// treeAdapter is the slice of grammar.Adapter the engine consumes.
type treeAdapter interface {
	Parse(ctx context.Context, content []byte) error
	HasTree() bool
	Captures() []grammar.Capture
	FoldSpans() []grammar.FoldSpan
	SelectionSpansAt(cursor uint32) []grammar.SelectionSpan
	Declarations() []grammar.Declaration
	ErrorSpans() []grammar.ErrorSpan
	Close()
}

// Engine derives highlights, fold regions, selection ranges, symbols, and
// definitions for one open buffer. Engines are not safe for concurrent use;
// the intended pattern is one Engine per buffer, called from the editor's
// UI goroutine with the buffer's current content.
type Engine struct {
	filename    string
	language    Language
	back        backing
	lexicons    *lexical.Set
	lexicon     *lexical.Lexicon
	lexiconPath string
	logger      *log.Logger

	// cache holds the highlights for the last content seen, keyed by
	// content hash. Single slot, replaced wholesale on every miss.
	cache *cacheEntry

	// lastParse remembers the hash of the most recently parsed content and
	// whether it produced a tree, so repeated queries on unchanged content
	// never re-invoke the parser.
	lastParse *parseState
}

type cacheEntry struct {
	hash       uint64
	highlights []Highlight
}

type parseState struct {
	hash uint64
	ok   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLanguage overrides the language detected from the filename.
func WithLanguage(lang Language) Option {
	return func(e *Engine) {
		e.language = lang
	}
}

// WithLogger sets the logger for parse-failure warnings. Engines are silent
// by default.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLexiconPath overlays the built-in lexical keyword tables with
// definitions loaded from a YAML file. Languages in the file replace the
// built-in entry wholesale.
func WithLexiconPath(path string) Option {
	return func(e *Engine) {
		e.lexiconPath = path
	}
}

// New creates an Engine for a buffer named filename. The language comes from
// the filename unless WithLanguage overrides it. A language without a
// compiled grammar is not an error; the engine runs in lexical mode.
func New(filename string, opts ...Option) (*Engine, error) {
	e := &Engine{
		filename: filename,
		language: DetectLanguage(filename),
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.lexicons = lexical.Builtin()
	if e.lexiconPath != "" {
		set, err := e.lexicons.WithFile(e.lexiconPath)
		if err != nil {
			return nil, fmt.Errorf("treelight: load lexicons: %w", err)
		}
		e.lexicons = set
	}
	e.lexicon = e.lexicons.For(string(e.language))

	adapter, err := grammar.NewAdapter(string(e.language))
	switch {
	case err == nil:
		e.back = grammarBacked{adapter: adapter}
	case errors.Is(err, grammar.ErrLanguageNotSupported):
		e.back = lexicalBacked{}
	default:
		return nil, fmt.Errorf("treelight: init parser: %w", err)
	}
	return e, nil
}

// Language returns the engine's language.
func (e *Engine) Language() Language { return e.language }

// Filename returns the buffer name the engine was created for.
func (e *Engine) Filename() string { return e.filename }

// HasGrammar reports whether the engine is backed by a compiled grammar.
// Lexical-mode engines still highlight but return empty tree features.
func (e *Engine) HasGrammar() bool {
	_, ok := e.back.(grammarBacked)
	return ok
}

// Close releases parser resources. The Engine must not be used after Close.
func (e *Engine) Close() {
	if gb, ok := e.back.(grammarBacked); ok {
		gb.adapter.Close()
	}
	e.cache = nil
	e.lastParse = nil
}

// ensureTree parses content when it differs from the last parsed content
// and reports whether a usable tree is available. Lexical engines always
// report false. Parser failures are logged, remembered, and downgraded; they
// never reach the caller.
func (e *Engine) ensureTree(ctx context.Context, content []byte) (treeAdapter, bool) {
	gb, ok := e.back.(grammarBacked)
	if !ok {
		return nil, false
	}
	h := hashContent(content)
	if e.lastParse != nil && e.lastParse.hash == h {
		return gb.adapter, e.lastParse.ok
	}
	state := &parseState{hash: h}
	if err := gb.adapter.Parse(ctx, content); err != nil {
		e.logger.Warn("parse failed, degrading to lexical mode",
			"file", e.filename, "language", e.language, "err", err)
	} else {
		state.ok = gb.adapter.HasTree()
	}
	e.lastParse = state
	return gb.adapter, state.ok
}

// hashContent returns the FNV-1a hash of content, the key for the highlight
// cache and reparse checks.
func hashContent(content []byte) uint64 {
	h := fnv.New64a()
	h.Write(content)
	return h.Sum64()
}
