package grammar

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// ErrLanguageNotSupported is returned by NewAdapter when the requested
// language has no compiled grammar.
var ErrLanguageNotSupported = errors.New("language not supported")

// ParseError reports a backend-level parse failure. Syntactically invalid
// input is not a ParseError: the backend still produces a tree containing
// error nodes for malformed source.
type ParseError struct {
	Language string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Language, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Adapter owns one parser bound to one language and at most one tree. Each
// Parse replaces the tree, so node handles never outlive the call that used
// them. Not safe for concurrent use; the intended pattern is one Adapter per
// open buffer, driven from a single goroutine.
type Adapter struct {
	language string
	parser   *sitter.Parser
	tree     *sitter.Tree

	// content is a private copy of the bytes the current tree was parsed
	// from. It feeds incremental edits and node text extraction.
	content []byte
}

// NewAdapter creates an adapter for the given canonical language name.
func NewAdapter(language string) (*Adapter, error) {
	lang, ok := GrammarFor(language)
	if !ok {
		return nil, fmt.Errorf("%s: %w", language, ErrLanguageNotSupported)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	return &Adapter{language: language, parser: parser}, nil
}

// Language returns the adapter's canonical language name.
func (a *Adapter) Language() string { return a.language }

// HasTree reports whether a successful Parse has produced a live tree.
func (a *Adapter) HasTree() bool { return a.tree != nil }

// Parse replaces the adapter's tree with a parse of content. When a previous
// tree exists, the byte-level edit between old and new content is applied to
// it first so unchanged subtrees are reused. The previous tree is released
// once the new one is live.
func (a *Adapter) Parse(ctx context.Context, content []byte) error {
	var old *sitter.Tree
	if a.tree != nil {
		a.tree.Edit(editBetween(a.content, content))
		old = a.tree
	}

	newTree, err := a.parser.ParseCtx(ctx, old, content)
	if err != nil {
		// The old tree was already edited toward the new content and no
		// longer matches a.content; drop it rather than serve stale spans.
		if old != nil {
			old.Close()
			a.tree = nil
			a.content = nil
		}
		return &ParseError{Language: a.language, Err: err}
	}

	if old != nil && old != newTree {
		old.Close()
	}
	a.tree = newTree
	a.content = append(a.content[:0], content...)
	return nil
}

// Close releases the tree and the parser. The adapter must not be used after.
func (a *Adapter) Close() {
	if a.tree != nil {
		a.tree.Close()
		a.tree = nil
	}
	if a.parser != nil {
		a.parser.Close()
		a.parser = nil
	}
	a.content = nil
}
