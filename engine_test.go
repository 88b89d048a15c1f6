package treelight

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/treelight/internal/grammar"
	"github.com/jward/treelight/internal/lexical"
	"github.com/jward/treelight/internal/logging"
)

func newGoEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New("main.go")
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

// countingAdapter records Parse calls and serves canned results, standing in
// for a real tree adapter.
type countingAdapter struct {
	parseCalls int
	parseErr   error
	hasTree    bool
	captures   []grammar.Capture
}

func (c *countingAdapter) Parse(_ context.Context, _ []byte) error {
	c.parseCalls++
	if c.parseErr != nil {
		return c.parseErr
	}
	c.hasTree = true
	return nil
}

func (c *countingAdapter) HasTree() bool                                   { return c.hasTree }
func (c *countingAdapter) Captures() []grammar.Capture                     { return c.captures }
func (c *countingAdapter) FoldSpans() []grammar.FoldSpan                   { return nil }
func (c *countingAdapter) SelectionSpansAt(uint32) []grammar.SelectionSpan { return nil }
func (c *countingAdapter) Declarations() []grammar.Declaration             { return nil }
func (c *countingAdapter) ErrorSpans() []grammar.ErrorSpan                 { return nil }
func (c *countingAdapter) Close()                                          {}

func engineWithAdapter(a treeAdapter, lang Language) *Engine {
	return &Engine{
		filename: "buffer",
		language: lang,
		back:     grammarBacked{adapter: a},
		lexicons: lexical.Builtin(),
		lexicon:  lexical.Builtin().For(string(lang)),
		logger:   logging.Nop(),
	}
}

func TestNew_GrammarBacked(t *testing.T) {
	e, err := New("main.go")
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, LangGo, e.Language())
	assert.True(t, e.HasGrammar())
}

func TestNew_LexicalFallbackForUnbackedLanguage(t *testing.T) {
	e, err := New("main.zig")
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, LangZig, e.Language())
	assert.False(t, e.HasGrammar())
}

func TestNew_WithLanguageOverride(t *testing.T) {
	e, err := New("strange.txt", WithLanguage(LangPython))
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, LangPython, e.Language())
	assert.True(t, e.HasGrammar())
}

func TestNew_BadLexiconPath(t *testing.T) {
	_, err := New("main.go", WithLexiconPath("/nonexistent/lexicons.yaml"))
	require.Error(t, err)
}

func TestHighlight_CacheHitSkipsParser(t *testing.T) {
	fake := &countingAdapter{
		captures: []grammar.Capture{{StartByte: 0, EndByte: 4, Kind: "keyword"}},
	}
	e := engineWithAdapter(fake, LangGo)
	defer e.Close()

	ctx := context.Background()
	content := []byte("func")
	first := e.Highlight(ctx, content)
	second := e.Highlight(ctx, content)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fake.parseCalls, "second call on unchanged content must not reparse")
}

func TestHighlight_CacheInvalidatedOnChange(t *testing.T) {
	fake := &countingAdapter{}
	e := engineWithAdapter(fake, LangGo)
	defer e.Close()

	ctx := context.Background()
	e.Highlight(ctx, []byte("package a\n"))
	e.Highlight(ctx, []byte("package b\n"))
	assert.Equal(t, 2, fake.parseCalls)
}

func TestHighlight_ReturnedSliceIsACopy(t *testing.T) {
	fake := &countingAdapter{
		captures: []grammar.Capture{{StartByte: 0, EndByte: 4, Kind: "keyword"}},
	}
	e := engineWithAdapter(fake, LangGo)
	defer e.Close()

	ctx := context.Background()
	content := []byte("func")
	first := e.Highlight(ctx, content)
	require.Len(t, first, 1)
	first[0].Kind = KindError

	again := e.Highlight(ctx, content)
	assert.Equal(t, KindKeyword, again[0].Kind)
}

func TestHighlight_GoSource(t *testing.T) {
	e := newGoEngine(t)
	content := []byte("package main\n\nfunc greet() {\n\tprintln(\"hi\")\n}\n")

	highlights := e.Highlight(context.Background(), content)
	require.NotEmpty(t, highlights)

	byText := map[string]HighlightKind{}
	for _, h := range highlights {
		byText[string(content[h.StartByte:h.EndByte])] = h.Kind
	}
	assert.Equal(t, KindKeyword, byText["package"])
	assert.Equal(t, KindKeyword, byText["func"])
	assert.Equal(t, KindFunctionName, byText["greet"])
	assert.Equal(t, KindStringLiteral, byText[`"hi"`])
}

func TestHighlight_LexicalMode(t *testing.T) {
	e, err := New("main.zig")
	require.NoError(t, err)
	defer e.Close()

	content := []byte("const x = 42;")
	highlights := e.Highlight(context.Background(), content)

	require.NotEmpty(t, highlights)
	assert.Equal(t, Highlight{StartByte: 0, EndByte: 5, Kind: KindKeyword}, highlights[0])

	var number *Highlight
	for i := range highlights {
		if highlights[i].Kind == KindNumberLiteral {
			number = &highlights[i]
		}
	}
	require.NotNil(t, number)
	assert.Equal(t, uint32(10), number.StartByte)
	assert.Equal(t, uint32(12), number.EndByte)
}

func TestHighlight_ParseFailureDegradesToLexical(t *testing.T) {
	fake := &countingAdapter{parseErr: errors.New("backend failure")}
	e := engineWithAdapter(fake, LangGo)
	defer e.Close()

	ctx := context.Background()
	content := []byte("func run() {}")
	highlights := e.Highlight(ctx, content)

	require.NotEmpty(t, highlights)
	assert.Equal(t, Highlight{StartByte: 0, EndByte: 4, Kind: KindKeyword}, highlights[0])

	// The degraded result is cached like any other.
	e.Highlight(ctx, content)
	assert.Equal(t, 1, fake.parseCalls)
}

func TestHighlight_EmptyBuffer(t *testing.T) {
	e := newGoEngine(t)
	assert.Empty(t, e.Highlight(context.Background(), nil))

	lex, err := New("notes.zig")
	require.NoError(t, err)
	defer lex.Close()
	assert.Empty(t, lex.Highlight(context.Background(), nil))
}

func TestFoldRegions_BraceFallback(t *testing.T) {
	e, err := New("main.zig")
	require.NoError(t, err)
	defer e.Close()

	content := []byte("fn main() {\n    if (true) {\n        x();\n    }\n}")
	regions := e.FoldRegions(context.Background(), content)

	require.Len(t, regions, 2)
	assert.Equal(t, FoldRegion{StartLine: 0, EndLine: 4, Level: 0}, regions[0])
	assert.Equal(t, FoldRegion{StartLine: 1, EndLine: 3, Level: 1}, regions[1])
}

func TestFoldRegions_Tree(t *testing.T) {
	e := newGoEngine(t)
	content := []byte("package main\n\nfunc run() {\n\tif true {\n\t\tprintln(1)\n\t}\n}\n")

	regions := e.FoldRegions(context.Background(), content)
	require.Len(t, regions, 2)
	for _, r := range regions {
		assert.Greater(t, r.EndLine, r.StartLine)
		assert.False(t, r.Folded)
	}
}

func TestFoldRegions_UnbalancedBracesDoNotPanic(t *testing.T) {
	e, err := New("main.zig")
	require.NoError(t, err)
	defer e.Close()

	assert.Empty(t, e.FoldRegions(context.Background(), []byte("}}}}")))
	assert.Empty(t, e.FoldRegions(context.Background(), []byte("{{{{")))
}

func TestSelectionRanges_Chain(t *testing.T) {
	e := newGoEngine(t)
	content := []byte("package main\n\nfunc main() {\n\tcount := 42\n}\n")

	ranges := e.SelectionRanges(context.Background(), content, 29)
	require.NotEmpty(t, ranges)

	assert.Equal(t, SelectionToken, ranges[0].Kind)
	assert.Equal(t, "count", string(content[ranges[0].StartByte:ranges[0].EndByte]))
	assert.Equal(t, SelectionFile, ranges[len(ranges)-1].Kind)

	for i := 1; i < len(ranges); i++ {
		prev, cur := ranges[i-1], ranges[i]
		assert.LessOrEqual(t, cur.StartByte, prev.StartByte)
		assert.GreaterOrEqual(t, cur.EndByte, prev.EndByte)
	}
}

func TestSelectionRanges_EmptyBuffer(t *testing.T) {
	e := newGoEngine(t)
	assert.Empty(t, e.SelectionRanges(context.Background(), nil, 0))
}

func TestSelectionRanges_LexicalMode(t *testing.T) {
	e, err := New("main.zig")
	require.NoError(t, err)
	defer e.Close()

	assert.Empty(t, e.SelectionRanges(context.Background(), []byte("const x = 1;"), 6))
}

func TestExpandSelection_FromToken(t *testing.T) {
	e := newGoEngine(t)
	content := []byte("package main\n\nfunc main() {\n\tcount := 42\n}\n")

	// Selection on the identifier "count".
	expanded := e.ExpandSelection(context.Background(), content, 29, 34)
	require.NotNil(t, expanded)
	assert.Equal(t, SelectionStatement, expanded.Kind)
	assert.Equal(t, "count := 42", string(content[expanded.StartByte:expanded.EndByte]))
}

func TestExpandSelection_AtFileLevel(t *testing.T) {
	e := newGoEngine(t)
	content := []byte("package main\n")

	ranges := e.SelectionRanges(context.Background(), content, 0)
	require.NotEmpty(t, ranges)
	file := ranges[len(ranges)-1]

	assert.Nil(t, e.ExpandSelection(context.Background(), content, file.StartByte, file.EndByte))
}

func TestShrinkSelection_ReversesExpand(t *testing.T) {
	e := newGoEngine(t)
	content := []byte("package main\n\nfunc main() {\n\tcount := 42\n}\n")
	ctx := context.Background()

	expanded := e.ExpandSelection(ctx, content, 29, 34)
	require.NotNil(t, expanded)

	shrunk := e.ShrinkSelection(ctx, content, expanded.StartByte, expanded.EndByte)
	require.NotNil(t, shrunk)
	assert.Equal(t, uint32(29), shrunk.StartByte)
	assert.Equal(t, uint32(34), shrunk.EndByte)
}

func TestShrinkSelection_AtToken(t *testing.T) {
	e := newGoEngine(t)
	content := []byte("package main\n\nfunc main() {\n\tcount := 42\n}\n")

	assert.Nil(t, e.ShrinkSelection(context.Background(), content, 29, 34))
}

func TestDefinition_FindsDeclarationNotCallSite(t *testing.T) {
	e := newGoEngine(t)
	content := []byte("package main\n\nfunc helper(x int) int {\n\treturn x * 2\n}\n\nfunc main() {\n\tr := helper(10)\n}\n")

	// Cursor on "helper" at the call site, line 7.
	require.Equal(t, byte('h'), content[76])
	def := e.Definition(context.Background(), content, 76)

	require.NotNil(t, def)
	assert.Equal(t, uint32(2), def.StartLine)
	assert.Equal(t, "function", def.Kind)
	assert.Equal(t, "helper", string(content[def.StartByte:def.EndByte]))
}

func TestDefinition_NearestPrecedingWinsOnShadowing(t *testing.T) {
	e := newGoEngine(t)
	content := []byte("package main\n\nvar v = 1\n\nfunc f() {\n\tv := 2\n\tprintln(v)\n}\n")

	// Cursor on the "v" argument of println, line 6. Both the package-level
	// v (line 2) and the local v (line 5) match; the nearest preceding
	// declaration wins. The heuristic works on byte offsets, not scopes,
	// so this is the local one here.
	cursor := uint32(len(content) - 5)
	require.Equal(t, byte('v'), content[cursor])

	def := e.Definition(context.Background(), content, cursor)
	require.NotNil(t, def)
	assert.Equal(t, uint32(5), def.StartLine)
}

func TestDefinition_UseBeforeAnyDeclaration(t *testing.T) {
	e := newGoEngine(t)
	content := []byte("package main\n\nvar v = 1\n\nvar w = 2\n")

	// Cursor exactly at the start of the first "v" declaration: nothing
	// precedes it, so the first declaration in document order is returned.
	var cursor uint32 = 18
	require.Equal(t, byte('v'), content[cursor])

	def := e.Definition(context.Background(), content, cursor)
	require.NotNil(t, def)
	assert.Equal(t, uint32(2), def.StartLine)
}

func TestDefinition_NoIdentifierAtCursor(t *testing.T) {
	e := newGoEngine(t)
	content := []byte("package main\n\nfunc f() {}\n")

	// Cursor on the blank line.
	assert.Nil(t, e.Definition(context.Background(), content, 13))
}

func TestDefinition_UnknownName(t *testing.T) {
	e := newGoEngine(t)
	content := []byte("package main\n\nfunc f() {\n\tundeclared()\n}\n")

	cursor := uint32(26)
	require.Equal(t, byte('u'), content[cursor])
	assert.Nil(t, e.Definition(context.Background(), content, cursor))
}

func TestDefinition_LexicalMode(t *testing.T) {
	e, err := New("main.zig")
	require.NoError(t, err)
	defer e.Close()

	assert.Nil(t, e.Definition(context.Background(), []byte("const x = 1;"), 6))
}

func TestDocumentSymbols_Nesting(t *testing.T) {
	e := newGoEngine(t)
	content := []byte("package main\n\ntype point struct {\n\tx int\n}\n\nfunc origin() point {\n\tvar p point\n\treturn p\n}\n")

	symbols := e.DocumentSymbols(context.Background(), content)
	require.Len(t, symbols, 4)

	assert.Equal(t, "point", symbols[0].Name)
	assert.Equal(t, 0, symbols[0].Depth)
	assert.Equal(t, "x", symbols[1].Name)
	assert.Equal(t, 1, symbols[1].Depth)
	assert.Equal(t, "origin", symbols[2].Name)
	assert.Equal(t, "function", symbols[2].Kind)
}

func TestDiagnostics_CleanAndBroken(t *testing.T) {
	e := newGoEngine(t)
	ctx := context.Background()

	assert.Empty(t, e.Diagnostics(ctx, []byte("package main\n\nfunc main() {}\n")))

	diags := e.Diagnostics(ctx, []byte("package main\n\nfunc main() {\n\tx :=\n}\n"))
	require.NotEmpty(t, diags)
	assert.NotEmpty(t, diags[0].Message)
}

func TestIdentifierAt(t *testing.T) {
	tests := []struct {
		name    string
		content string
		cursor  uint32
		want    string
		ok      bool
	}{
		{"middle", "foo bar baz", 5, "bar", true},
		{"start", "foo bar", 4, "bar", true},
		{"just past end", "foo bar", 7, "bar", true},
		{"on space", "foo bar", 3, "foo", true},
		{"whitespace gap", "a  b", 2, "", false},
		{"empty", "", 0, "", false},
		{"beyond end", "abc", 10, "abc", true},
		{"underscore and digits", "x_1 = 2", 1, "x_1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IdentifierAt([]byte(tt.content), tt.cursor)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
