package treelight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndexer(t *testing.T, opts ...IndexerOption) *Indexer {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "index.db")
	ix, err := NewIndexer(dbPath, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })
	return ix
}

// writeSourceFile writes src to dir/name and returns the full path.
func writeSourceFile(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

const libSrc = `package main

type Point struct {
	X int
}

func Helper() int {
	return 1
}
`

func TestIndexer_IndexFilesExtractsSymbols(t *testing.T) {
	ix := newTestIndexer(t)
	ctx := context.Background()
	dir := t.TempDir()

	path := writeSourceFile(t, dir, "lib.go", libSrc)
	require.NoError(t, ix.IndexFiles(ctx, []string{path}))

	locs, err := ix.Lookup("Helper")
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, path, locs[0].Path)
	assert.Equal(t, "function", locs[0].Kind)
	assert.Equal(t, 6, locs[0].StartLine)
	assert.Equal(t, 5, locs[0].StartCol)

	f, err := ix.Store().FileByPath(path)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "go", f.Language)
	assert.Equal(t, 9, f.LineCount)

	syms, err := ix.Store().SymbolsByFile(f.ID)
	require.NoError(t, err)
	require.Len(t, syms, 3)
	assert.Equal(t, "Point", syms[0].Name)
	assert.Equal(t, "X", syms[1].Name)
	assert.Equal(t, 1, syms[1].Depth)
	assert.Equal(t, "Helper", syms[2].Name)
}

func TestIndexer_SkipsUnchangedFiles(t *testing.T) {
	ix := newTestIndexer(t)
	ctx := context.Background()
	dir := t.TempDir()

	path := writeSourceFile(t, dir, "lib.go", libSrc)
	require.NoError(t, ix.IndexFiles(ctx, []string{path}))

	before, err := ix.Store().FileByPath(path)
	require.NoError(t, err)
	require.NotNil(t, before)

	// Second run must not delete and re-insert the row.
	require.NoError(t, ix.IndexFiles(ctx, []string{path}))
	after, err := ix.Store().FileByPath(path)
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.Equal(t, before.ID, after.ID)
}

func TestIndexer_ReindexOnChange(t *testing.T) {
	ix := newTestIndexer(t)
	ctx := context.Background()
	dir := t.TempDir()

	path := writeSourceFile(t, dir, "lib.go", libSrc)
	require.NoError(t, ix.IndexFiles(ctx, []string{path}))

	writeSourceFile(t, dir, "lib.go", "package main\n\nfunc Renamed() int {\n\treturn 2\n}\n")
	require.NoError(t, ix.IndexFiles(ctx, []string{path}))

	gone, err := ix.Lookup("Helper")
	require.NoError(t, err)
	assert.Empty(t, gone)

	locs, err := ix.Lookup("Renamed")
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, 2, locs[0].StartLine)
}

func TestIndexer_ParallelMatchesSerial(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	var paths []string
	names := []string{"alpha", "bravo", "charlie", "delta"}
	for _, name := range names {
		src := "package main\n\nfunc " + name + "() {}\n"
		paths = append(paths, writeSourceFile(t, dir, name+".go", src))
	}

	serial := newTestIndexer(t)
	require.NoError(t, serial.IndexFiles(ctx, paths))

	parallel := newTestIndexer(t, WithParallelIndexing(true))
	require.NoError(t, parallel.IndexFiles(ctx, paths))

	for _, name := range names {
		sLocs, err := serial.Lookup(name)
		require.NoError(t, err)
		pLocs, err := parallel.Lookup(name)
		require.NoError(t, err)
		require.Len(t, sLocs, 1)
		require.Len(t, pLocs, 1)
		assert.Equal(t, sLocs[0], pLocs[0])
	}

	sStats, err := serial.Stats()
	require.NoError(t, err)
	pStats, err := parallel.Stats()
	require.NoError(t, err)
	assert.Equal(t, sStats.Files, pStats.Files)
	assert.Equal(t, sStats.Symbols, pStats.Symbols)
}

func TestIndexer_IndexDirectorySkipsDependencyDirs(t *testing.T) {
	ix := newTestIndexer(t)
	ctx := context.Background()
	dir := t.TempDir()

	writeSourceFile(t, dir, "main.go", "package main\n\nfunc main() {}\n")
	writeSourceFile(t, dir, filepath.Join("node_modules", "dep.js"), "function dep() {}\n")
	writeSourceFile(t, dir, filepath.Join(".cache", "tmp.go"), "package cache\n\nfunc cached() {}\n")
	writeSourceFile(t, dir, "README.md", "# readme\n")

	require.NoError(t, ix.IndexDirectory(ctx, dir))

	stats, err := ix.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Files)

	locs, err := ix.Lookup("main")
	require.NoError(t, err)
	assert.Len(t, locs, 1)

	dep, err := ix.Lookup("dep")
	require.NoError(t, err)
	assert.Empty(t, dep)
}

func TestIndexer_IndexDirectoryPrunesDeleted(t *testing.T) {
	ix := newTestIndexer(t)
	ctx := context.Background()
	dir := t.TempDir()

	writeSourceFile(t, dir, "a.go", "package main\n\nfunc keepMe() {}\n")
	gone := writeSourceFile(t, dir, "b.go", "package main\n\nfunc loseMe() {}\n")

	require.NoError(t, ix.IndexDirectory(ctx, dir))
	stats, err := ix.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Files)

	require.NoError(t, os.Remove(gone))
	require.NoError(t, ix.IndexDirectory(ctx, dir))

	stats, err = ix.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Files)

	locs, err := ix.Lookup("loseMe")
	require.NoError(t, err)
	assert.Empty(t, locs)
}

func TestIndexer_LanguageFilter(t *testing.T) {
	ix := newTestIndexer(t, WithIndexLanguages(LangGo))
	ctx := context.Background()
	dir := t.TempDir()

	goPath := writeSourceFile(t, dir, "main.go", "package main\n\nfunc onlyGo() {}\n")
	rsPath := writeSourceFile(t, dir, "lib.rs", "fn only_rust() {}\n")

	require.NoError(t, ix.IndexFiles(ctx, []string{goPath, rsPath}))

	locs, err := ix.Lookup("onlyGo")
	require.NoError(t, err)
	assert.Len(t, locs, 1)

	locs, err = ix.Lookup("only_rust")
	require.NoError(t, err)
	assert.Empty(t, locs)
}

func TestIndexer_SearchByPrefix(t *testing.T) {
	ix := newTestIndexer(t)
	ctx := context.Background()
	dir := t.TempDir()

	src := "package main\n\nfunc parseHeader() {}\n\nfunc parseBody() {}\n\nfunc render() {}\n"
	path := writeSourceFile(t, dir, "parse.go", src)
	require.NoError(t, ix.IndexFiles(ctx, []string{path}))

	locs, err := ix.Search("parse")
	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.Equal(t, "parseHeader", locs[0].Name)
	assert.Equal(t, "parseBody", locs[1].Name)
}

func TestIndexer_MalformedFileKeepsRow(t *testing.T) {
	ix := newTestIndexer(t)
	ctx := context.Background()
	dir := t.TempDir()

	path := writeSourceFile(t, dir, "broken.go", "func (((\n")
	require.NoError(t, ix.IndexFiles(ctx, []string{path}))

	f, err := ix.Store().FileByPath(path)
	require.NoError(t, err)
	require.NotNil(t, f)
}

func TestCountLines(t *testing.T) {
	t.Parallel()
	tests := []struct {
		content string
		want    int
	}{
		{"", 0},
		{"one line", 1},
		{"a\nb\n", 2},
		{"a\nb", 2},
		{"\n", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, countLines([]byte(tt.content)), "content %q", tt.content)
	}
}
