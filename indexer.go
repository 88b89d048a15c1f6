package treelight

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jward/treelight/internal/grammar"
	"github.com/jward/treelight/internal/index"
	"github.com/jward/treelight/internal/logging"
)

// Indexer walks source trees, extracts declarations from every
// grammar-backed file, and persists them to a SQLite symbol index.
// Files whose content hash is unchanged since the last run are skipped.
type Indexer struct {
	store     *index.Store
	logger    *log.Logger
	languages map[Language]bool
	parallel  bool
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithIndexLanguages restricts indexing to the given languages.
// Default is every language with a grammar.
func WithIndexLanguages(langs ...Language) IndexerOption {
	return func(ix *Indexer) {
		ix.languages = make(map[Language]bool, len(langs))
		for _, l := range langs {
			ix.languages[l] = true
		}
	}
}

// WithParallelIndexing toggles the parallel extraction pipeline.
func WithParallelIndexing(enabled bool) IndexerOption {
	return func(ix *Indexer) {
		ix.parallel = enabled
	}
}

// WithIndexLogger sets the logger used for per-file progress.
func WithIndexLogger(logger *log.Logger) IndexerOption {
	return func(ix *Indexer) {
		ix.logger = logger
	}
}

// NewIndexer opens (or creates) the index database at dbPath and runs
// migrations.
func NewIndexer(dbPath string, opts ...IndexerOption) (*Indexer, error) {
	s, err := index.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("treelight: open index: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("treelight: migrate index: %w", err)
	}
	ix := &Indexer{store: s, logger: logging.Nop()}
	for _, opt := range opts {
		opt(ix)
	}
	return ix, nil
}

// Close closes the underlying database.
func (ix *Indexer) Close() error {
	return ix.store.Close()
}

// Store exposes the underlying index store.
func (ix *Indexer) Store() *index.Store {
	return ix.store
}

// Stats summarizes the current index contents.
func (ix *Indexer) Stats() (*index.Stats, error) {
	return ix.store.IndexStats()
}

// Lookup returns every indexed declaration named exactly name.
func (ix *Indexer) Lookup(name string) ([]*SymbolLocation, error) {
	return ix.store.LookupSymbol(name)
}

// Search returns every indexed declaration whose name starts with prefix.
func (ix *Indexer) Search(prefix string) ([]*SymbolLocation, error) {
	return ix.store.SearchSymbols(prefix)
}

// IndexFiles indexes the given paths, dispatching to the parallel
// pipeline when enabled.
func (ix *Indexer) IndexFiles(ctx context.Context, paths []string) error {
	if ix.parallel {
		return ix.indexFilesParallel(ctx, paths)
	}
	return ix.indexFilesSerial(ctx, paths)
}

func (ix *Indexer) indexFilesSerial(ctx context.Context, paths []string) error {
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := ix.indexFile(ctx, path); err != nil {
			return fmt.Errorf("treelight: index %s: %w", path, err)
		}
	}
	return nil
}

// indexFile indexes a single file:
//
//  1. Detect the language; skip files without a grammar.
//  2. Read content and hash it; skip if the stored hash matches.
//  3. Delete the previous rows for the path.
//  4. Insert the new file record.
//  5. Parse and extract declarations.
//  6. Write the symbol set in one transaction.
//
// A file that fails to parse still gets its file row, with no symbols,
// so re-runs do not retry it until the content changes.
func (ix *Indexer) indexFile(ctx context.Context, path string) error {
	lang := DetectLanguage(path)
	if !ix.wantsLanguage(lang) {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	hash := hashHex(content)

	existing, err := ix.store.FileByPath(path)
	if err != nil {
		return fmt.Errorf("lookup file: %w", err)
	}
	if existing != nil && existing.Hash == hash {
		ix.logger.Debug("unchanged", "path", path)
		return nil
	}
	if existing != nil {
		if err := ix.store.DeleteFileData(existing.ID); err != nil {
			return fmt.Errorf("delete old data: %w", err)
		}
	}

	fileID, err := ix.store.InsertFile(&index.File{
		Path:        path,
		Language:    string(lang),
		Hash:        hash,
		LineCount:   countLines(content),
		LastIndexed: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}

	syms, err := extractSymbols(ctx, lang, content)
	if err != nil {
		ix.logger.Warn("extraction failed", "path", path, "err", err)
		return nil
	}
	if err := ix.store.ReplaceSymbols(fileID, syms); err != nil {
		return fmt.Errorf("write symbols: %w", err)
	}
	ix.logger.Debug("indexed", "path", path, "symbols", len(syms))
	return nil
}

// wantsLanguage reports whether the indexer should process a file of
// the given language.
func (ix *Indexer) wantsLanguage(lang Language) bool {
	if lang == LangUnknown || !grammar.Supported(string(lang)) {
		return false
	}
	return ix.languages == nil || ix.languages[lang]
}

// extractSymbols parses content and converts its declarations to index
// rows. The name position is kept for jump targets; the byte span
// covers the whole declaration so rows sort in declaration order.
func extractSymbols(ctx context.Context, lang Language, content []byte) ([]*index.Symbol, error) {
	adapter, err := grammar.NewAdapter(string(lang))
	if err != nil {
		return nil, err
	}
	defer adapter.Close()

	if err := adapter.Parse(ctx, content); err != nil {
		return nil, err
	}

	decls := adapter.Declarations()
	syms := make([]*index.Symbol, 0, len(decls))
	for _, d := range decls {
		syms = append(syms, &index.Symbol{
			Name:      d.Name,
			Kind:      d.Kind,
			Depth:     d.Depth,
			StartLine: int(d.StartLine),
			StartCol:  int(d.StartCol),
			EndLine:   int(d.SpanEndLine),
			StartByte: int64(d.SpanStart),
			EndByte:   int64(d.SpanEnd),
		})
	}
	return syms, nil
}

func hashHex(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}

func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := bytes.Count(content, []byte("\n"))
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}

// skipDirs are directory names never descended into when walking.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	"target":       true,
}

// IndexDirectory indexes every supported file under root. File listing
// prefers git (which honors .gitignore); outside a repo it falls back
// to a filesystem walk. Rows for files that no longer exist are pruned.
func (ix *Indexer) IndexDirectory(ctx context.Context, root string) error {
	paths, err := gitListFiles(root)
	if err != nil {
		ix.logger.Debug("git listing failed, walking", "root", root, "err", err)
		paths, err = walkListFiles(root)
		if err != nil {
			return fmt.Errorf("treelight: list %s: %w", root, err)
		}
	}

	if err := ix.IndexFiles(ctx, paths); err != nil {
		return err
	}

	keep := make(map[string]bool, len(paths))
	for _, p := range paths {
		keep[p] = true
	}
	removed, err := ix.store.DeleteMissing(keep)
	if err != nil {
		return fmt.Errorf("treelight: prune index: %w", err)
	}
	if removed > 0 {
		ix.logger.Info("pruned deleted files", "count", removed)
	}
	return nil
}

// gitListFiles lists tracked and untracked-but-not-ignored files.
func gitListFiles(root string) ([]string, error) {
	cmd := exec.Command("git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	var paths []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		full := filepath.Join(root, line)
		if info, err := os.Stat(full); err != nil || info.IsDir() {
			continue
		}
		paths = append(paths, full)
	}
	return paths, nil
}

// walkListFiles walks root, skipping hidden directories and the usual
// dependency dirs.
func walkListFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
