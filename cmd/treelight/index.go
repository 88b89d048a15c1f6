package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jward/treelight"
	"github.com/jward/treelight/internal/logging"
)

var (
	flagForce     bool
	flagLanguages string
	flagParallel  bool
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a directory's declarations into the symbol database",
	Long:  "Walks the directory (honoring .gitignore inside a repo), extracts declarations from every grammar-backed file, and writes them to the SQLite index. Unchanged files are skipped by content hash.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&flagForce, "force", false, "delete database and reindex from scratch")
	indexCmd.Flags().StringVar(&flagLanguages, "languages", "", "comma-separated language filter (e.g. go,rust)")
	indexCmd.Flags().BoolVar(&flagParallel, "parallel", false, "parse files on all cores")
}

func runIndex(cmd *cobra.Command, args []string) error {
	start := time.Now()

	targetDir, err := resolveTargetDir(args)
	if err != nil {
		return outputError("index", err)
	}

	repoRoot := findRepoRoot(targetDir)
	dbPath := resolveDBPath(repoRoot)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return outputError("index", fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err))
	}

	if flagForce {
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return outputError("index", fmt.Errorf("removing database for --force: %w", err))
		}
		fmt.Fprintf(os.Stderr, "Cleared database: %s\n", dbPath)
	}

	opts := []treelight.IndexerOption{
		treelight.WithParallelIndexing(flagParallel),
		treelight.WithIndexLogger(logging.Default()),
	}
	if flagLanguages != "" {
		var langs []treelight.Language
		for _, s := range strings.Split(flagLanguages, ",") {
			langs = append(langs, treelight.Language(strings.TrimSpace(s)))
		}
		opts = append(opts, treelight.WithIndexLanguages(langs...))
	}

	ix, err := treelight.NewIndexer(dbPath, opts...)
	if err != nil {
		return outputError("index", err)
	}
	defer ix.Close()

	if err := ix.IndexDirectory(context.Background(), targetDir); err != nil {
		return outputError("index", err)
	}

	stats, err := ix.Stats()
	if err != nil {
		return outputError("index", err)
	}

	fmt.Fprintf(os.Stderr, "Indexed %s in %s\n", targetDir, time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "Database: %s\n", dbPath)

	return outputResult(CLIResult{
		Command: "index",
		Results: CLIStats{
			Files:     stats.Files,
			Symbols:   stats.Symbols,
			Languages: stats.Languages,
		},
	})
}

// resolveTargetDir returns the absolute path of the directory to index.
func resolveTargetDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory not found: %s", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}

var flagPrefix bool

var lookupCmd = &cobra.Command{
	Use:   "lookup <name>",
	Short: "Find indexed declarations by name",
	Long:  "Queries the symbol database for declarations named exactly <name>, or starting with it when --prefix is set.",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

func init() {
	lookupCmd.Flags().BoolVar(&flagPrefix, "prefix", false, "match names by prefix instead of exactly")
}

func runLookup(cmd *cobra.Command, args []string) error {
	ix, err := openIndexer()
	if err != nil {
		return outputError("lookup", err)
	}
	defer ix.Close()

	var locs []*treelight.SymbolLocation
	if flagPrefix {
		locs, err = ix.Search(args[0])
	} else {
		locs, err = ix.Lookup(args[0])
	}
	if err != nil {
		return outputError("lookup", err)
	}

	results := locationsToCLI(locs)
	total := len(results)
	return outputResult(CLIResult{
		Command:    "lookup",
		Results:    results,
		TotalCount: &total,
	})
}

// openIndexer opens the index database, failing when it doesn't exist
// yet rather than silently creating an empty one.
func openIndexer() (*treelight.Indexer, error) {
	dbPath, err := dbPathFromCwd()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not found: %s (run 'treelight index' first)", dbPath)
	}
	return treelight.NewIndexer(dbPath)
}

func locationsToCLI(locs []*treelight.SymbolLocation) []CLILocation {
	out := make([]CLILocation, 0, len(locs))
	for _, loc := range locs {
		out = append(out, CLILocation{
			File:      loc.Path,
			Name:      loc.Name,
			Kind:      loc.Kind,
			StartLine: loc.StartLine,
			StartCol:  loc.StartCol,
		})
	}
	return out
}

// lookupInIndex resolves the identifier at cursor against the symbol
// database. Returns nil without error when no database exists.
func lookupInIndex(content []byte, cursor uint32) ([]CLILocation, error) {
	name, ok := treelight.IdentifierAt(content, cursor)
	if !ok {
		return nil, nil
	}
	dbPath, err := dbPathFromCwd()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, nil
	}

	ix, err := treelight.NewIndexer(dbPath)
	if err != nil {
		return nil, err
	}
	defer ix.Close()

	locs, err := ix.Lookup(name)
	if err != nil {
		return nil, err
	}
	return locationsToCLI(locs), nil
}
