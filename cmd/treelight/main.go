package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jward/treelight/internal/logging"
)

var (
	flagDB       string
	flagFormat   string
	flagColor    string
	flagLexicons string
	flagVerbose  bool
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "treelight",
	Short:         "Incremental syntax intelligence for editors",
	Long:          "Treelight parses source files with tree-sitter, producing syntax highlights, fold regions, selection ranges, document symbols, and a SQLite symbol index for cross-file lookups. Files without a grammar fall back to a lexical tokenizer.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagVerbose {
			logging.SetLevel("debug")
		}
		return validateFormat(flagFormat)
	},
	// No Run: prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default: .treelight/index.db relative to repo root)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto", "color mode for rendered output: auto|always|never")
	rootCmd.PersistentFlags().StringVar(&flagLexicons, "lexicons", "", "extra fallback lexicon file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging to stderr")

	rootCmd.AddCommand(highlightCmd)
	rootCmd.AddCommand(foldsCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(defCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(serveCmd)
}

// findRepoRoot walks up from startDir looking for a .git directory.
// Returns the directory containing .git, or startDir if not found.
func findRepoRoot(startDir string) string {
	dir := startDir
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return startDir
		}
		dir = parent
	}
}

// resolveDBPath returns the database path from the --db flag or the default.
func resolveDBPath(repoRoot string) string {
	if flagDB != "" {
		if filepath.IsAbs(flagDB) {
			return flagDB
		}
		return filepath.Join(repoRoot, flagDB)
	}
	return filepath.Join(repoRoot, ".treelight", "index.db")
}

// dbPathFromCwd resolves the database path relative to the current repo.
func dbPathFromCwd() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}
	return resolveDBPath(findRepoRoot(cwd)), nil
}
