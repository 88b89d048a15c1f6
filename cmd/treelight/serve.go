package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/jward/treelight/internal/index"
	"github.com/jward/treelight/internal/lsp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a language server over stdio",
	Long:  "Speaks the Language Server Protocol on stdin/stdout: folding ranges, selection ranges, document symbols, semantic highlighting, diagnostics, and go-to-definition. When a symbol database exists it also answers cross-file definition requests.",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// stdout carries the protocol stream, so logs go to stderr only.
	verbosity := 1
	if flagVerbose {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	var opts []lsp.Option
	if dbPath, err := dbPathFromCwd(); err == nil {
		if _, statErr := os.Stat(dbPath); statErr == nil {
			store, err := index.NewStore(dbPath)
			if err != nil {
				return outputError("serve", fmt.Errorf("opening index: %w", err))
			}
			defer store.Close()
			opts = append(opts, lsp.WithStore(store))
			fmt.Fprintf(os.Stderr, "Using symbol database: %s\n", dbPath)
		}
	}

	srv, err := lsp.NewServer(opts...)
	if err != nil {
		return outputError("serve", err)
	}
	return srv.RunStdio()
}
