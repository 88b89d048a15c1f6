// Package treelight provides incremental syntax intelligence for editors
// built on tree-sitter: highlighting, fold regions, structured selection,
// document symbols, diagnostics, and go-to-definition for 18 languages,
// with a lexical fallback for everything else.
//
// # Engine
//
// An [Engine] is bound to one file. Language is detected from the
// filename at construction; content arrives with each query, so the
// caller's editor buffer stays the source of truth:
//
//	eng, err := treelight.New("main.go")
//	if err != nil { ... }
//	defer eng.Close()
//
//	ctx := context.Background()
//	spans := eng.Highlight(ctx, content)
//	folds := eng.FoldRegions(ctx, content)
//	chain := eng.SelectionRanges(ctx, content, cursor)
//	def := eng.Definition(ctx, content, cursor)
//
// Queries never fail: when the grammar backend errors, the engine logs
// the failure and answers from the lexical tokenizer instead, so an
// editor never loses highlighting mid-session.
//
// # Query API
//
// The Engine provides these operations:
//
//   - [Engine.Highlight]: classified, non-overlapping byte spans.
//   - [Engine.FoldRegions]: collapsible line ranges with nesting levels.
//   - [Engine.SelectionRanges]: enclosing syntactic ranges around a
//     cursor, smallest to largest.
//   - [Engine.ExpandSelection] and [Engine.ShrinkSelection]: step along
//     that chain from a current selection.
//   - [Engine.Definition]: nearest preceding declaration of the
//     identifier under the cursor.
//   - [Engine.DocumentSymbols]: the file's declarations in order, with
//     nesting depth.
//   - [Engine.Diagnostics]: syntax error locations from the parse tree.
//
// # Caching
//
// Each engine keeps a single-slot cache keyed by a hash of the content:
// repeated queries over an unchanged buffer reuse the parsed tree and
// computed highlights. Any content change invalidates the slot; there is
// no cross-file or cross-engine sharing. Reparses after a change are
// incremental: the engine diffs old and new content and reuses unchanged
// subtrees from the previous parse.
//
// # Cross-file index
//
// An [Indexer] walks a directory, extracts declarations from every file
// with a grammar, and persists them to SQLite. [Indexer.Lookup] and
// [Indexer.Search] answer name queries across the indexed tree, which
// backs the CLI's lookup command and the language server's cross-file
// definition fallback. Unchanged files are skipped by content hash, so
// re-indexing a large tree after a small change is cheap.
package treelight
