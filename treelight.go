// Package treelight provides incremental syntax intelligence for editors
// built on tree-sitter. It turns file content into highlights, fold
// regions, selection chains, and definitions, degrading to a lexical
// tokenizer when no grammar exists.
package treelight
