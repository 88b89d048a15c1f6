package grammar

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Capture is one classified span of source text. Captures from a single pass
// never overlap: atomic containers and error nodes are emitted whole, and
// everything else is emitted at the leaves.
type Capture struct {
	StartByte uint32
	EndByte   uint32
	Kind      string
}

// FoldSpan is a collapsible line range. EndLine is always strictly greater
// than StartLine.
type FoldSpan struct {
	StartLine uint32
	EndLine   uint32
	Level     int
}

// SelectionSpan is one link of the enclosing-node chain around a cursor.
type SelectionSpan struct {
	StartByte uint32
	EndByte   uint32
	StartLine uint32
	StartCol  uint32
	EndLine   uint32
	EndCol    uint32
	Kind      string
}

// Declaration is a definition site. The byte and point fields locate the
// declared name; the Span fields cover the whole declaring node. Depth counts
// enclosing declarations, so methods sit one level under their type.
type Declaration struct {
	Name          string
	Kind          string
	StartByte     uint32
	EndByte       uint32
	StartLine     uint32
	StartCol      uint32
	SpanStart     uint32
	SpanEnd       uint32
	SpanStartLine uint32
	SpanEndLine   uint32
	Depth         int
}

// ErrorSpan locates a syntax error. Missing spans are zero-width and name
// the token the parser expected; error spans cover the unparseable bytes.
type ErrorSpan struct {
	Kind      string
	StartByte uint32
	EndByte   uint32
	StartLine uint32
	StartCol  uint32
	EndLine   uint32
	EndCol    uint32
	Missing   bool
}

// Captures classifies the current tree into highlight spans. The result is
// in document order and siblings never overlap.
func (a *Adapter) Captures() []Capture {
	if a.tree == nil {
		return nil
	}
	var out []Capture
	var walk func(n *sitter.Node, parent string)
	walk = func(n *sitter.Node, parent string) {
		kind := n.Type()
		if n.IsError() {
			if n.EndByte() > n.StartByte() {
				out = append(out, Capture{StartByte: n.StartByte(), EndByte: n.EndByte(), Kind: "error"})
			}
			return
		}
		if n.IsNamed() {
			if k := atomicKind(kind); k != "" {
				if n.EndByte() > n.StartByte() {
					out = append(out, Capture{StartByte: n.StartByte(), EndByte: n.EndByte(), Kind: k})
				}
				return
			}
		}
		count := int(n.ChildCount())
		if count == 0 {
			if n.EndByte() <= n.StartByte() {
				return
			}
			k := classifyToken(a.language, kind, n.IsNamed(), parent, n.Content(a.content))
			if k != "" {
				out = append(out, Capture{StartByte: n.StartByte(), EndByte: n.EndByte(), Kind: k})
			}
			return
		}
		for i := 0; i < count; i++ {
			walk(n.Child(i), kind)
		}
	}
	walk(a.tree.RootNode(), "")
	return out
}

// FoldSpans walks the tree and emits a span for every multi-line node whose
// construct is block-like. Level is the node's depth below the root, and the
// first node claiming a line pair wins, so a function and its body do not
// both fold.
func (a *Adapter) FoldSpans() []FoldSpan {
	if a.tree == nil {
		return nil
	}
	type linePair struct{ start, end uint32 }
	seen := make(map[linePair]bool)
	var out []FoldSpan
	var walk func(n *sitter.Node, depth int)
	walk = func(n *sitter.Node, depth int) {
		if constructOf(a.language, n.Type()).foldable() {
			start, end := n.StartPoint().Row, n.EndPoint().Row
			if end > start && !seen[linePair{start, end}] {
				seen[linePair{start, end}] = true
				out = append(out, FoldSpan{StartLine: start, EndLine: end, Level: depth})
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i), depth+1)
		}
	}
	root := a.tree.RootNode()
	for i := 0; i < int(root.ChildCount()); i++ {
		walk(root.Child(i), 0)
	}
	return out
}

// SelectionSpansAt returns the chain of named nodes enclosing the cursor,
// smallest span first and the whole file last.
func (a *Adapter) SelectionSpansAt(cursor uint32) []SelectionSpan {
	if a.tree == nil {
		return nil
	}
	var chain []*sitter.Node
	n := a.tree.RootNode()
	for n != nil {
		chain = append(chain, n)
		var next *sitter.Node
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if c.StartByte() <= cursor && cursor < c.EndByte() {
				next = c
				break
			}
		}
		n = next
	}
	out := make([]SelectionSpan, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		node := chain[i]
		out = append(out, SelectionSpan{
			StartByte: node.StartByte(),
			EndByte:   node.EndByte(),
			StartLine: node.StartPoint().Row,
			StartCol:  node.StartPoint().Column,
			EndLine:   node.EndPoint().Row,
			EndCol:    node.EndPoint().Column,
			Kind:      a.selectionKindFor(node, i == 0),
		})
	}
	return out
}

func (a *Adapter) selectionKindFor(n *sitter.Node, root bool) string {
	if root {
		return "file"
	}
	kind := n.Type()
	switch constructOf(a.language, kind) {
	case constructFunction:
		return "function"
	case constructType:
		return "class"
	case constructBlock:
		return "block"
	case constructBranch, constructStatement, constructVarDecl:
		return "statement"
	case constructExpression:
		return "expression"
	}
	if atomicKind(kind) != "" || isIdentifierKind(kind) || n.NamedChildCount() == 0 {
		return "token"
	}
	return "expression"
}

// Declarations collects every definition site in the tree, in document order.
// Declaring nodes without a resolvable name, like an anonymous struct type,
// are skipped.
func (a *Adapter) Declarations() []Declaration {
	if a.tree == nil {
		return nil
	}
	var out []Declaration
	var walk func(n *sitter.Node, depth int)
	walk = func(n *sitter.Node, depth int) {
		kind := n.Type()
		childDepth := depth
		if c := constructOf(a.language, kind); c.declares() {
			if name := declarationName(n); name != nil {
				out = append(out, Declaration{
					Name:          name.Content(a.content),
					Kind:          declarationKind(c, kind),
					StartByte:     name.StartByte(),
					EndByte:       name.EndByte(),
					StartLine:     name.StartPoint().Row,
					StartCol:      name.StartPoint().Column,
					SpanStart:     n.StartByte(),
					SpanEnd:       n.EndByte(),
					SpanStartLine: n.StartPoint().Row,
					SpanEndLine:   n.EndPoint().Row,
					Depth:         depth,
				})
				childDepth++
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i), childDepth)
		}
	}
	walk(a.tree.RootNode(), 0)
	return out
}

// declarationName finds the node holding a declaration's name. Grammars hang
// the name off a small set of field names; within the field the first
// identifier-like descendant is the name.
func declarationName(n *sitter.Node) *sitter.Node {
	for _, field := range []string{"name", "declarator", "left", "pattern"} {
		c := n.ChildByFieldName(field)
		if c == nil {
			continue
		}
		if isIdentifierKind(c.Type()) {
			return c
		}
		if id := firstIdentifier(c); id != nil {
			return id
		}
	}
	return nil
}

func firstIdentifier(n *sitter.Node) *sitter.Node {
	if isIdentifierKind(n.Type()) {
		return n
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if id := firstIdentifier(n.NamedChild(i)); id != nil {
			return id
		}
	}
	return nil
}

// ErrorSpans reports syntax errors in the current tree. Subtrees without
// errors are pruned, so a clean file costs one HasError check.
func (a *Adapter) ErrorSpans() []ErrorSpan {
	if a.tree == nil {
		return nil
	}
	root := a.tree.RootNode()
	if !root.HasError() {
		return nil
	}
	var out []ErrorSpan
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch {
		case n.IsError():
			out = append(out, ErrorSpan{
				Kind:      n.Type(),
				StartByte: n.StartByte(),
				EndByte:   n.EndByte(),
				StartLine: n.StartPoint().Row,
				StartCol:  n.StartPoint().Column,
				EndLine:   n.EndPoint().Row,
				EndCol:    n.EndPoint().Column,
			})
			return
		case n.IsMissing():
			out = append(out, ErrorSpan{
				Kind:      n.Type(),
				StartByte: n.StartByte(),
				EndByte:   n.EndByte(),
				StartLine: n.StartPoint().Row,
				StartCol:  n.StartPoint().Column,
				EndLine:   n.EndPoint().Row,
				EndCol:    n.EndPoint().Column,
				Missing:   true,
			})
			return
		}
		if !n.HasError() {
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return out
}
