package syntax

// Node is a single node of the Abstract Syntax Tree (AST).  Leaves are created
// by shifting terminals that carry an emit tag; branches are created by
// reducing productions that carry an emit tag.  Nothing else ever becomes a
// node: transparent productions splice their children into the enclosing
// frame.
type Node struct {
	Emit string

	// Symbol is the shifted terminal for leaves and the left-hand side of the
	// reduced production for branches
	Symbol int

	// Production is the production that created this node (NoProduction for
	// leaves)
	Production int

	Span Span

	// Text is the matched text of a leaf whose symbol is flagged as lexem
	Text string

	// Children is nil if no child was collected (leaves are always childless)
	Children []*Node
}

// IsLeaf indicates whether the node was created by a shift
func (n *Node) IsLeaf() bool {
	return n.Production == NoProduction
}

// Walk visits the node and all of its descendants in pre-order.  If `fn`
// returns false, the children of the current node are skipped.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}

	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// newLeaf creates the leaf for a shifted token (if the symbol wants one)
func newLeaf(sym *Symbol, tok Token) []*Node {
	if sym.Emit == "" {
		return nil
	}

	leaf := &Node{Emit: sym.Emit, Symbol: sym.ID, Production: NoProduction, Span: tok.Span}
	if sym.Lexem {
		leaf.Text = tok.Text
	}

	return []*Node{leaf}
}
