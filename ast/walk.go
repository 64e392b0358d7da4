package ast

// Visitor is called once per node in a Walk. Returning false skips that
// node's children (but Walk still continues with the rest of the tree).
type Visitor func (n *Node) (descend bool)

// Walk performs a pre-order traversal of n, calling visit on every node
// reached (including n itself). Unlike a linked-node tree's Next()/
// Prev() sibling-pointer walk, this simply ranges over Ch, since a
// Node owns its children as a slice, not a doubly linked list.
func Walk (n *Node, visit Visitor) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range n.Ch {
		Walk(c, visit)
	}
}

// Collect returns every node in the tree rooted at n for which pred
// returns true, in pre-order. It is the Floyd-AST analog of
// tree.Selector.Search(pred, true): a one-shot depth-first gather instead
// of a composable selector pipeline, since analysis passes only ever need
// a single flat pass ("all e_ident nodes", "all apply nodes").
func Collect (n *Node, pred func (*Node) bool) []*Node {
	var res []*Node
	Walk(n, func (nn *Node) bool {
		if pred(nn) {
			res = append(res, nn)
		}
		return true
	})
	return res
}

// Transform rewrites the tree rooted at n bottom-up: fn is applied to
// every child first, then to n itself, with n's Ch slice replaced by the
// (possibly different) rewritten children before fn sees n. fn may return
// its argument unchanged, a mutated version of it, or an entirely
// different node (e.g. to replace a choice-of-operators rule body with an
// `operator` node, or a plain rule with a `leftrec`-wrapped one).
func Transform (n *Node, fn func (*Node) *Node) *Node {
	if n == nil {
		return nil
	}
	newCh := make([]*Node, len(n.Ch))
	for i, c := range n.Ch {
		newCh[i] = Transform(c, fn)
	}
	n.Ch = newCh
	return fn(n)
}

// CanFail reports the memoized "can this node ever fail to match" analysis
// attribute, defaulting to true (conservative) when the attribute has
// not been computed yet.
func (n *Node) CanFail () bool {
	v, ok := n.Attrs["can_fail"]
	if !ok {
		return true
	}
	b, _ := v.(bool)
	return b
}
