package ast

// Span is the half-open range of code-point offsets in grammar source
// text that a node was parsed from. It is used only for grammar-level
// diagnostics; input-text positions are tracked separately by the
// interpreter's runtime state.
type Span struct {
	Start, End int
}

// Pair is the [min, max] value carried by a count node, and the [lo, hi]
// value carried by a range node.
type Pair struct {
	Lo, Hi int
}

// CharSet is the value carried by a set node: a character class such as
// `[a-z_]` or its negation `[^a-z_]`, stored as a list of inclusive
// code-point ranges rather than an expanded rune set.
type CharSet struct {
	Negate bool
	Ranges []Pair
}

// Contains reports whether r falls in one of the set's ranges, XORed
// with Negate.
func (cs CharSet) Contains (r rune) bool {
	in := false
	for _, p := range cs.Ranges {
		if int(r) >= p.Lo && int(r) <= p.Hi {
			in = true
			break
		}
	}
	if cs.Negate {
		return !in
	}
	return in
}

// Node is the single, uniform AST record used by every stage of the
// pipeline. Its shape never changes across stages; only Attrs
// accumulates as analysis passes run.
type Node struct {
	Kind  Kind
	V     any
	Ch    []*Node
	Attrs map[string]any
	Span  Span
}

// New builds a Node of the given kind with the given children. Ch may be
// nil; it is never stored as a nil slice (kept as an empty non-nil slice)
// so that callers can range over Ch unconditionally — Ch is never null.
func New (kind Kind, v any, ch ...*Node) *Node {
	if ch == nil {
		ch = []*Node{}
	}
	return &Node{Kind: kind, V: v, Ch: ch, Attrs: map[string]any{}}
}

// WithSpan sets the node's source span and returns it, for chaining
// during construction by the grammar parser.
func (n *Node) WithSpan (start, end int) *Node {
	n.Span = Span{start, end}
	return n
}

// Child returns the i-th child, or nil if out of range.
func (n *Node) Child (i int) *Node {
	if i < 0 || i >= len(n.Ch) {
		return nil
	}
	return n.Ch[i]
}

// Str returns V as a string, or "" if V does not hold a string.
func (n *Node) Str () string {
	s, _ := n.V.(string)
	return s
}

// Pair returns V as a Pair, or the zero Pair if V does not hold one.
func (n *Node) Pair () Pair {
	p, _ := n.V.(Pair)
	return p
}

// Attr returns the named analysis attribute and whether it was set.
func (n *Node) Attr (name string) (any, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// SetAttr sets the named analysis attribute.
func (n *Node) SetAttr (name string, v any) {
	n.Attrs[name] = v
}

// BoolAttr returns the named attribute coerced to bool, defaulting to
// false when unset or of the wrong type.
func (n *Node) BoolAttr (name string) bool {
	v, _ := n.Attrs[name].(bool)
	return v
}

// StrAttr returns the named attribute coerced to string, defaulting to
// "" when unset or of the wrong type.
func (n *Node) StrAttr (name string) string {
	v, _ := n.Attrs[name].(string)
	return v
}

// Clone makes a shallow copy of n with a fresh (but shallow-copied) Attrs
// map and Ch slice; children themselves are not deep-copied. Used by
// analysis passes that rewrite a subtree without mutating a node that
// might be shared (e.g. the synthesized "operand" choice built once and
// referenced by several operator alternatives).
func (n *Node) Clone () *Node {
	c := &Node{Kind: n.Kind, V: n.V, Span: n.Span}
	c.Ch = append([]*Node{}, n.Ch...)
	c.Attrs = make(map[string]any, len(n.Attrs))
	for k, v := range n.Attrs {
		c.Attrs[k] = v
	}
	return c
}
