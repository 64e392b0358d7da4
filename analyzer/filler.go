package analyzer

import "github.com/ava12/floyd/ast"

// installFiller is pass 6. It computes the transitive closure of
// %tokens-declared rule names over apply edges (a token rule's callees
// are tokens too, so filler never sneaks inside a token's internals),
// builds a single `(whitespace | comment)*` filler element from the
// %whitespace/%comment pragma bodies, and inserts a clone of it ahead
// of every literal-matching leaf (lit, range, set, regexp, unicat,
// end, and the apply-spelled `end` built-in rule) in every
// non-token rule, via a bottom-up ast.Transform that wraps each leaf
// in place as Seq(filler, leaf) — the leaf's parent keeps the same
// arity and child index, so pass 7's positional label numbering,
// which runs after this pass, is unaffected.
func (a *analysis) installFiller () {
	if a.g.Whitespace == nil && a.g.Comment == nil {
		return
	}

	var alt []*ast.Node
	if a.g.Whitespace != nil {
		alt = append(alt, a.g.Whitespace)
	}
	if a.g.Comment != nil {
		alt = append(alt, a.g.Comment)
	}
	var inner *ast.Node
	if len(alt) == 1 {
		inner = alt[0]
	} else {
		inner = ast.New(ast.KindChoice, nil, alt...)
	}
	filler := ast.New(ast.KindStar, nil, inner)

	tokenRules := a.tokenClosure()

	for _, name := range a.g.Order {
		if tokenRules[name] {
			continue
		}
		rule := a.g.Rules[name]
		rule.Ch[0] = ast.Transform(rule.Ch[0], func (n *ast.Node) *ast.Node {
			if isFillerTarget(n) {
				return ast.New(ast.KindSeq, nil, deepClone(filler), n)
			}
			return n
		})
	}
}

// isFillerTarget reports whether n is a leaf that consumes input
// directly and so needs filler spliced in ahead of it: the ordinary
// literal-matching kinds, plus apply nodes naming the `end` built-in
// rule, which tests the input position the same way despite being
// spelled as a rule call. `any` is not a filler target.
func isFillerTarget (n *ast.Node) bool {
	switch n.Kind {
	case ast.KindLit, ast.KindRange, ast.KindSet, ast.KindRegexp, ast.KindUnicat, ast.KindEnd:
		return true
	case ast.KindApply:
		return n.Str() == "end"
	default:
		return false
	}
}

// tokenClosure returns every rule name reachable from a %tokens
// declaration by following apply edges: a rule invoked (directly or
// transitively) from inside a token rule is itself lexical, not
// syntactic, and must not have filler spliced into it.
func (a *analysis) tokenClosure () map[string]bool {
	closure := make(map[string]bool, len(a.g.Tokens))
	for name := range a.g.Tokens {
		closure[name] = true
	}
	for changed := true; changed; {
		changed = false
		for name := range closure {
			rule, ok := a.g.Rules[name]
			if !ok {
				continue
			}
			for _, apply := range ast.Collect(rule.Child(0), func (n *ast.Node) bool { return n.Kind == ast.KindApply }) {
				callee := apply.Str()
				if !closure[callee] {
					closure[callee] = true
					changed = true
				}
			}
		}
	}
	return closure
}

func deepClone (n *ast.Node) *ast.Node {
	c := n.Clone()
	for i, ch := range c.Ch {
		c.Ch[i] = deepClone(ch)
	}
	return c
}
