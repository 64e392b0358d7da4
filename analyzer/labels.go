package analyzer

import (
	"strconv"

	"github.com/ava12/floyd/ast"
)

// assignLabels is pass 7: it materializes the positional labels $1,
// $2, ... that every sequence element carries implicitly, by wrapping
// each direct child of a rule alternative's top-level sequence in a
// synthesized label node named for its 1-based position. A child that
// already carries an explicit :name label is wrapped a second time
// rather than renamed, so both names resolve to the same matched
// value — nesting costs nothing at match time, since the outer label
// just rebinds whatever its (already-labeled) child produced.
//
// This runs after filler installation (pass 6): filler wraps a leaf in
// place as Seq(filler, leaf) without touching its parent's child
// count, so the numbering a sequence's direct children get here is the
// same numbering the grammar's own surface syntax implies.
func (a *analysis) assignLabels () {
	for _, name := range a.g.Order {
		rule := a.g.Rules[name]
		rule.Ch[0] = a.numberBody(rule.Ch[0])
	}
}

func (a *analysis) numberBody (n *ast.Node) *ast.Node {
	switch n.Kind {
	case ast.KindChoice:
		for i, alt := range n.Ch {
			n.Ch[i] = a.numberAlt(alt)
		}
		return n
	case ast.KindOperator:
		n.Ch[0] = a.numberBody(n.Ch[0])
		body := n.Ch[1]
		recAlts := body.Ch
		if body.Kind != ast.KindChoice {
			recAlts = []*ast.Node{body}
		}
		for i, alt := range recAlts {
			if alt.BoolAttr("lr_alt") {
				recAlts[i] = a.numberAlt(alt)
			}
		}
		return n
	default:
		return a.numberAlt(n)
	}
}

func (a *analysis) numberAlt (alt *ast.Node) *ast.Node {
	if alt.Kind == ast.KindAction {
		alt.Ch[0] = a.numberPositions(alt.Ch[0])
		return alt
	}
	return a.numberPositions(alt)
}

func (a *analysis) numberPositions (body *ast.Node) *ast.Node {
	if body.Kind == ast.KindSeq {
		for i, c := range body.Ch {
			body.Ch[i] = ast.New(ast.KindLabel, "$"+strconv.Itoa(i+1), c)
		}
		return body
	}
	return ast.New(ast.KindLabel, "$1", body)
}

// LocalVars returns every distinct label name bound directly within
// rule's body — both the positional $1, $2, ... labels pass 7
// materializes and any explicit :name labels — in first-occurrence
// order. A code-generation backend declares exactly this set of local
// variables for the rule.
func LocalVars (g *Grammar, rule string) []string {
	body := g.Rules[rule]
	if body == nil {
		return nil
	}
	seen := map[string]bool{}
	var names []string
	for _, n := range ast.Collect(body.Child(0), func (n *ast.Node) bool { return n.Kind == ast.KindLabel }) {
		name := n.Str()
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
