package analyzer

import (
	"github.com/ava12/floyd/ast"
	"github.com/ava12/floyd/hostlang"
)

// computeCanFail is pass 8: a bottom-up pass recording, on every node,
// whether the interpreter can prove the node always matches (star,
// opt, a zero-minimum count, an empty literal). The result is exposed
// through ast.Node.CanFail; the interpreter does not read it.
func (a *analysis) computeCanFail () {
	for _, name := range a.g.Order {
		a.markCanFail(a.g.Rules[name].Child(0))
	}
	if a.g.Whitespace != nil {
		a.markCanFail(a.g.Whitespace)
	}
	if a.g.Comment != nil {
		a.markCanFail(a.g.Comment)
	}
}

func (a *analysis) markCanFail (n *ast.Node) bool {
	if n == nil {
		return true
	}
	var cf bool
	switch n.Kind {
	case ast.KindStar, ast.KindOpt, ast.KindEmpty:
		for _, c := range n.Ch {
			a.markCanFail(c)
		}
		cf = false
	case ast.KindSeq:
		for _, c := range n.Ch {
			if a.markCanFail(c) {
				cf = true
			}
		}
	case ast.KindChoice:
		cf = true
		for _, c := range n.Ch {
			if !a.markCanFail(c) {
				cf = false
			}
		}
	case ast.KindPlus:
		cf = a.markCanFail(n.Child(0))
	case ast.KindLabel, ast.KindParen, ast.KindRun, ast.KindAction:
		cf = a.markCanFail(n.Ch[0])
	case ast.KindCount:
		inner := a.markCanFail(n.Child(0))
		cf = n.Pair().Lo != 0 && inner
	case ast.KindOperator:
		cf = a.markCanFail(n.Child(0))
		a.markCanFail(n.Child(1))
	case ast.KindLit:
		cf = n.Str() != ""
	case ast.KindNot, ast.KindNotOne, ast.KindEndsIn, ast.KindPred, ast.KindEquals, ast.KindApply,
		ast.KindAny, ast.KindEnd, ast.KindRange, ast.KindSet, ast.KindRegexp, ast.KindUnicat:
		for _, c := range n.Ch {
			a.markCanFail(c)
		}
		cf = true
	default:
		return true
	}
	n.SetAttr("can_fail", cf)
	return cf
}

// computeFeatureFlags is pass 10: it scans the decorated tree for the
// handful of things that determine which optional interpreter
// subsystems a compiled program actually needs, so a facade or code
// generator does not have to unconditionally pull in the regexp
// engine, Unicode category tables, or the left-recursion seeding loop
// for a grammar that never uses them.
func (a *analysis) computeFeatureFlags () {
	for _, name := range a.g.Order {
		body := a.g.Rules[name].Child(0)
		if len(ast.Collect(body, func (n *ast.Node) bool { return n.Kind == ast.KindRegexp })) > 0 {
			a.g.ReNeeded = true
		}
		if len(ast.Collect(body, func (n *ast.Node) bool { return n.Kind == ast.KindUnicat })) > 0 {
			a.g.UnicodedataNeeded = true
		}
		for _, id := range ast.Collect(body, func (n *ast.Node) bool {
			return n.Kind == ast.KindEIdent && n.StrAttr("ident_kind") == hostlang.IdentFunction
		}) {
			a.g.NeededBuiltinFunctions[id.Str()] = true
		}
	}
	for name := range a.g.LeftrecRules {
		a.g.LeftrecNeeded = true
		if _, ok := a.g.Operators[name]; !ok {
			a.g.SeedsNeeded = true
		}
	}
	for _, info := range a.g.Externs {
		if info.Kind == "pfunc" {
			a.g.LookupNeeded = true
		}
	}
}
