package analyzer

import (
	"strings"

	"github.com/ava12/floyd/ast"
	"github.com/ava12/floyd/hostlang"
)

// identScopes is a stack of label-binding frames used only to classify
// identifiers during analysis; it tracks names, not the runtime values
// hostlang.Scopes carries.
//
// A frame is pushed once per rule (and per choice alternative, so
// labels never leak across alternatives) and again for every nested
// action, since a parenthesized group may carry its own trailing
// action and therefore its own label scope: `a:X (b:Y -> [a,b])? -> a`
// resolves `b` as local inside the inner action and `a` as outer.
// Grouping constructs that carry no action of their own (paren, opt,
// star, plus, count, not, not_one, ends_in, run) do not push a frame:
// their labels bind straight into whatever frame is already open.
type identScopes struct {
	frames []map[string]bool
}

func newIdentScopes () *identScopes {
	return &identScopes{frames: []map[string]bool{{}}}
}

func (s *identScopes) push ()      { s.frames = append(s.frames, map[string]bool{}) }
func (s *identScopes) pop ()       { s.frames = s.frames[:len(s.frames)-1] }
func (s *identScopes) bind (n string) { s.frames[len(s.frames)-1][n] = true }

// lookup returns the depth of the frame that binds name, deepest first,
// and whether it was found at all.
func (s *identScopes) lookup (name string) (int, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i][name] {
			return i, true
		}
	}
	return 0, false
}

// allNames collects every label bound in any open frame, for "did you
// mean" suggestions when a name fails to resolve.
func (s *identScopes) allNames () []string {
	var names []string
	for _, frame := range s.frames {
		for n := range frame {
			names = append(names, n)
		}
	}
	return names
}

func (s *identScopes) top () int { return len(s.frames) - 1 }

// resolveIdents is pass 2. For every rule and grammar-level pragma body
// it classifies each e_ident node as a local label, an outer label, an
// extern, or a builtin function, and rewrites the surface call/index
// forms (e_call, e_getitem, e_qual) into their interpreter-ready infix
// shapes (e_call_infix, e_getitem_infix). $-prefixed positional
// identifiers ($1, $2, ...) are left unclassified: hostlang.Eval
// resolves them to the local scope on its own, so pass 7's later
// positional-label materialization does not have to run before this
// pass.
func (a *analysis) resolveIdents () error {
	for _, name := range a.g.Order {
		scopes := newIdentScopes()
		if err := a.resolveBody(scopes, a.g.Rules[name].Child(0)); err != nil {
			return err
		}
	}
	for _, n := range []*ast.Node{a.g.Whitespace, a.g.Comment} {
		if n == nil {
			continue
		}
		if err := a.resolveBody(newIdentScopes(), n); err != nil {
			return err
		}
	}
	return nil
}

func (a *analysis) resolveBody (scopes *identScopes, n *ast.Node) error {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case ast.KindChoice:
		for _, alt := range n.Ch {
			scopes.push()
			if err := a.resolveBody(scopes, alt); err != nil {
				return err
			}
			scopes.pop()
		}
	case ast.KindSeq:
		for _, c := range n.Ch {
			if err := a.resolveBody(scopes, c); err != nil {
				return err
			}
		}
	case ast.KindLabel:
		scopes.bind(n.Str())
		return a.resolveBody(scopes, n.Child(0))
	case ast.KindAction:
		scopes.push()
		if err := a.resolveBody(scopes, n.Child(0)); err != nil {
			return err
		}
		if err := a.resolveExpr(scopes, n.Child(1)); err != nil {
			return err
		}
		scopes.pop()
	case ast.KindPred, ast.KindEquals:
		return a.resolveExpr(scopes, n.Child(0))
	case ast.KindParen, ast.KindOpt, ast.KindStar, ast.KindPlus, ast.KindCount,
		ast.KindNot, ast.KindNotOne, ast.KindEndsIn, ast.KindRun:
		return a.resolveBody(scopes, n.Child(0))
	}
	return nil
}

func (a *analysis) resolveExpr (scopes *identScopes, n *ast.Node) error {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case ast.KindEConst, ast.KindENum, ast.KindELit:
		return nil
	case ast.KindEIdent:
		return a.classifyIdent(scopes, n)
	case ast.KindEArr:
		for _, c := range n.Ch {
			if err := a.resolveExpr(scopes, c); err != nil {
				return err
			}
		}
		return nil
	case ast.KindEParen:
		return a.resolveExpr(scopes, n.Child(0))
	case ast.KindEPlus, ast.KindEMinus:
		if err := a.resolveExpr(scopes, n.Child(0)); err != nil {
			return err
		}
		return a.resolveExpr(scopes, n.Child(1))
	case ast.KindENot:
		return a.resolveExpr(scopes, n.Child(0))
	case ast.KindEGetitem, ast.KindEGetitemInfix:
		if err := a.resolveExpr(scopes, n.Ch[0]); err != nil {
			return err
		}
		if err := a.resolveExpr(scopes, n.Ch[1]); err != nil {
			return err
		}
		n.Kind = ast.KindEGetitemInfix
		return nil
	case ast.KindECall, ast.KindECallInfix:
		for _, c := range n.Ch {
			if err := a.resolveExpr(scopes, c); err != nil {
				return err
			}
		}
		n.Kind = ast.KindECallInfix
		return nil
	case ast.KindEQual:
		base := n.Ch[0]
		if err := a.resolveExpr(scopes, base); err != nil {
			return err
		}
		field := n.Str()
		lit := ast.New(ast.KindELit, field)
		n.Kind = ast.KindEGetitemInfix
		n.V = nil
		n.Ch = []*ast.Node{base, lit}
		return nil
	}
	return nil
}

func (a *analysis) classifyIdent (scopes *identScopes, n *ast.Node) error {
	name := n.Str()
	if strings.HasPrefix(name, "$") {
		return nil
	}
	if depth, ok := scopes.lookup(name); ok {
		if depth == scopes.top() {
			n.SetAttr("ident_kind", hostlang.IdentLocal)
		} else {
			n.SetAttr("ident_kind", hostlang.IdentOuter)
		}
		return nil
	}
	if _, ok := a.g.Externs[name]; ok {
		n.SetAttr("ident_kind", hostlang.IdentExtern)
		return nil
	}
	if a.opts.BuiltinNames[name] || a.opts.MachineNames[name] {
		n.SetAttr("ident_kind", hostlang.IdentFunction)
		return nil
	}
	return unresolvedIdentError(a.posOf(n), name, a.knownIdentNames(scopes))
}

// knownIdentNames collects every name classifyIdent would have
// accepted: labels visible in scopes, extern names, and builtin/machine
// function names, for a "did you mean" suggestion on failure.
func (a *analysis) knownIdentNames (scopes *identScopes) []string {
	names := scopes.allNames()
	for name := range a.g.Externs {
		names = append(names, name)
	}
	for name := range a.opts.BuiltinNames {
		names = append(names, name)
	}
	for name := range a.opts.MachineNames {
		names = append(names, name)
	}
	return names
}
