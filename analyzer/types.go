package analyzer

import (
	"github.com/ava12/floyd/ast"
	"github.com/ava12/floyd/hostlang"
)

// checkTypes is pass 9. It walks every rule with the same frame
// structure resolveIdents (pass 2) used — one frame per rule, one per
// choice alternative, one per nested action — but building a
// hostlang.TypeScopes of inferred types instead of classifying idents,
// and calling hostlang.CheckExpr on every action, predicate, and
// equals expression it reaches. A grammar that types a mismatch
// hostlang could never resolve at runtime (e.g. `"a" + 1`) is rejected
// here instead of failing on the first input that reaches it.
//
// Recursive operator alternatives (the seeded left/right operand
// actions rewritten in place by pass 5) are not walked a second time
// here: their shape was already validated structurally, and checking
// their reduction actions statically would mean re-deriving the
// climbing algorithm's own type flow, which belongs to the
// interpreter, not the analyzer.
func (a *analysis) checkTypes () error {
	externTypes := a.externTypes()

	for _, name := range a.g.Order {
		env := &hostlang.TypeEnv{
			Scopes:       hostlang.NewTypeScopes(),
			ExternTypes:  externTypes,
			BuiltinTypes: a.opts.BuiltinTypes,
		}
		if _, err := a.checkBody(env, a.g.Rules[name].Child(0)); err != nil {
			return typeMismatchError(a.posOf(a.g.Rules[name]), err)
		}
	}
	for _, n := range []*ast.Node{a.g.Whitespace, a.g.Comment} {
		if n == nil {
			continue
		}
		env := &hostlang.TypeEnv{Scopes: hostlang.NewTypeScopes(), ExternTypes: externTypes, BuiltinTypes: a.opts.BuiltinTypes}
		if _, err := a.checkBody(env, n); err != nil {
			return typeMismatchError(a.posOf(n), err)
		}
	}
	return nil
}

func (a *analysis) externTypes () map[string]hostlang.Type {
	types := make(map[string]hostlang.Type, len(a.g.Externs))
	emptyEnv := &hostlang.TypeEnv{Scopes: hostlang.NewTypeScopes(), ExternTypes: map[string]hostlang.Type{}, BuiltinTypes: a.opts.BuiltinTypes}
	for name, info := range a.g.Externs {
		if info.Kind == "const" && info.Default != nil {
			if t, err := hostlang.CheckExpr(emptyEnv, info.Default); err == nil {
				types[name] = t
				continue
			}
		}
		if info.Kind == "func" || info.Kind == "pfunc" {
			types[name] = hostlang.TFunc
		} else {
			types[name] = hostlang.TAny
		}
	}
	return types
}

// checkBody type-checks a grammar element in place and returns the
// static type of the value it produces when it matches, mirroring
// resolveBody's structural recursion in idents.go so scope frames
// line up between the two passes.
func (a *analysis) checkBody (env *hostlang.TypeEnv, n *ast.Node) (hostlang.Type, error) {
	if n == nil {
		return hostlang.TAny, nil
	}
	switch n.Kind {
	case ast.KindChoice:
		for _, alt := range n.Ch {
			env.Scopes.Push()
			_, err := a.checkBody(env, alt)
			env.Scopes.Pop()
			if err != nil {
				return hostlang.TAny, err
			}
		}
		return hostlang.TAny, nil
	case ast.KindSeq:
		for _, c := range n.Ch {
			if _, err := a.checkBody(env, c); err != nil {
				return hostlang.TAny, err
			}
		}
		return hostlang.TList, nil
	case ast.KindLabel:
		t, err := a.checkBody(env, n.Child(0))
		if err != nil {
			return hostlang.TAny, err
		}
		env.Scopes.Bind(n.Str(), t)
		return t, nil
	case ast.KindAction:
		env.Scopes.Push()
		_, err := a.checkBody(env, n.Child(0))
		if err != nil {
			env.Scopes.Pop()
			return hostlang.TAny, err
		}
		t, err := hostlang.CheckExpr(env, n.Child(1))
		env.Scopes.Pop()
		return t, err
	case ast.KindPred:
		_, err := hostlang.CheckExpr(env, n.Child(0))
		return hostlang.TBool, err
	case ast.KindEquals:
		_, err := hostlang.CheckExpr(env, n.Child(0))
		return hostlang.TStr, err
	case ast.KindParen:
		return a.checkBody(env, n.Child(0))
	case ast.KindRun:
		_, err := a.checkBody(env, n.Child(0))
		return hostlang.TStr, err
	case ast.KindOpt:
		return a.checkBody(env, n.Child(0))
	case ast.KindStar, ast.KindPlus, ast.KindCount:
		_, err := a.checkBody(env, n.Child(0))
		return hostlang.TList, err
	case ast.KindNot, ast.KindNotOne, ast.KindEndsIn:
		_, err := a.checkBody(env, n.Child(0))
		return hostlang.TAny, err
	case ast.KindOperator:
		_, err := a.checkBody(env, n.Child(0))
		return hostlang.TAny, err
	case ast.KindLit, ast.KindRange, ast.KindSet, ast.KindRegexp, ast.KindUnicat, ast.KindAny:
		return hostlang.TStr, nil
	default:
		return hostlang.TAny, nil
	}
}
