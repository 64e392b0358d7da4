package hostlang

import (
	"github.com/ava12/floyd/ast"
	"github.com/ava12/floyd/errors"
)

// Type is a node in the small static-type lattice used to catch host
// expression mismatches that are certain at analysis time.
// It is a lattice, not a full type system: TAny is both top and the
// default for anything the analyzer cannot pin down, and no attempt is
// made to check list/dict element types beyond ann element Type of TAny.
type Type int

const (
	TAny Type = iota
	TNull
	TBool
	TInt
	TFloat
	TStr
	TList
	TDict
	TFunc
)

func (t Type) String () string {
	switch t {
	case TNull:
		return "null"
	case TBool:
		return "bool"
	case TInt:
		return "int"
	case TFloat:
		return "float"
	case TStr:
		return "str"
	case TList:
		return "list"
	case TDict:
		return "dict"
	case TFunc:
		return "func"
	default:
		return "any"
	}
}

// Numeric reports whether t is known to be int or float.
func (t Type) Numeric () bool {
	return t == TInt || t == TFloat
}

// TypeEnv is the static analog of Env: it maps identifiers to types
// instead of values, using the same ident_kind classification the
// evaluator uses, plus a table of extern and builtin result types.
type TypeEnv struct {
	Scopes       *TypeScopes
	ExternTypes  map[string]Type
	BuiltinTypes map[string]Type
}

// TypeScopes mirrors Scopes, but for static type inference: one map per
// frame, updated as `label` nodes are visited during the pass-9 walk.
type TypeScopes struct {
	frames []map[string]Type
}

func NewTypeScopes () *TypeScopes {
	return &TypeScopes{frames: []map[string]Type{{}}}
}

func (s *TypeScopes) Push () { s.frames = append(s.frames, map[string]Type{}) }
func (s *TypeScopes) Pop ()  { s.frames = s.frames[:len(s.frames)-1] }

func (s *TypeScopes) Bind (name string, t Type) {
	s.frames[len(s.frames)-1][name] = t
}

func (s *TypeScopes) Lookup (name string) (Type, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if t, ok := s.frames[i][name]; ok {
			return t, true
		}
	}
	return TAny, false
}

// CheckExpr infers the static type of a host expression, conservatively
// falling back to TAny whenever an operand's type cannot be pinned down,
// and returns a non-nil error only for combinations that are certain to
// fail at every possible run: mismatches that are statically certain
// raise, anything involving TAny is left for runtime. It never rejects
// a well-typed program: an over-cautious pass would be worse than a
// missed diagnostic here.
func CheckExpr (env *TypeEnv, n *ast.Node) (Type, error) {
	switch n.Kind {
	case ast.KindEConst:
		switch n.Str() {
		case "true", "false":
			return TBool, nil
		case "null":
			return TNull, nil
		case "Infinity", "NaN":
			return TFloat, nil
		default:
			return TAny, nil
		}
	case ast.KindENum:
		return TInt, nil
	case ast.KindELit:
		return TStr, nil
	case ast.KindEIdent:
		return checkIdent(env, n), nil
	case ast.KindEArr:
		for _, c := range n.Ch {
			if _, err := CheckExpr(env, c); err != nil {
				return TAny, err
			}
		}
		return TList, nil
	case ast.KindEParen:
		return CheckExpr(env, n.Ch[0])
	case ast.KindEGetitemInfix:
		if _, err := CheckExpr(env, n.Ch[0]); err != nil {
			return TAny, err
		}
		if _, err := CheckExpr(env, n.Ch[1]); err != nil {
			return TAny, err
		}
		return TAny, nil
	case ast.KindECallInfix:
		for _, c := range n.Ch {
			if _, err := CheckExpr(env, c); err != nil {
				return TAny, err
			}
		}
		return TAny, nil
	case ast.KindEPlus, ast.KindEMinus:
		return checkArith(env, n)
	case ast.KindENot:
		if _, err := CheckExpr(env, n.Ch[0]); err != nil {
			return TAny, err
		}
		return TBool, nil
	default:
		return TAny, nil
	}
}

func checkIdent (env *TypeEnv, n *ast.Node) Type {
	name := n.Str()
	switch n.StrAttr("ident_kind") {
	case IdentLocal, IdentOuter:
		if t, ok := env.Scopes.Lookup(name); ok {
			return t
		}
	case IdentExtern:
		if t, ok := env.ExternTypes[name]; ok {
			return t
		}
	case IdentFunction:
		if t, ok := env.BuiltinTypes[name]; ok {
			return t
		}
		return TFunc
	}
	return TAny
}

func checkArith (env *TypeEnv, n *ast.Node) (Type, error) {
	t1, err := CheckExpr(env, n.Ch[0])
	if err != nil {
		return TAny, err
	}
	t2, err := CheckExpr(env, n.Ch[1])
	if err != nil {
		return TAny, err
	}
	if t1 == TAny || t2 == TAny {
		return TAny, nil
	}
	isPlus := n.Kind == ast.KindEPlus
	switch {
	case t1 == TStr && t2 == TStr && isPlus:
		return TStr, nil
	case t1 == TList && t2 == TList && isPlus:
		return TList, nil
	case t1.Numeric() && t2.Numeric():
		if t1 == TFloat || t2 == TFloat {
			return TFloat, nil
		}
		return TInt, nil
	default:
		op := "+"
		if !isPlus {
			op = "-"
		}
		return TAny, mismatchError(op, t1, t2)
	}
}

func mismatchError (op string, t1, t2 Type) error {
	return errors.Format(errors.AnalysisErrors, "operand types %s and %s can never satisfy %q", t1, t2, op)
}
