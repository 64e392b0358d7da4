package hostlang

import (
	"math"
	"strconv"

	"github.com/ava12/floyd/ast"
	"github.com/ava12/floyd/errors"
)

// identKind attribute values set by the analyzer's identifier-resolution
// pass.
const (
	IdentLocal    = "local"
	IdentOuter    = "outer"
	IdentExtern   = "extern"
	IdentFunction = "function"
)

// Eval evaluates a host-expression node (one of the ast.Kind values for
// which Kind.IsHostExpr is true) and returns its Value.
//
// e_call, e_getitem, and e_qual are surface-syntax forms that the
// analyzer always rewrites into e_call_infix / e_getitem_infix before
// interpretation runs; Eval treats encountering one of them as an
// internal-invariant failure rather than a well-formed host error.
func Eval (env *Env, n *ast.Node) (Value, error) {
	switch n.Kind {
	case ast.KindEConst:
		return evalConst(n)
	case ast.KindENum:
		return evalNum(n)
	case ast.KindELit:
		return n.Str(), nil
	case ast.KindEIdent:
		return evalIdent(env, n)
	case ast.KindEArr:
		vals := make([]Value, len(n.Ch))
		for i, c := range n.Ch {
			v, err := Eval(env, c)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		return vals, nil
	case ast.KindEParen:
		return Eval(env, n.Ch[0])
	case ast.KindEGetitemInfix:
		return evalGetitem(env, n)
	case ast.KindECallInfix:
		return evalCall(env, n)
	case ast.KindEPlus:
		return evalArith(env, n, "+")
	case ast.KindEMinus:
		return evalArith(env, n, "-")
	case ast.KindENot:
		v, err := Eval(env, n.Ch[0])
		if err != nil {
			return nil, err
		}
		return !Truthy(v), nil
	case ast.KindEGetitem, ast.KindECall, ast.KindEQual:
		return nil, errors.Format(errors.HostErrors, "internal: %s node reached the evaluator unrewritten", n.Kind)
	default:
		return nil, errors.Format(errors.HostErrors, "internal: %s is not a host expression", n.Kind)
	}
}

func evalConst (n *ast.Node) (Value, error) {
	switch n.Str() {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	case "Infinity":
		return math.Inf(1), nil
	case "NaN":
		return math.NaN(), nil
	default:
		return nil, errors.Format(errors.HostErrors, "unknown constant %q", n.Str())
	}
}

func evalNum (n *ast.Node) (Value, error) {
	s := n.Str()
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return nil, errors.Format(errors.HostErrors, "integer literal %q does not fit in 64 bits", s)
	}
	return v, nil
}

func evalIdent (env *Env, n *ast.Node) (Value, error) {
	name := n.Str()
	kind := n.StrAttr("ident_kind")
	switch kind {
	case IdentLocal:
		if v, ok := env.Scopes.Local(name); ok {
			return v, nil
		}
	case IdentOuter:
		if v, ok := env.Scopes.Outer(name); ok {
			return v, nil
		}
	case IdentExtern:
		if ext, ok := env.Externs[name]; ok {
			switch ext.Kind {
			case ExternConst:
				return ext.Const, nil
			case ExternFunc:
				return Func(ext.Func), nil
			case ExternPFunc:
				m := env.Machine
				pf := ext.PFunc
				return Func(func (args []Value) (Value, error) { return pf(m, args) }), nil
			}
		}
	case IdentFunction:
		if fn, ok := env.Builtins[name]; ok {
			return fn, nil
		}
		if mfn, ok := env.MachineBuiltins[name]; ok {
			m := env.Machine
			return Func(func (args []Value) (Value, error) { return mfn(m, args) }), nil
		}
	default:
		// Positional labels ($1, $2, ...) are always local, even if the
		// analyzer never set ident_kind on a synthesized node.
		if len(name) > 0 && name[0] == '$' {
			if v, ok := env.Scopes.Local(name); ok {
				return v, nil
			}
		}
	}
	return nil, UnresolvedIdentError(name)
}

func evalGetitem (env *Env, n *ast.Node) (Value, error) {
	left, err := Eval(env, n.Ch[0])
	if err != nil {
		return nil, err
	}
	right, err := Eval(env, n.Ch[1])
	if err != nil {
		return nil, err
	}
	switch l := left.(type) {
	case []Value:
		idx, ok := asInt(right)
		if !ok {
			return nil, errors.Format(errors.HostErrors, "list index must be an integer, got %T", right)
		}
		if idx < 0 || int(idx) >= len(l) {
			return nil, errors.Format(errors.HostErrors, "list index %d out of range (len %d)", idx, len(l))
		}
		return l[idx], nil
	case map[string]Value:
		key, ok := right.(string)
		if !ok {
			return nil, errors.Format(errors.HostErrors, "dict key must be a string, got %T", right)
		}
		v, ok := l[key]
		if !ok {
			return nil, errors.Format(errors.HostErrors, "dict has no key %q", key)
		}
		return v, nil
	case string:
		idx, ok := asInt(right)
		if !ok || idx < 0 || int(idx) >= len(l) {
			return nil, errors.Format(errors.HostErrors, "string index out of range")
		}
		return string([]rune(l)[idx]), nil
	default:
		return nil, errors.Format(errors.HostErrors, "cannot index a value of type %T", left)
	}
}

func evalCall (env *Env, n *ast.Node) (Value, error) {
	left, err := Eval(env, n.Ch[0])
	if err != nil {
		return nil, err
	}
	fn, ok := left.(Func)
	if !ok {
		return nil, errors.Format(errors.HostErrors, "value is not callable (%T)", left)
	}
	args := make([]Value, 0, len(n.Ch)-1)
	for _, c := range n.Ch[1:] {
		v, err := Eval(env, c)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return fn(args)
}

func evalArith (env *Env, n *ast.Node, op string) (Value, error) {
	v1, err := Eval(env, n.Ch[0])
	if err != nil {
		return nil, err
	}
	v2, err := Eval(env, n.Ch[1])
	if err != nil {
		return nil, err
	}

	if op == "+" {
		if s1, ok := v1.(string); ok {
			s2, ok := v2.(string)
			if !ok {
				return nil, errors.Format(errors.HostErrors, "cannot add string and %T", v2)
			}
			return s1 + s2, nil
		}
		if l1, ok := v1.([]Value); ok {
			l2, ok := v2.([]Value)
			if !ok {
				return nil, errors.Format(errors.HostErrors, "cannot add list and %T", v2)
			}
			res := make([]Value, 0, len(l1)+len(l2))
			res = append(res, l1...)
			res = append(res, l2...)
			return res, nil
		}
	}

	f1, i1, isFloat1, ok1 := asNumber(v1)
	f2, i2, isFloat2, ok2 := asNumber(v2)
	if !ok1 || !ok2 {
		return nil, errors.Format(errors.HostErrors, "cannot apply %q to %T and %T", op, v1, v2)
	}
	if isFloat1 || isFloat2 {
		if op == "+" {
			return f1 + f2, nil
		}
		return f1 - f2, nil
	}
	if op == "+" {
		return i1 + i2, nil
	}
	return i1 - i2, nil
}

func asNumber (v Value) (f float64, i int64, isFloat, ok bool) {
	switch n := v.(type) {
	case int64:
		return 0, n, false, true
	case int:
		return 0, int64(n), false, true
	case float64:
		return n, 0, true, true
	default:
		return 0, 0, false, false
	}
}

func asInt (v Value) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

// Truthy implements the boolean coercion used by e_not and by pred nodes
// that (against the grammar's own advice) evaluate a non-boolean.
func Truthy (v Value) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case int64:
		return t != 0
	case int:
		return t != 0
	case float64:
		return t != 0
	case string:
		return t != ""
	case []Value:
		return len(t) != 0
	case map[string]Value:
		return len(t) != 0
	default:
		return true
	}
}
