// Package builtins implements the closed catalog of built-in functions
// available to every host expression, plus the three that need access
// to the running parse (node, pos, colno).
package builtins

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/ava12/floyd/errors"
	"github.com/ava12/floyd/hostlang"
)

func badArgs (name string, args []hostlang.Value) error {
	return errors.Format(errors.HostErrors, "%s: bad arguments %v", name, args)
}

func asStr (name string, v hostlang.Value) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.Format(errors.HostErrors, "%s: expected a string, got %T", name, v)
	}
	return s, nil
}

func asInt (name string, v hostlang.Value) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, errors.Format(errors.HostErrors, "%s: expected an int, got %T", name, v)
	}
}

func asFloat (v hostlang.Value) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func asList (name string, v hostlang.Value) ([]hostlang.Value, error) {
	l, ok := v.([]hostlang.Value)
	if !ok {
		return nil, errors.Format(errors.HostErrors, "%s: expected a list, got %T", name, v)
	}
	return l, nil
}

func asDict (name string, v hostlang.Value) (map[string]hostlang.Value, error) {
	d, ok := v.(map[string]hostlang.Value)
	if !ok {
		return nil, errors.Format(errors.HostErrors, "%s: expected a dict, got %T", name, v)
	}
	return d, nil
}

func asFunc (name string, v hostlang.Value) (hostlang.Func, error) {
	f, ok := v.(hostlang.Func)
	if !ok {
		return nil, errors.Format(errors.HostErrors, "%s: expected a function, got %T", name, v)
	}
	return f, nil
}

// Equal implements deep, order-sensitive structural equality over the
// Value representation (used by equal() and by in()/has() membership
// tests, which cannot rely on Go's == across list/dict values).
func Equal (a, b hostlang.Value) bool {
	switch av := a.(type) {
	case []hostlang.Value:
		bv, ok := b.([]hostlang.Value)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]hostlang.Value:
		bv, ok := b.(map[string]hostlang.Value)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, ok := bv[k]
			if !ok || !Equal(v, bvv) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

func sortedKeys (d map[string]hostlang.Value) []string {
	ks := make([]string, 0, len(d))
	for k := range d {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// New returns the 55 pure built-ins that do not need the running
// Machine. Callers wire this into hostlang.Env.Builtins; a caller's
// %externs pragma may override any entry by name.
func New () map[string]hostlang.Func {
	return map[string]hostlang.Func{
		"atoi": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 2 {
				return nil, badArgs("atoi", a)
			}
			s, err := asStr("atoi", a[0])
			if err != nil {
				return nil, err
			}
			base, err := asInt("atoi", a[1])
			if err != nil {
				return nil, err
			}
			n, err := strconv.ParseInt(s, int(base), 64)
			if err != nil {
				return nil, errors.Format(errors.HostErrors, "atoi: %v", err)
			}
			return n, nil
		},
		"atof": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("atof", a)
			}
			s, err := asStr("atof", a[0])
			if err != nil {
				return nil, err
			}
			if strings.ContainsAny(s, ".eE") {
				f, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return nil, errors.Format(errors.HostErrors, "atof: %v", err)
				}
				return f, nil
			}
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, errors.Format(errors.HostErrors, "atof: %v", err)
			}
			return n, nil
		},
		"atou": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 2 {
				return nil, badArgs("atou", a)
			}
			s, err := asStr("atou", a[0])
			if err != nil {
				return nil, err
			}
			base, err := asInt("atou", a[1])
			if err != nil {
				return nil, err
			}
			n, err := strconv.ParseInt(s, int(base), 32)
			if err != nil {
				return nil, errors.Format(errors.HostErrors, "atou: %v", err)
			}
			return string(rune(n)), nil
		},
		"btoa": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("btoa", a)
			}
			s, err := asStr("btoa", a[0])
			if err != nil {
				return nil, err
			}
			n, err := strconv.ParseInt(s, 2, 64)
			if err != nil {
				return nil, errors.Format(errors.HostErrors, "btoa: %v", err)
			}
			return strconv.FormatInt(n, 10), nil
		},
		"cat": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("cat", a)
			}
			xs, err := asList("cat", a[0])
			if err != nil {
				return nil, err
			}
			var b strings.Builder
			for _, x := range xs {
				s, err := asStr("cat", x)
				if err != nil {
					return nil, err
				}
				b.WriteString(s)
			}
			return b.String(), nil
		},
		"cdr": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("cdr", a)
			}
			xs, err := asList("cdr", a[0])
			if err != nil {
				return nil, err
			}
			if len(xs) == 0 {
				return nil, errors.Format(errors.HostErrors, "cdr: empty list")
			}
			return append([]hostlang.Value{}, xs[1:]...), nil
		},
		"concat": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 2 {
				return nil, badArgs("concat", a)
			}
			xs, err := asList("concat", a[0])
			if err != nil {
				return nil, err
			}
			ys, err := asList("concat", a[1])
			if err != nil {
				return nil, err
			}
			res := make([]hostlang.Value, 0, len(xs)+len(ys))
			res = append(res, xs...)
			res = append(res, ys...)
			return res, nil
		},
		"cons": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 2 {
				return nil, badArgs("cons", a)
			}
			tl, err := asList("cons", a[1])
			if err != nil {
				return nil, err
			}
			res := make([]hostlang.Value, 0, len(tl)+1)
			res = append(res, a[0])
			res = append(res, tl...)
			return res, nil
		},
		"scons": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 2 {
				return nil, badArgs("scons", a)
			}
			tl, err := asList("scons", a[1])
			if err != nil {
				return nil, err
			}
			res := make([]hostlang.Value, 0, len(tl)+1)
			res = append(res, a[0])
			res = append(res, tl...)
			return res, nil
		},
		"scat": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 2 {
				return nil, badArgs("scat", a)
			}
			tl, err := asList("scat", a[1])
			if err != nil {
				return nil, err
			}
			hd, err := asStr("scat", a[0])
			if err != nil {
				return nil, err
			}
			var b strings.Builder
			b.WriteString(hd)
			for _, x := range tl {
				s, err := asStr("scat", x)
				if err != nil {
					return nil, err
				}
				b.WriteString(s)
			}
			return b.String(), nil
		},
		"dedent": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 3 {
				return nil, badArgs("dedent", a)
			}
			s, err := asStr("dedent", a[0])
			if err != nil {
				return nil, err
			}
			minIndent, err := asInt("dedent", a[2])
			if err != nil {
				return nil, err
			}
			return dedent(s, minIndent), nil
		},
		"dict": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("dict", a)
			}
			pairs, err := asList("dict", a[0])
			if err != nil {
				return nil, err
			}
			d := make(map[string]hostlang.Value, len(pairs))
			for _, p := range pairs {
				pl, err := asList("dict", p)
				if err != nil || len(pl) != 2 {
					return nil, errors.Format(errors.HostErrors, "dict: expected a [key, value] pair, got %v", p)
				}
				k, err := asStr("dict", pl[0])
				if err != nil {
					return nil, err
				}
				d[k] = pl[1]
			}
			return d, nil
		},
		"encode_string": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("encode_string", a)
			}
			s, err := asStr("encode_string", a[0])
			if err != nil {
				return nil, err
			}
			return strconv.Quote(s), nil
		},
		"equal": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 2 {
				return nil, badArgs("equal", a)
			}
			return Equal(a[0], a[1]), nil
		},
		"ftoa": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("ftoa", a)
			}
			f, ok := asFloat(a[0])
			if !ok {
				return nil, badArgs("ftoa", a)
			}
			return strconv.FormatFloat(f, 'g', -1, 64), nil
		},
		"ftoi": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("ftoi", a)
			}
			f, ok := asFloat(a[0])
			if !ok {
				return nil, badArgs("ftoi", a)
			}
			return int64(f), nil
		},
		"itof": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("itof", a)
			}
			n, err := asInt("itof", a[0])
			if err != nil {
				return nil, err
			}
			return float64(n), nil
		},
		"itoa": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("itoa", a)
			}
			n, err := asInt("itoa", a[0])
			if err != nil {
				return nil, err
			}
			return strconv.FormatInt(n, 10), nil
		},
		"itou": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("itou", a)
			}
			n, err := asInt("itou", a[0])
			if err != nil {
				return nil, err
			}
			return string(rune(n)), nil
		},
		"utoi": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("utoi", a)
			}
			s, err := asStr("utoi", a[0])
			if err != nil {
				return nil, err
			}
			rs := []rune(s)
			if len(rs) != 1 {
				return nil, errors.Format(errors.HostErrors, "utoi: expected a single code point, got %q", s)
			}
			return int64(rs[0]), nil
		},
		"xtoi": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("xtoi", a)
			}
			s, err := asStr("xtoi", a[0])
			if err != nil {
				return nil, err
			}
			n, err := strconv.ParseInt(s, 16, 64)
			if err != nil {
				return nil, errors.Format(errors.HostErrors, "xtoi: %v", err)
			}
			return n, nil
		},
		"xtou": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("xtou", a)
			}
			s, err := asStr("xtou", a[0])
			if err != nil {
				return nil, err
			}
			n, err := strconv.ParseInt(s, 16, 32)
			if err != nil {
				return nil, errors.Format(errors.HostErrors, "xtou: %v", err)
			}
			return string(rune(n)), nil
		},
		"get": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) < 2 || len(a) > 3 {
				return nil, badArgs("get", a)
			}
			d, err := asDict("get", a[0])
			if err != nil {
				return nil, err
			}
			k, err := asStr("get", a[1])
			if err != nil {
				return nil, err
			}
			if v, ok := d[k]; ok {
				return v, nil
			}
			if len(a) == 3 {
				return a[2], nil
			}
			return nil, errors.Format(errors.HostErrors, "get: no key %q", k)
		},
		"has": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 2 {
				return nil, badArgs("has", a)
			}
			d, err := asDict("has", a[0])
			if err != nil {
				return nil, err
			}
			k, err := asStr("has", a[1])
			if err != nil {
				return nil, err
			}
			_, ok := d[k]
			return ok, nil
		},
		"in": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 2 {
				return nil, badArgs("in", a)
			}
			xs, err := asList("in", a[1])
			if err != nil {
				return nil, err
			}
			for _, x := range xs {
				if Equal(a[0], x) {
					return true, nil
				}
			}
			return false, nil
		},
		"strin": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 2 {
				return nil, badArgs("strin", a)
			}
			needle, err := asStr("strin", a[0])
			if err != nil {
				return nil, err
			}
			hay, err := asStr("strin", a[1])
			if err != nil {
				return nil, err
			}
			return strings.Contains(hay, needle), nil
		},
		"is_atom": func (a []hostlang.Value) (hostlang.Value, error) { return isTypeFn(a, "is_atom") },
		"is_bool": func (a []hostlang.Value) (hostlang.Value, error) {
			return typeCheck(a, "is_bool", func (v hostlang.Value) bool { _, ok := v.(bool); return ok })
		},
		"is_dict": func (a []hostlang.Value) (hostlang.Value, error) {
			return typeCheck(a, "is_dict", func (v hostlang.Value) bool { _, ok := v.(map[string]hostlang.Value); return ok })
		},
		"is_float": func (a []hostlang.Value) (hostlang.Value, error) {
			return typeCheck(a, "is_float", func (v hostlang.Value) bool { _, ok := v.(float64); return ok })
		},
		"is_int": func (a []hostlang.Value) (hostlang.Value, error) {
			return typeCheck(a, "is_int", func (v hostlang.Value) bool { _, ok := v.(int64); return ok })
		},
		"is_list": func (a []hostlang.Value) (hostlang.Value, error) {
			return typeCheck(a, "is_list", func (v hostlang.Value) bool { _, ok := v.([]hostlang.Value); return ok })
		},
		"is_str": func (a []hostlang.Value) (hostlang.Value, error) {
			return typeCheck(a, "is_str", func (v hostlang.Value) bool { _, ok := v.(string); return ok })
		},
		"item": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 2 {
				return nil, badArgs("item", a)
			}
			xs, err := asList("item", a[0])
			if err != nil {
				return nil, err
			}
			i, err := asInt("item", a[1])
			if err != nil {
				return nil, err
			}
			if i < 0 || int(i) >= len(xs) {
				return nil, errors.Format(errors.HostErrors, "item: index %d out of range (len %d)", i, len(xs))
			}
			return xs[i], nil
		},
		"join": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 2 {
				return nil, badArgs("join", a)
			}
			sep, err := asStr("join", a[0])
			if err != nil {
				return nil, err
			}
			vs, err := asList("join", a[1])
			if err != nil {
				return nil, err
			}
			parts := make([]string, len(vs))
			for i, v := range vs {
				s, err := asStr("join", v)
				if err != nil {
					return nil, err
				}
				parts[i] = s
			}
			return strings.Join(parts, sep), nil
		},
		"keys": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("keys", a)
			}
			d, err := asDict("keys", a[0])
			if err != nil {
				return nil, err
			}
			ks := sortedKeys(d)
			res := make([]hostlang.Value, len(ks))
			for i, k := range ks {
				res[i] = k
			}
			return res, nil
		},
		"values": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("values", a)
			}
			d, err := asDict("values", a[0])
			if err != nil {
				return nil, err
			}
			ks := sortedKeys(d)
			res := make([]hostlang.Value, len(ks))
			for i, k := range ks {
				res[i] = d[k]
			}
			return res, nil
		},
		"pairs": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("pairs", a)
			}
			d, err := asDict("pairs", a[0])
			if err != nil {
				return nil, err
			}
			ks := sortedKeys(d)
			res := make([]hostlang.Value, len(ks))
			for i, k := range ks {
				res[i] = []hostlang.Value{k, d[k]}
			}
			return res, nil
		},
		"len": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("len", a)
			}
			switch v := a[0].(type) {
			case []hostlang.Value:
				return int64(len(v)), nil
			case map[string]hostlang.Value:
				return int64(len(v)), nil
			case string:
				return int64(len([]rune(v))), nil
			default:
				return nil, badArgs("len", a)
			}
		},
		"strlen": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("strlen", a)
			}
			s, err := asStr("strlen", a[0])
			if err != nil {
				return nil, err
			}
			return int64(len([]rune(s))), nil
		},
		"list": func (a []hostlang.Value) (hostlang.Value, error) {
			return append([]hostlang.Value{}, a...), nil
		},
		"map": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 2 {
				return nil, badArgs("map", a)
			}
			fn, err := asFunc("map", a[0])
			if err != nil {
				return nil, err
			}
			xs, err := asList("map", a[1])
			if err != nil {
				return nil, err
			}
			res := make([]hostlang.Value, len(xs))
			for i, x := range xs {
				v, err := fn([]hostlang.Value{x})
				if err != nil {
					return nil, err
				}
				res[i] = v
			}
			return res, nil
		},
		"map_items": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 2 {
				return nil, badArgs("map_items", a)
			}
			fn, err := asFunc("map_items", a[0])
			if err != nil {
				return nil, err
			}
			d, err := asDict("map_items", a[1])
			if err != nil {
				return nil, err
			}
			ks := sortedKeys(d)
			res := make([]hostlang.Value, len(ks))
			for i, k := range ks {
				v, err := fn([]hostlang.Value{k, d[k]})
				if err != nil {
					return nil, err
				}
				res[i] = v
			}
			return res, nil
		},
		"replace": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 3 {
				return nil, badArgs("replace", a)
			}
			s, err := asStr("replace", a[0])
			if err != nil {
				return nil, err
			}
			old, err := asStr("replace", a[1])
			if err != nil {
				return nil, err
			}
			n, err := asStr("replace", a[2])
			if err != nil {
				return nil, err
			}
			return strings.ReplaceAll(s, old, n), nil
		},
		"slice": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 3 {
				return nil, badArgs("slice", a)
			}
			from, err := asInt("slice", a[1])
			if err != nil {
				return nil, err
			}
			to, err := asInt("slice", a[2])
			if err != nil {
				return nil, err
			}
			switch v := a[0].(type) {
			case []hostlang.Value:
				if from < 0 || to > int64(len(v)) || from > to {
					return nil, errors.Format(errors.HostErrors, "slice: range [%d,%d) out of bounds (len %d)", from, to, len(v))
				}
				return append([]hostlang.Value{}, v[from:to]...), nil
			case string:
				rs := []rune(v)
				if from < 0 || to > int64(len(rs)) || from > to {
					return nil, errors.Format(errors.HostErrors, "slice: range [%d,%d) out of bounds (len %d)", from, to, len(rs))
				}
				return string(rs[from:to]), nil
			default:
				return nil, badArgs("slice", a)
			}
		},
		"substr": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 3 {
				return nil, badArgs("substr", a)
			}
			s, err := asStr("substr", a[0])
			if err != nil {
				return nil, err
			}
			from, err := asInt("substr", a[1])
			if err != nil {
				return nil, err
			}
			to, err := asInt("substr", a[2])
			if err != nil {
				return nil, err
			}
			rs := []rune(s)
			if from < 0 || to > int64(len(rs)) || from > to {
				return nil, errors.Format(errors.HostErrors, "substr: range [%d,%d) out of bounds (len %d)", from, to, len(rs))
			}
			return string(rs[from:to]), nil
		},
		"sort": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("sort", a)
			}
			xs, err := asList("sort", a[0])
			if err != nil {
				return nil, err
			}
			res := append([]hostlang.Value{}, xs...)
			var sortErr error
			sort.SliceStable(res, func (i, j int) bool {
				less, err := lessValue(res[i], res[j])
				if err != nil {
					sortErr = err
				}
				return less
			})
			if sortErr != nil {
				return nil, sortErr
			}
			return res, nil
		},
		"split": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 2 {
				return nil, badArgs("split", a)
			}
			s, err := asStr("split", a[0])
			if err != nil {
				return nil, err
			}
			sep, err := asStr("split", a[1])
			if err != nil {
				return nil, err
			}
			parts := strings.Split(s, sep)
			res := make([]hostlang.Value, len(parts))
			for i, p := range parts {
				res[i] = p
			}
			return res, nil
		},
		"strcat": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 2 {
				return nil, badArgs("strcat", a)
			}
			s1, err := asStr("strcat", a[0])
			if err != nil {
				return nil, err
			}
			s2, err := asStr("strcat", a[1])
			if err != nil {
				return nil, err
			}
			return s1 + s2, nil
		},
		"str2td": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("str2td", a)
			}
			s, err := asStr("str2td", a[0])
			if err != nil {
				return nil, err
			}
			d, err := time.ParseDuration(s)
			if err != nil {
				return nil, errors.Format(errors.HostErrors, "str2td: %v", err)
			}
			return int64(d), nil
		},
		"td2str": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("td2str", a)
			}
			n, err := asInt("td2str", a[0])
			if err != nil {
				return nil, err
			}
			return time.Duration(n).String(), nil
		},
		"throw": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("throw", a)
			}
			msg, err := asStr("throw", a[0])
			if err != nil {
				return nil, err
			}
			return nil, errors.Format(errors.HostErrors, "%s", msg)
		},
		"ucategory": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("ucategory", a)
			}
			s, err := asStr("ucategory", a[0])
			if err != nil {
				return nil, err
			}
			rs := []rune(s)
			if len(rs) != 1 {
				return nil, errors.Format(errors.HostErrors, "ucategory: expected a single code point, got %q", s)
			}
			return unicodeCategory(rs[0]), nil
		},
		"ulookup": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("ulookup", a)
			}
			name, err := asStr("ulookup", a[0])
			if err != nil {
				return nil, err
			}
			r, ok := lookupByName(name)
			if !ok {
				return nil, errors.Format(errors.HostErrors, "ulookup: unknown character name %q", name)
			}
			return string(r), nil
		},
		"uname": func (a []hostlang.Value) (hostlang.Value, error) {
			if len(a) != 1 {
				return nil, badArgs("uname", a)
			}
			s, err := asStr("uname", a[0])
			if err != nil {
				return nil, err
			}
			rs := []rune(s)
			if len(rs) != 1 {
				return nil, errors.Format(errors.HostErrors, "uname: expected a single code point, got %q", s)
			}
			name, ok := nameByRune(rs[0])
			if !ok {
				return nil, errors.Format(errors.HostErrors, "uname: no known name for U+%04X", rs[0])
			}
			return name, nil
		},
	}
}

func typeCheck (a []hostlang.Value, name string, pred func (hostlang.Value) bool) (hostlang.Value, error) {
	if len(a) != 1 {
		return nil, badArgs(name, a)
	}
	return pred(a[0]), nil
}

func isTypeFn (a []hostlang.Value, name string) (hostlang.Value, error) {
	if len(a) != 1 {
		return nil, badArgs(name, a)
	}
	switch a[0].(type) {
	case []hostlang.Value, map[string]hostlang.Value:
		return false, nil
	default:
		return true, nil
	}
}

func lessValue (a, b hostlang.Value) (bool, error) {
	if fa, ok := asFloat(a); ok {
		fb, ok := asFloat(b)
		if !ok {
			return false, errors.Format(errors.HostErrors, "sort: cannot compare %T and %T", a, b)
		}
		return fa < fb, nil
	}
	sa, ok := a.(string)
	if ok {
		sb, ok := b.(string)
		if !ok {
			return false, errors.Format(errors.HostErrors, "sort: cannot compare %T and %T", a, b)
		}
		return sa < sb, nil
	}
	return false, errors.Format(errors.HostErrors, "sort: cannot compare values of type %T", a)
}

// dedent strips up to minIndent columns of leading whitespace from every
// line after the first (the first line's indentation was already
// consumed by whatever matched before the run this string came from).
// Tabs count as one column each, matching the reference implementation's
// documented incomplete tab handling rather than expanding them to a
// stop width.
func dedent (s string, minIndent int64) string {
	if minIndent <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = trimLeadingCols(lines[i], int(minIndent))
	}
	return strings.Join(lines, "\n")
}

func trimLeadingCols (line string, n int) string {
	rs := []rune(line)
	i := 0
	for i < n && i < len(rs) && (rs[i] == ' ' || rs[i] == '\t') {
		i++
	}
	return string(rs[i:])
}

func unicodeCategory (r rune) string {
	for _, name := range unicodeCategoryOrder {
		if unicode.Is(unicode.Categories[name], r) {
			return name
		}
	}
	return "Cn"
}

var unicodeCategoryOrder = []string{
	"Lu", "Ll", "Lt", "Lm", "Lo",
	"Mn", "Mc", "Me",
	"Nd", "Nl", "No",
	"Pc", "Pd", "Ps", "Pe", "Pi", "Pf", "Po",
	"Sm", "Sc", "Sk", "So",
	"Zs", "Zl", "Zp",
	"Cc", "Cf", "Co", "Cs",
}

// lookupByName and nameByRune cover ASCII, which is the only range a
// grammar-declared %externs default can rely on without a full Unicode
// Character Database (not present anywhere in the retrieval pack).
func lookupByName (name string) (rune, bool) {
	for r := rune(0x20); r < 0x7f; r++ {
		if asciiName(r) == name {
			return r, true
		}
	}
	return 0, false
}

func nameByRune (r rune) (string, bool) {
	if r < 0x20 || r >= 0x7f {
		return "", false
	}
	return asciiName(r), true
}

func asciiName (r rune) string {
	return fmt.Sprintf("ASCII CHARACTER %02X", r)
}
