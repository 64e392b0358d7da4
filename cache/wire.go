package cache

import (
	"fmt"

	"github.com/ava12/floyd/analyzer"
	"github.com/ava12/floyd/ast"
)

// wireValue is the cbor-safe rendering of ast.Node.V. The grammar
// parser only ever stores one of these four shapes into V; anything
// else reaching toWireValue is a bug in whatever produced the Node,
// not a grammar the cache should try to paper over.
type wireValue struct {
	Str     *string      `cbor:"1,keyasint,omitempty"`
	Pair    *ast.Pair    `cbor:"2,keyasint,omitempty"`
	CharSet *ast.CharSet `cbor:"3,keyasint,omitempty"`
}

func toWireValue (v any) (wireValue, error) {
	switch x := v.(type) {
	case nil:
		return wireValue{}, nil
	case string:
		return wireValue{Str: &x}, nil
	case ast.Pair:
		return wireValue{Pair: &x}, nil
	case ast.CharSet:
		return wireValue{CharSet: &x}, nil
	default:
		return wireValue{}, fmt.Errorf("node value of type %T has no wire encoding", v)
	}
}

func fromWireValue (w wireValue) any {
	switch {
	case w.Str != nil:
		return *w.Str
	case w.Pair != nil:
		return *w.Pair
	case w.CharSet != nil:
		return *w.CharSet
	default:
		return nil
	}
}

// wireAttr is the cbor-safe rendering of one ast.Node.Attrs value.
// Every analysis pass across the whole pipeline only ever sets a
// bool, a string, or a []string attribute (ident_kind, lr_alt,
// can_fail, names, ops, ...); that closed set is all this needs to
// round-trip.
type wireAttr struct {
	Bool   *bool    `cbor:"1,keyasint,omitempty"`
	Str    *string  `cbor:"2,keyasint,omitempty"`
	StrArr []string `cbor:"3,keyasint,omitempty"`
}

func toWireAttr (v any) (wireAttr, error) {
	switch x := v.(type) {
	case bool:
		return wireAttr{Bool: &x}, nil
	case string:
		return wireAttr{Str: &x}, nil
	case []string:
		return wireAttr{StrArr: x}, nil
	default:
		return wireAttr{}, fmt.Errorf("node attribute of type %T has no wire encoding", v)
	}
}

func fromWireAttr (w wireAttr) any {
	switch {
	case w.Bool != nil:
		return *w.Bool
	case w.Str != nil:
		return *w.Str
	case w.StrArr != nil:
		return w.StrArr
	default:
		return nil
	}
}

// wireNode mirrors ast.Node field for field, with V and Attrs routed
// through the tagged unions above instead of bare `any`, which
// fxamacker/cbor cannot decode back into its original concrete type
// on its own.
type wireNode struct {
	Kind  ast.Kind
	V     wireValue
	Ch    []*wireNode
	Attrs map[string]wireAttr
	Span  ast.Span
}

func toWireNode (n *ast.Node) (*wireNode, error) {
	if n == nil {
		return nil, nil
	}
	v, err := toWireValue(n.V)
	if err != nil {
		return nil, err
	}
	w := &wireNode{Kind: n.Kind, V: v, Span: n.Span}
	if len(n.Ch) > 0 {
		w.Ch = make([]*wireNode, len(n.Ch))
		for i, c := range n.Ch {
			cw, err := toWireNode(c)
			if err != nil {
				return nil, err
			}
			w.Ch[i] = cw
		}
	}
	if len(n.Attrs) > 0 {
		w.Attrs = make(map[string]wireAttr, len(n.Attrs))
		for name, av := range n.Attrs {
			wa, err := toWireAttr(av)
			if err != nil {
				return nil, err
			}
			w.Attrs[name] = wa
		}
	}
	return w, nil
}

func fromWireNode (w *wireNode) *ast.Node {
	if w == nil {
		return nil
	}
	n := &ast.Node{Kind: w.Kind, V: fromWireValue(w.V), Span: w.Span, Attrs: map[string]any{}}
	for name, wa := range w.Attrs {
		n.Attrs[name] = fromWireAttr(wa)
	}
	n.Ch = make([]*ast.Node, len(w.Ch))
	for i, c := range w.Ch {
		n.Ch[i] = fromWireNode(c)
	}
	return n
}

// wireExternInfo mirrors analyzer.ExternInfo, whose Default field is
// itself an *ast.Node.
type wireExternInfo struct {
	Kind    string
	Default *wireNode
}

// wireGrammar mirrors analyzer.Grammar. Operators, Prec, Assoc and the
// plain bool/map fields need no wrapping — OperatorTable and OpEntry
// hold nothing but concrete, already cbor-safe fields — only the parts
// built from *ast.Node do.
type wireGrammar struct {
	Root         *wireNode
	Rules        map[string]*wireNode
	Order        []string
	StartingRule string
	Tokens       map[string]bool

	Externs map[string]wireExternInfo

	Whitespace *wireNode
	Comment    *wireNode

	Prec  map[string]int
	Assoc map[string]string

	Operators    map[string]*analyzer.OperatorTable
	LeftrecRules map[string]bool

	NeededBuiltinFunctions map[string]bool

	ReNeeded          bool
	SeedsNeeded       bool
	LeftrecNeeded     bool
	LookupNeeded      bool
	UnicodedataNeeded bool
}

func toWireGrammar (g *analyzer.Grammar) (*wireGrammar, error) {
	w := &wireGrammar{
		Order:                  g.Order,
		StartingRule:           g.StartingRule,
		Tokens:                 g.Tokens,
		Prec:                   g.Prec,
		Assoc:                  g.Assoc,
		Operators:              g.Operators,
		LeftrecRules:           g.LeftrecRules,
		NeededBuiltinFunctions: g.NeededBuiltinFunctions,
		ReNeeded:               g.ReNeeded,
		SeedsNeeded:            g.SeedsNeeded,
		LeftrecNeeded:          g.LeftrecNeeded,
		LookupNeeded:           g.LookupNeeded,
		UnicodedataNeeded:      g.UnicodedataNeeded,
	}

	var err error
	if w.Root, err = toWireNode(g.Root); err != nil {
		return nil, err
	}
	if w.Whitespace, err = toWireNode(g.Whitespace); err != nil {
		return nil, err
	}
	if w.Comment, err = toWireNode(g.Comment); err != nil {
		return nil, err
	}

	w.Rules = make(map[string]*wireNode, len(g.Rules))
	for name, n := range g.Rules {
		wn, err := toWireNode(n)
		if err != nil {
			return nil, err
		}
		w.Rules[name] = wn
	}

	w.Externs = make(map[string]wireExternInfo, len(g.Externs))
	for name, info := range g.Externs {
		def, err := toWireNode(info.Default)
		if err != nil {
			return nil, err
		}
		w.Externs[name] = wireExternInfo{Kind: info.Kind, Default: def}
	}

	return w, nil
}

func (w *wireGrammar) toGrammar () *analyzer.Grammar {
	g := &analyzer.Grammar{
		Root:                   fromWireNode(w.Root),
		Order:                  w.Order,
		StartingRule:           w.StartingRule,
		Tokens:                 w.Tokens,
		Whitespace:             fromWireNode(w.Whitespace),
		Comment:                fromWireNode(w.Comment),
		Prec:                   w.Prec,
		Assoc:                  w.Assoc,
		Operators:              w.Operators,
		LeftrecRules:           w.LeftrecRules,
		NeededBuiltinFunctions: w.NeededBuiltinFunctions,
		ReNeeded:               w.ReNeeded,
		SeedsNeeded:            w.SeedsNeeded,
		LeftrecNeeded:          w.LeftrecNeeded,
		LookupNeeded:           w.LookupNeeded,
		UnicodedataNeeded:      w.UnicodedataNeeded,
	}

	g.Rules = make(map[string]*ast.Node, len(w.Rules))
	for name, n := range w.Rules {
		g.Rules[name] = fromWireNode(n)
	}

	g.Externs = make(map[string]*analyzer.ExternInfo, len(w.Externs))
	for name, info := range w.Externs {
		g.Externs[name] = &analyzer.ExternInfo{Kind: info.Kind, Default: fromWireNode(info.Default)}
	}

	return g
}
