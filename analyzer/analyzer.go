// Package analyzer runs the fixed sequence of passes that turns a raw
// grammar AST (as returned by grammarparser) into a decorated tree plus
// grammar metadata the interpreter can execute directly: pragma
// collection, identifier resolution, extern validation, left-recursion
// detection, operator rewriting, filler installation, label assignment,
// can-fail propagation, host-expression type checking, and feature-flag
// computation.
//
// Pass order is load-bearing: later passes assume the tree shape and
// node attributes earlier passes leave behind (e.g. operator rewriting
// assumes identifier resolution already ran; filler installation counts
// on left-recursion/operator rewriting having settled which nodes are
// actual grammar elements).
package analyzer

import (
	"github.com/ava12/floyd/ast"
	"github.com/ava12/floyd/hostlang"
	"github.com/ava12/floyd/source"
)

// ExternInfo describes one caller-supplied binding declared by an
// %externs pragma.
type ExternInfo struct {
	Kind    string // "const", "func", or "pfunc"
	Default *ast.Node // for kind "const", the default-value host expression
}

// OpEntry is one operator literal within a rewritten operator rule:
// its precedence level, associativity, and the index of the recursive
// alternative it belongs to, counted in the rule's original alternative
// list (the children of the operator node's Ch[1] choice, or Ch[1]
// itself when there is only one such alternative).
type OpEntry struct {
	Literal  string
	Prec     int
	Right    bool
	AltIndex int
}

// OperatorTable is the per-rule precedence-climbing table built by
// operator rewriting: precedence levels in ascending order, and for
// each level the operators declared at it, in declaration order (ties
// within a level are broken by that order).
type OperatorTable struct {
	Precs  []int
	Levels map[int][]OpEntry
}

// Grammar is the decorated result of analysis: the rule set plus every
// piece of metadata the interpreter needs to execute it.
type Grammar struct {
	Root         *ast.Node
	Rules        map[string]*ast.Node
	Order        []string
	StartingRule string
	Tokens       map[string]bool

	Externs map[string]*ExternInfo

	Whitespace *ast.Node
	Comment    *ast.Node

	Prec  map[string]int
	Assoc map[string]string

	Operators    map[string]*OperatorTable
	LeftrecRules map[string]bool

	NeededBuiltinFunctions map[string]bool

	ReNeeded          bool
	SeedsNeeded       bool
	LeftrecNeeded     bool
	LookupNeeded      bool
	UnicodedataNeeded bool
}

func newGrammar (root *ast.Node) *Grammar {
	return &Grammar{
		Root:                   root,
		Rules:                  map[string]*ast.Node{},
		Tokens:                 map[string]bool{},
		Externs:                map[string]*ExternInfo{},
		Prec:                   map[string]int{},
		Assoc:                  map[string]string{},
		Operators:              map[string]*OperatorTable{},
		LeftrecRules:           map[string]bool{},
		NeededBuiltinFunctions: map[string]bool{},
	}
}

// Options configures Analyze with the builtin catalog a grammar may
// call from its host expressions, used by identifier resolution (pass
// 2) and type checking (pass 9). Callers pass the same maps they later
// wire into hostlang.Env / hostlang.TypeEnv when interpreting.
type Options struct {
	BuiltinNames map[string]bool
	MachineNames map[string]bool
	BuiltinTypes map[string]hostlang.Type
}

// analysis carries the state one Analyze call threads through every
// pass: the grammar being built, the source text (for position-tagged
// diagnostics), and the caller's builtin
// catalog.
type analysis struct {
	g    *Grammar
	src  *source.Source
	opts Options
}

// Analyze runs all ten passes over root (as parsed by grammarparser)
// and returns the decorated Grammar, or the first error encountered.
// src is the grammar source root was parsed from, used only to turn
// node spans into line/column positions for diagnostics.
func Analyze (root *ast.Node, src *source.Source, opts Options) (*Grammar, error) {
	a := &analysis{g: newGrammar(root), src: src, opts: opts}

	if err := a.collectPragmas(); err != nil {
		return nil, err
	}
	if err := a.resolveIdents(); err != nil {
		return nil, err
	}
	if err := a.validateExterns(); err != nil {
		return nil, err
	}
	if err := a.detectLeftRecursion(); err != nil {
		return nil, err
	}
	a.rewriteOperators()
	a.installFiller()
	a.assignLabels()
	a.computeCanFail()
	if err := a.checkTypes(); err != nil {
		return nil, err
	}
	a.computeFeatureFlags()

	return a.g, nil
}

func (a *analysis) posOf (n *ast.Node) source.Pos {
	return source.At(a.src, n.Span.Start)
}
