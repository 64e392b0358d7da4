// Package interp is the packrat PEG interpreter: given a Grammar
// analyzer.Analyze already decorated with scopes, left-recursion and
// operator tables, and filler, it runs a rule's body against an input
// Source directly, without ever generating and compiling Go source for
// it.
package interp

import (
	"github.com/ava12/floyd/analyzer"
	"github.com/ava12/floyd/ast"
	"github.com/ava12/floyd/hostlang"
	"github.com/ava12/floyd/source"
)

// Program is a compiled, ready-to-run grammar: the decorated Grammar
// plus the extern bindings and builtin catalogs a caller wired up for
// it. One Program can run any number of independent Parse calls
// concurrently — Parse builds a fresh State per call.
type Program struct {
	Grammar   *analyzer.Grammar
	RuleIndex map[string]int

	Builtins        map[string]hostlang.Func
	MachineBuiltins map[string]hostlang.PFunc
	Externs         map[string]hostlang.Extern

	// filler is `(whitespace | comment)*`, built once the same way
	// analyzer's installFiller builds its own copy. installFiller
	// already splices this ahead of every literal-matching leaf inside
	// a non-token rule; it never touches a bare rule application, so a
	// syntactic rule's call into a %tokens rule would otherwise see
	// none of the filler a hand-written lexer's caller takes for
	// granted. applyRule consumes this copy itself, once, at the top of
	// every outermost token-rule call.
	filler *ast.Node

	maxSteps int
	tokenize bool
}

// Option configures a Program at construction time.
type Option func (*Program)

// WithMaxSteps aborts a parse once it has run more than n node
// visits, guarding against a grammar (or a caller-supplied extern)
// that never terminates. Zero, the default, means unlimited.
func WithMaxSteps (n int) Option {
	return func (p *Program) { p.maxSteps = n }
}

// WithTokenStream makes every Parse call additionally record the
// input spans matched by %tokens-declared rules, retrievable from
// Result.Tokens.
func WithTokenStream () Option {
	return func (p *Program) { p.tokenize = true }
}

// NewProgram compiles g into a runnable Program. builtins and
// machineBuiltins are typically builtins.New() and
// builtins.NewMachineBuiltins(); externs binds the names g.Externs
// declares to the caller's actual values and functions.
func NewProgram (g *analyzer.Grammar, builtins map[string]hostlang.Func, machineBuiltins map[string]hostlang.PFunc, externs map[string]hostlang.Extern, opts ...Option) *Program {
	ruleIndex := make(map[string]int, len(g.Order))
	for i, name := range g.Order {
		ruleIndex[name] = i
	}
	p := &Program{
		Grammar:         g,
		RuleIndex:       ruleIndex,
		Builtins:        builtins,
		MachineBuiltins: machineBuiltins,
		Externs:         externs,
		filler:          buildFiller(g),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// buildFiller mirrors installFiller's own `(whitespace | comment)*`
// construction, giving applyRule a filler node it can match at a token
// rule's call site the way installFiller's leaf-wrapping already does
// inside the rest of the grammar.
func buildFiller (g *analyzer.Grammar) *ast.Node {
	if g.Whitespace == nil && g.Comment == nil {
		return nil
	}
	var alt []*ast.Node
	if g.Whitespace != nil {
		alt = append(alt, g.Whitespace)
	}
	if g.Comment != nil {
		alt = append(alt, g.Comment)
	}
	var inner *ast.Node
	if len(alt) == 1 {
		inner = alt[0]
	} else {
		inner = ast.New(ast.KindChoice, nil, alt...)
	}
	return ast.New(ast.KindStar, nil, inner)
}

// Result is the outcome of a Parse call. On failure Value is nil and
// Pos is the position of whichever failure the caller's returned error
// describes — the furthest failed match attempt for a no-match error,
// the first unconsumed code point for trailing input, or wherever
// evaluation was when a host error aborted the parse.
type Result struct {
	Value  hostlang.Value
	Pos    int
	Tokens []Token
}

// Parse runs a grammar rule against src end to end: the rule must
// match and consume every code point, or the parse fails with the
// diagnostic pointing at whichever position the furthest failed match
// attempt reached. start overrides which rule to enter; omitted, it
// defaults to the grammar's own starting rule.
func Parse (p *Program, src *source.Source, start ...string) (*Result, error) {
	rule := p.Grammar.StartingRule
	if len(start) > 0 && start[0] != "" {
		rule = start[0]
	}
	s := newState(p, src)
	s.applyRule(rule)

	if s.hostErr != nil {
		return &Result{Pos: s.pos}, s.hostErr
	}
	if s.failed {
		return &Result{Pos: s.errPos}, noMatchError(s.posAt(s.errPos), s.errRule)
	}
	if s.pos < src.Len() {
		return &Result{Pos: s.pos}, trailingInputError(s.posAt(s.pos))
	}

	return &Result{Value: s.val, Pos: s.pos, Tokens: s.tokens}, nil
}
