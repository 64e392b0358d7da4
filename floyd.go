/*
Package floyd is a PEG parser-generator runtime: grammars written in
its own EBNF-like surface syntax are parsed, semantically analyzed,
and interpreted directly against input text, with no intermediate Go
source ever generated or compiled.

Typical usage is:

  1. Write a grammar description in floyd's grammar language.
  2. Compile it with Compile, optionally backed by a Cache so a
     byte-identical grammar source is never re-analyzed.
  3. Call the returned Program's Parse method against any number of
     input texts, supplying externs to bind the grammar's declared
     hooks.

Parse is a one-shot convenience that combines both steps for a grammar
only ever used once; Compile followed by repeated Program.Parse calls
is the right shape for a grammar reused across many inputs.
*/
package floyd

import (
	"github.com/ava12/floyd/analyzer"
	"github.com/ava12/floyd/builtins"
	"github.com/ava12/floyd/cache"
	"github.com/ava12/floyd/datafile"
	fderrors "github.com/ava12/floyd/errors"
	"github.com/ava12/floyd/grammarparser"
	"github.com/ava12/floyd/hostlang"
	"github.com/ava12/floyd/interp"
	"github.com/ava12/floyd/source"
)

// Externs binds the names a grammar's %externs pragma declares to
// caller-supplied values. A hostlang.Func (or a plain function of the
// same signature) becomes a "func" extern; a hostlang.PFunc becomes a
// "pfunc" extern; any other value becomes a "const" extern.
type Externs map[string]any

func (e Externs) toHostlang () map[string]hostlang.Extern {
	out := make(map[string]hostlang.Extern, len(e))
	for name, v := range e {
		switch fn := v.(type) {
		case hostlang.Func:
			out[name] = hostlang.Extern{Kind: hostlang.ExternFunc, Func: fn}
		case hostlang.PFunc:
			out[name] = hostlang.Extern{Kind: hostlang.ExternPFunc, PFunc: fn}
		case func ([]hostlang.Value) (hostlang.Value, error):
			out[name] = hostlang.Extern{Kind: hostlang.ExternFunc, Func: fn}
		default:
			out[name] = hostlang.Extern{Kind: hostlang.ExternConst, Const: v}
		}
	}
	return out
}

func mergeExterns (defaults, overrides map[string]hostlang.Extern) map[string]hostlang.Extern {
	if len(defaults) == 0 {
		return overrides
	}
	out := make(map[string]hostlang.Extern, len(defaults)+len(overrides))
	for name, v := range defaults {
		out[name] = v
	}
	for name, v := range overrides {
		out[name] = v
	}
	return out
}

// Result is the outcome of a Parse call: on success Err is nil, Val
// holds the starting rule's action-chain value, and Pos is the final
// input offset. On failure Val is nil, Err holds the formatted
// diagnostic, and Pos is the position the furthest failed match
// attempt reached.
type Result struct {
	Val any
	Err error
	Pos int
}

// Option configures a Compile call.
type Option func (*compileOptions)

type compileOptions struct {
	cache    *cache.Cache
	datafile string
	maxSteps int
}

// WithCache backs Compile with a compiled-grammar cache: a grammar
// source byte-identical to one already cached skips grammarparser and
// analyzer entirely.
func WithCache (c *cache.Cache) Option {
	return func (o *compileOptions) { o.cache = c }
}

// WithDatafile loads path (a YAML document, see the datafile package)
// as default extern bindings, merged under whatever Externs a
// particular Parse call supplies — a datafile entry a call's own
// Externs also names is overridden, never the other way around.
func WithDatafile (path string) Option {
	return func (o *compileOptions) { o.datafile = path }
}

// WithMaxSteps aborts any parse run against the compiled Program once
// it has taken more than n node-visit steps, guarding against a
// grammar (or a caller extern) that never terminates. Zero, the
// default, means unlimited.
func WithMaxSteps (n int) Option {
	return func (o *compileOptions) { o.maxSteps = n }
}

// Program is a compiled, reusable grammar: the result of analyzing a
// grammar source once. One Program can run any number of independent
// Parse calls, including concurrently — the analyzed grammar is
// read-only, and each Parse call builds its own interpreter state.
type Program struct {
	grammar  *analyzer.Grammar
	opts     compileOptions
	defaults map[string]hostlang.Extern
}

// Compile parses and analyzes grammarSource, returning a Program ready
// to run input text through it. A grammar or analysis error is
// returned unchanged — both map to *errors.Error values in the
// GrammarErrors/AnalysisErrors ranges.
func Compile (grammarSource string, opts ...Option) (*Program, error) {
	var co compileOptions
	for _, opt := range opts {
		opt(&co)
	}

	if co.cache != nil {
		key := cache.NewKey([]byte(grammarSource))
		g, err := co.cache.Get(key)
		if err == nil {
			return newProgram(g, co)
		}
		if err != cache.ErrMiss {
			return nil, err
		}
		g, err = analyze(grammarSource)
		if err != nil {
			return nil, err
		}
		if err := co.cache.Put(key, g); err != nil {
			return nil, err
		}
		return newProgram(g, co)
	}

	g, err := analyze(grammarSource)
	if err != nil {
		return nil, err
	}
	return newProgram(g, co)
}

func analyze (grammarSource string) (*analyzer.Grammar, error) {
	src := source.New("<grammar>", []byte(grammarSource))
	root, err := grammarparser.Parse(src)
	if err != nil {
		return nil, err
	}
	return analyzer.Analyze(root, src, analyzer.Options{
		BuiltinNames: builtinNames(),
		MachineNames: machineNames(),
	})
}

func builtinNames () map[string]bool {
	names := make(map[string]bool)
	for name := range builtins.New() {
		names[name] = true
	}
	return names
}

func machineNames () map[string]bool {
	names := make(map[string]bool)
	for name := range builtins.NewMachineBuiltins() {
		names[name] = true
	}
	return names
}

func newProgram (g *analyzer.Grammar, co compileOptions) (*Program, error) {
	p := &Program{grammar: g, opts: co}
	if co.datafile != "" {
		values, err := datafile.Load(co.datafile)
		if err != nil {
			return nil, err
		}
		p.defaults = datafile.ToExterns(values)
	}
	return p, nil
}

// Parse runs text (identified as path in diagnostics) through p's
// grammar, starting from its declared starting rule. externs binds
// the grammar's %externs hooks; a binding also present in a
// WithDatafile default overrides that default.
func (p *Program) Parse (text, path string, externs Externs) (Result, error) {
	return p.parseFrom(text, path, externs, "")
}

// ParseFrom runs text through rule instead of p's grammar's own
// starting rule. rule must be one g.Rules declares.
func (p *Program) ParseFrom (text, path string, externs Externs, rule string) (Result, error) {
	return p.parseFrom(text, path, externs, rule)
}

func (p *Program) parseFrom (text, path string, externs Externs, rule string) (result Result, err error) {
	defer func () {
		if r := recover(); r != nil {
			err = fderrors.Format(fderrors.HostErrors, "internal error: %v", r)
			result = Result{Err: err}
		}
	}()

	if rule != "" {
		if _, ok := p.grammar.Rules[rule]; !ok {
			err = fderrors.Format(fderrors.AnalysisErrors, "rule %q is never defined", rule)
			return Result{Err: err}, err
		}
	}

	merged := mergeExterns(p.defaults, externs.toHostlang())

	ip := interp.NewProgram(p.grammar, builtins.New(), builtins.NewMachineBuiltins(), merged,
		interpOptions(p.opts)...)

	name := path
	if name == "" {
		name = "<input>"
	}
	res, perr := interp.Parse(ip, source.New(name, []byte(text)), rule)
	if perr != nil {
		return Result{Err: perr, Pos: res.Pos}, perr
	}

	return Result{Val: res.Value, Pos: res.Pos}, nil
}

func interpOptions (co compileOptions) []interp.Option {
	var opts []interp.Option
	if co.maxSteps > 0 {
		opts = append(opts, interp.WithMaxSteps(co.maxSteps))
	}
	return opts
}

// Parse is a one-shot convenience combining Compile and Program.Parse:
// it compiles grammarSource fresh on every call, with no caching, runs
// text through it starting from start (the grammar's own starting
// rule if start is ""), and returns the result. A caller parsing the
// same grammar more than once should call Compile directly and reuse
// the returned Program instead.
func Parse (grammarSource, text, path string, externs Externs, start string) (Result, error) {
	p, err := Compile(grammarSource)
	if err != nil {
		return Result{Err: err}, err
	}
	return p.parseFrom(text, path, externs, start)
}
