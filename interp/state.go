package interp

import (
	"regexp"

	"github.com/ava12/floyd/hostlang"
	"github.com/ava12/floyd/internal/ints"
	"github.com/ava12/floyd/source"
)

// ruleKey identifies one (rule, input position) pair, the granularity
// packrat memoization and left-recursion seeding both key on.
type ruleKey struct {
	rule int
	pos  int
}

// cacheEntry is a saved parse outcome: the value produced, whether the
// attempt failed, and the position it left the input at.
type cacheEntry struct {
	val    hostlang.Value
	failed bool
	pos    int
}

// operatorRuntime is the precedence-climbing state for one operator
// rule, shared across every nested invocation within a single parse —
// built once per rule name for the run's whole lifetime rather than
// rebuilt on each call.
type operatorRuntime struct {
	depth int
	prec  int
}

// Token is one captured span of a %tokens-declared rule, produced only
// when a Program is run with WithTokenStream.
type Token struct {
	Rule  string
	Start int
	End   int
	Text  string
}

// State is the running interpretation of one input against one
// compiled Program: the current position, the packrat memo table, the
// left-recursion seed table, and the scope/extern/builtin environment
// host expressions evaluate against. It implements hostlang.Machine so
// that pos(), colno(), and pfunc externs can reach back into the
// running parse.
type State struct {
	prog *Program
	src  *source.Source

	pos    int
	val    hostlang.Value
	failed bool

	// hostErr aborts the whole parse once set: a host expression raised
	// an error, which is a defect in the grammar's actions rather than
	// an ordinary parse failure a Choice should recover from.
	hostErr error

	// errPos/errRule record the furthest position any match attempt
	// failed at, and which rule was active there, for the final "no
	// match" diagnostic when the whole parse fails.
	errPos  int
	errRule string

	cache   map[ruleKey]cacheEntry
	seeds   map[ruleKey]cacheEntry
	blocked *ints.Set

	opRuntimes map[string]*operatorRuntime

	scopes *hostlang.Scopes
	env    *hostlang.Env

	ruleStack []string

	regexps map[string]*regexp.Regexp

	steps int

	tokenize bool
	inToken  bool
	tokens   []Token
}

func newState (p *Program, src *source.Source) *State {
	scopes := hostlang.NewScopes()
	s := &State{
		prog:       p,
		src:        src,
		cache:      map[ruleKey]cacheEntry{},
		seeds:      map[ruleKey]cacheEntry{},
		blocked:    ints.NewSet(),
		opRuntimes: map[string]*operatorRuntime{},
		scopes:     scopes,
		regexps:    map[string]*regexp.Regexp{},
		tokenize:   p.tokenize,
	}
	s.env = &hostlang.Env{
		Scopes:          scopes,
		Externs:         p.Externs,
		Builtins:        p.Builtins,
		MachineBuiltins: p.MachineBuiltins,
		Machine:         s,
	}
	return s
}

// Pos implements hostlang.Machine.
func (s *State) Pos () int { return s.pos }

// ColNo implements hostlang.Machine.
func (s *State) ColNo () int {
	_, col := s.src.LineCol(s.pos)
	return col
}

// RuleName implements hostlang.Machine.
func (s *State) RuleName () string {
	if len(s.ruleStack) == 0 {
		return ""
	}
	return s.ruleStack[len(s.ruleStack)-1]
}

func (s *State) pushRule (name string) { s.ruleStack = append(s.ruleStack, name) }
func (s *State) popRule ()             { s.ruleStack = s.ruleStack[:len(s.ruleStack)-1] }

// succeed records a successful match ending at pos with value v.
func (s *State) succeed (v hostlang.Value, pos int) {
	s.val = v
	s.failed = false
	s.pos = pos
}

// fail records a failed match attempt at the current position, keeping
// track of the furthest position any attempt has failed at so the
// final error can point at the most informative spot instead of
// wherever the outermost Choice happened to give up.
func (s *State) fail () {
	s.val = nil
	s.failed = true
	if s.pos >= s.errPos {
		s.errPos = s.pos
		s.errRule = s.RuleName()
	}
}

// rewind resets position to pos with a neutral (non-failed) outcome,
// the state a Choice or a growing seed loop starts its next attempt
// from.
func (s *State) rewind (pos int) {
	s.pos = pos
	s.val = nil
	s.failed = false
	if s.tokenize {
		for len(s.tokens) > 0 && s.tokens[len(s.tokens)-1].Start >= pos {
			s.tokens = s.tokens[:len(s.tokens)-1]
		}
	}
}

func (s *State) regexpFor (pattern string) (*regexp.Regexp, error) {
	if re, ok := s.regexps[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	s.regexps[pattern] = re
	return re, nil
}

func (s *State) posAt (pos int) source.Pos {
	return source.At(s.src, pos)
}

func (s *State) opRuntimeFor (name string) *operatorRuntime {
	rt, ok := s.opRuntimes[name]
	if !ok {
		rt = &operatorRuntime{}
		s.opRuntimes[name] = rt
	}
	return rt
}
