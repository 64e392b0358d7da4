package interp

import (
	"github.com/ava12/floyd/ast"
	"github.com/ava12/floyd/hostlang"
)

// matchApply runs one rule call: fresh scope frame, unconditional
// packrat memoization keyed by (rule, position), and — for rules the
// analyzer flagged as left-recursive but did not fold into an operator
// table — the seed-growing loop that lets a rule call itself at the
// same position without looping forever.
//
// `end` and `any` are apply nodes too — the grammar front-end turns
// every bare identifier into KindApply regardless of spelling — but
// they name built-in rules with no declared body, so they are routed
// straight to matchEnd/matchAny instead of reaching applyRule's lookup
// into Grammar.Rules.
//
// Operator rules are not special-cased here: LeftrecRules[name] is
// still true for them, but their body is a single KindOperator node,
// and matchOperator does its own seed bookkeeping the same way this
// function's generic loop does for everything else. A nested call to
// the same rule at the same position (the left operand re-referencing
// its own rule from inside a growing alternative) reaches whichever of
// the two seed checks applies before it ever re-runs the body.
func (s *State) matchApply (n *ast.Node) {
	switch n.Str() {
	case "end":
		s.matchEnd(n)
	case "any":
		s.matchAny(n)
	default:
		s.applyRule(n.Str())
	}
}

func (s *State) applyRule (name string) {
	// A token-rule application is a lexer's "read the next token": it
	// swallows any leading filler itself, since a token rule's own body
	// never has filler spliced into it (installFiller leaves lexical
	// rules alone). Only the outermost call does this — a token rule
	// invoking another token rule mid-body must not re-skip filler in
	// the middle of what it is lexing.
	entersToken := s.prog.Grammar.Tokens[name] && !s.inToken
	if entersToken && s.prog.filler != nil {
		s.match(s.prog.filler)
	}

	idx := s.prog.RuleIndex[name]
	pos := s.pos
	ck := ruleKey{idx, pos}

	if e, ok := s.cache[ck]; ok {
		s.restore(e)
		return
	}

	rule := s.prog.Grammar.Rules[name]
	body := rule.Child(0)

	saved := s.scopes
	s.scopes = hostlang.NewScopes()
	s.env.Scopes = s.scopes
	s.pushRule(name)

	capturing := s.tokenize && entersToken
	if entersToken {
		s.inToken = true
	}

	if s.prog.Grammar.LeftrecRules[name] && s.prog.Grammar.Operators[name] == nil {
		s.growSeed(idx, pos, body)
	} else {
		s.match(body)
	}

	if capturing {
		s.inToken = false
	}

	s.popRule()
	s.scopes = saved
	s.env.Scopes = saved

	if s.hostErr != nil {
		return
	}
	if capturing && !s.failed {
		s.tokens = append(s.tokens, Token{Rule: name, Start: pos, End: s.pos, Text: s.src.String(pos, s.pos)})
	}
	s.cache[ck] = cacheEntry{s.val, s.failed, s.pos}
}

func (s *State) restore (e cacheEntry) {
	s.val = e.val
	s.failed = e.failed
	s.pos = e.pos
}

// growSeed is the whole-rule left-recursion fixed point: seed with a
// failure, interpret the body, and keep growing the seed each time the
// body manages to consume more input than the current seed did, the
// way a packrat parser bootstraps a left-recursive rule from its own
// partial results instead of looping forever on the direct recursion.
//
// Every non-operator left-recursive rule is treated as left-associative
// here (blocked unconditionally during growth); a finer per-
// alternative associativity distinction is only expressible through
// the separate operator-table path, where Grammar has room to record
// it.
func (s *State) growSeed (idx, pos int, body *ast.Node) {
	sk := ruleKey{idx, pos}
	if e, ok := s.seeds[sk]; ok {
		s.restore(e)
		return
	}
	if s.blocked.Contains(idx) {
		s.fail()
		return
	}

	current := cacheEntry{nil, true, pos}
	s.seeds[sk] = current
	s.blocked.Add(idx)

	for {
		s.pos = pos
		delete(s.cache, sk)
		s.match(body)
		if s.hostErr != nil {
			s.blocked.Remove(idx)
			delete(s.seeds, sk)
			return
		}
		if !s.failed && s.pos > current.pos {
			current = cacheEntry{s.val, s.failed, s.pos}
			s.seeds[sk] = current
			continue
		}
		break
	}

	delete(s.seeds, sk)
	s.blocked.Remove(idx)
	s.restore(current)
}

// matchOperator climbs the precedence table an operator rule was
// rewritten into: seed with the operand base case, then try each
// operator at the current minimum precedence, widest-binding first,
// growing the seed on every successful alternative and repeating the
// same level to pick up chained same-precedence operators (`a+b+c`)
// before dropping to the next lower level.
func (s *State) matchOperator (n *ast.Node) {
	name := n.Str()
	idx := s.prog.RuleIndex[name]
	pos := s.pos
	sk := ruleKey{idx, pos}

	if e, ok := s.seeds[sk]; ok {
		s.restore(e)
		return
	}

	table := s.prog.Grammar.Operators[name]
	operand := n.Ch[0]
	body := n.Ch[1]
	recAlts := []*ast.Node{body}
	if body.Kind == ast.KindChoice {
		recAlts = body.Ch
	}

	rt := s.opRuntimeFor(name)
	rt.depth++
	minPrec := rt.prec

	// The seed starts from the operand base case, not a bare failure:
	// an operator rule's recursive alternatives all reference the rule
	// itself on the left, so without a base to bottom out on, the very
	// first nested call would find nothing but failure to grow from.
	s.pos = pos
	s.match(operand)
	if s.hostErr != nil {
		rt.depth--
		return
	}
	current := cacheEntry{nil, true, pos}
	if !s.failed {
		current = cacheEntry{s.val, false, s.pos}
	}
	s.seeds[sk] = current

	i := len(table.Precs) - 1
	for i >= 0 {
		prec := table.Precs[i]
		if prec < minPrec {
			break
		}
		rt.prec = prec
		entries := table.Levels[prec]
		if !entries[0].Right {
			rt.prec++
		}

		repeat := false
		for _, e := range entries {
			s.pos = pos
			delete(s.cache, sk)
			s.match(recAlts[e.AltIndex])
			if s.hostErr != nil {
				rt.depth--
				return
			}
			if !s.failed && s.pos > pos {
				current = cacheEntry{s.val, s.failed, s.pos}
				s.seeds[sk] = current
				repeat = true
				break
			}
		}
		if !repeat {
			i--
		}
	}

	delete(s.seeds, sk)
	rt.depth--
	if rt.depth == 0 {
		rt.prec = 0
	}
	s.restore(current)
}
