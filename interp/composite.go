package interp

import (
	"github.com/ava12/floyd/ast"
	"github.com/ava12/floyd/hostlang"
)

func (s *State) matchSeq (n *ast.Node) {
	vals := make([]hostlang.Value, 0, len(n.Ch))
	for _, c := range n.Ch {
		s.match(c)
		if s.hostErr != nil {
			return
		}
		if s.failed {
			return
		}
		vals = append(vals, s.val)
	}
	s.val = vals
}

func (s *State) matchChoice (n *ast.Node) {
	pos := s.pos
	last := len(n.Ch) - 1
	for _, alt := range n.Ch[:last] {
		s.match(alt)
		if s.hostErr != nil {
			return
		}
		if !s.failed {
			return
		}
		s.rewind(pos)
	}
	s.match(n.Ch[last])
}

func (s *State) matchParen (n *ast.Node) {
	s.match(n.Child(0))
}

func (s *State) matchLabel (n *ast.Node) {
	s.match(n.Child(0))
	if s.hostErr != nil || s.failed {
		return
	}
	s.scopes.Bind(n.Str(), s.val)
}

func (s *State) matchOpt (n *ast.Node) {
	pos := s.pos
	s.match(n.Child(0))
	if s.hostErr != nil {
		return
	}
	if s.failed {
		s.succeed(nil, pos)
	}
}

func (s *State) matchStar (n *ast.Node) {
	vals := []hostlang.Value{}
	for {
		pos := s.pos
		s.match(n.Child(0))
		if s.hostErr != nil {
			return
		}
		if s.failed {
			s.rewind(pos)
			break
		}
		vals = append(vals, s.val)
		if s.pos == pos {
			// zero-length match: stop instead of looping forever.
			break
		}
	}
	s.val = vals
	s.failed = false
}

func (s *State) matchPlus (n *ast.Node) {
	s.match(n.Child(0))
	if s.hostErr != nil || s.failed {
		return
	}
	vals := []hostlang.Value{s.val}
	for {
		last := s.pos
		s.match(n.Child(0))
		if s.hostErr != nil {
			return
		}
		if s.failed {
			s.rewind(last)
			break
		}
		vals = append(vals, s.val)
		if s.pos == last {
			break
		}
	}
	s.val = vals
	s.failed = false
}

func (s *State) matchCount (n *ast.Node) {
	p := n.Pair()
	vals := []hostlang.Value{}
	i := 0
	for i < p.Hi {
		pos := s.pos
		s.match(n.Child(0))
		if s.hostErr != nil {
			return
		}
		if s.failed {
			s.rewind(pos)
			break
		}
		vals = append(vals, s.val)
		i++
	}
	if i < p.Lo {
		s.fail()
		return
	}
	s.val = vals
	s.failed = false
}

func (s *State) matchNot (n *ast.Node) {
	pos := s.pos
	errPos, errRule := s.errPos, s.errRule
	s.match(n.Child(0))
	if s.hostErr != nil {
		return
	}
	matched := !s.failed
	s.pos = pos
	if matched {
		s.fail()
	} else {
		s.errPos, s.errRule = errPos, errRule
		s.succeed(nil, pos)
	}
}

func (s *State) matchNotOne (n *ast.Node) {
	pos := s.pos
	errPos, errRule := s.errPos, s.errRule
	s.match(n.Child(0))
	if s.hostErr != nil {
		return
	}
	matched := !s.failed
	s.pos = pos
	if matched {
		s.fail()
		return
	}
	s.errPos, s.errRule = errPos, errRule
	s.matchAny(n)
}

// matchEndsIn (`^.e`) consumes characters one at a time up to, but not
// including, the position where e first matches, failing if the input
// runs out first without ever looking ahead past a whole extra
// character each step.
func (s *State) matchEndsIn (n *ast.Node) {
	start := s.pos
	for {
		save := s.pos
		s.match(n.Child(0))
		if s.hostErr != nil {
			return
		}
		matched := !s.failed
		s.pos = save
		if matched {
			s.succeed(s.src.String(start, save), save)
			return
		}
		if save >= s.src.Len() {
			s.pos = start
			s.fail()
			return
		}
		s.pos = save + 1
	}
}

func (s *State) matchRun (n *ast.Node) {
	start := s.pos
	s.match(n.Child(0))
	if s.hostErr != nil || s.failed {
		return
	}
	s.val = s.src.String(start, s.pos)
}
