package interp

import (
	"github.com/ava12/floyd/ast"
	"github.com/ava12/floyd/hostlang"
)

func (s *State) matchAction (n *ast.Node) {
	s.scopes.Push()
	s.match(n.Child(0))
	if s.hostErr != nil {
		s.scopes.Pop()
		return
	}
	if s.failed {
		s.scopes.Pop()
		return
	}
	v, err := hostlang.Eval(s.env, n.Child(1))
	s.scopes.Pop()
	if err != nil {
		s.hostErr = err
		return
	}
	s.val = v
}

func (s *State) matchPred (n *ast.Node) {
	v, err := hostlang.Eval(s.env, n.Child(0))
	if err != nil {
		s.hostErr = err
		return
	}
	b, ok := v.(bool)
	if !ok {
		s.hostErr = badPredError(s.posAt(s.pos))
		return
	}
	if b {
		s.succeed(true, s.pos)
	} else {
		s.fail()
	}
}

func (s *State) matchEquals (n *ast.Node) {
	v, err := hostlang.Eval(s.env, n.Child(0))
	if err != nil {
		s.hostErr = err
		return
	}
	lit, ok := v.(string)
	if !ok {
		s.hostErr = badEqualsError(s.posAt(s.pos))
		return
	}
	s.matchLiteralText(lit)
}
