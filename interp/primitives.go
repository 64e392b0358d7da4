package interp

import (
	"unicode"
	"unicode/utf8"

	"github.com/ava12/floyd/ast"
)

func (s *State) matchEmpty (n *ast.Node) {
	s.succeed(nil, s.pos)
}

func (s *State) matchAny (n *ast.Node) {
	if s.pos >= s.src.Len() {
		s.fail()
		return
	}
	s.succeed(string(s.src.At(s.pos)), s.pos+1)
}

// matchEnd succeeds, consuming nothing, only at the end of the input.
// matchApply routes the built-in `end` rule here; the grammar parser
// itself never produces a KindEnd node.
func (s *State) matchEnd (n *ast.Node) {
	if s.pos >= s.src.Len() {
		s.succeed(nil, s.pos)
		return
	}
	s.fail()
}

func (s *State) matchLit (n *ast.Node) {
	lit := n.Str()
	s.matchLiteralText(lit)
}

func (s *State) matchLiteralText (lit string) {
	runes := []rune(lit)
	if s.pos+len(runes) > s.src.Len() {
		s.fail()
		return
	}
	for i, r := range runes {
		if s.src.At(s.pos+i) != r {
			s.fail()
			return
		}
	}
	s.succeed(lit, s.pos+len(runes))
}

func (s *State) matchRange (n *ast.Node) {
	if s.pos >= s.src.Len() {
		s.fail()
		return
	}
	r := s.src.At(s.pos)
	p := n.Pair()
	if int(r) < p.Lo || int(r) > p.Hi {
		s.fail()
		return
	}
	s.succeed(string(r), s.pos+1)
}

func (s *State) matchSet (n *ast.Node) {
	if s.pos >= s.src.Len() {
		s.fail()
		return
	}
	r := s.src.At(s.pos)
	cs, _ := n.V.(ast.CharSet)
	if !cs.Contains(r) {
		s.fail()
		return
	}
	s.succeed(string(r), s.pos+1)
}

func (s *State) matchUnicat (n *ast.Node) {
	if s.pos >= s.src.Len() {
		s.fail()
		return
	}
	r := s.src.At(s.pos)
	tbl, ok := unicode.Categories[n.Str()]
	if !ok || !unicode.Is(tbl, r) {
		s.fail()
		return
	}
	s.succeed(string(r), s.pos+1)
}

func (s *State) matchRegexp (n *ast.Node) {
	re, err := s.regexpFor(n.Str())
	if err != nil {
		s.hostErr = err
		return
	}
	text := s.src.String(s.pos, s.src.Len())
	loc := re.FindStringIndex(text)
	if loc == nil || loc[0] != 0 {
		s.fail()
		return
	}
	matched := text[:loc[1]]
	s.succeed(matched, s.pos+utf8.RuneCountInString(matched))
}
