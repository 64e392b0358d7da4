package interp

import (
	"github.com/ava12/floyd/ast"
)

// matchFunc is one node handler. It reads s.pos and leaves s.val/
// s.failed/s.pos set to the outcome of matching n at the position the
// call started at.
type matchFunc func (s *State, n *ast.Node)

var dispatch [ast.NumKinds]matchFunc

func init () {
	dispatch[ast.KindSeq] = (*State).matchSeq
	dispatch[ast.KindChoice] = (*State).matchChoice
	dispatch[ast.KindEmpty] = (*State).matchEmpty
	dispatch[ast.KindParen] = (*State).matchParen
	dispatch[ast.KindApply] = (*State).matchApply
	dispatch[ast.KindAction] = (*State).matchAction
	dispatch[ast.KindPred] = (*State).matchPred
	dispatch[ast.KindEquals] = (*State).matchEquals
	dispatch[ast.KindLabel] = (*State).matchLabel
	dispatch[ast.KindOperator] = (*State).matchOperator

	dispatch[ast.KindAny] = (*State).matchAny
	dispatch[ast.KindEnd] = (*State).matchEnd
	dispatch[ast.KindLit] = (*State).matchLit
	dispatch[ast.KindRange] = (*State).matchRange
	dispatch[ast.KindSet] = (*State).matchSet
	dispatch[ast.KindRegexp] = (*State).matchRegexp
	dispatch[ast.KindUnicat] = (*State).matchUnicat
	dispatch[ast.KindRun] = (*State).matchRun
	dispatch[ast.KindOpt] = (*State).matchOpt
	dispatch[ast.KindStar] = (*State).matchStar
	dispatch[ast.KindPlus] = (*State).matchPlus
	dispatch[ast.KindCount] = (*State).matchCount
	dispatch[ast.KindNot] = (*State).matchNot
	dispatch[ast.KindNotOne] = (*State).matchNotOne
	dispatch[ast.KindEndsIn] = (*State).matchEndsIn
}

// match dispatches n to its handler, first checking whether a host
// expression has already aborted the parse or the step budget ran out
// — both checks that must short-circuit every recursive call so the
// abort unwinds transparently through Choice, Star, and every other
// combinator without each of them needing to notice it individually.
func (s *State) match (n *ast.Node) {
	if s.hostErr != nil {
		return
	}
	if s.prog.maxSteps > 0 {
		s.steps++
		if s.steps > s.prog.maxSteps {
			s.hostErr = stepLimitError(s.prog.maxSteps)
			return
		}
	}
	fn := dispatch[n.Kind]
	if fn == nil {
		s.hostErr = errInternalUnhandledKind(n)
		return
	}
	fn(s, n)
}
