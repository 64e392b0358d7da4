package analyzer

import (
	"github.com/ava12/floyd/ast"
	"github.com/ava12/floyd/internal/ints"
)

// lrResult is a three-way classification of whether a node can reach a
// left-recursive call to the rule under test without first consuming
// input: yes, no, or indeterminate (its own nullability is unknown, so
// an enclosing sequence must keep scanning past it).
type lrResult int

const (
	lrNo lrResult = iota
	lrYes
	lrMaybe
)

// builtinRuleLR classifies the apply-spelled built-in rules the same
// way their dedicated ast.Kind would be classified if the front-end
// ever produced one directly: `any` always consumes exactly one code
// point, so it can never recurse; `end` consumes nothing and may or
// may not match, so a following element might still be the one that
// recurses.
var builtinRuleLR = map[string]lrResult{
	"any": lrNo,
	"end": lrMaybe,
}

// detectLeftRecursion is pass 4. For every rule it classifies each
// top-level alternative (the whole body, if there is no top-level
// choice) as left-recursive or not by walking outward through apply
// edges, a three-way yes/no/maybe reachability question. A rule where
// every alternative is left-recursive has no base case a packrat
// seeding loop could grow from and is rejected; a rule with a mix is
// recorded in Grammar.LeftrecRules so the interpreter knows to seed
// it, and pass 5 gets a chance to recognize the classic operator shape
// among its recursive alternatives.
func (a *analysis) detectLeftRecursion () error {
	ruleIndex := make(map[string]int, len(a.g.Order))
	for i, name := range a.g.Order {
		ruleIndex[name] = i
	}

	for _, name := range a.g.Order {
		body := a.g.Rules[name].Child(0)
		alts := []*ast.Node{body}
		if body.Kind == ast.KindChoice {
			alts = body.Ch
		}

		recursive := 0
		for _, alt := range alts {
			seen := ints.NewSet(ruleIndex[name])
			res, err := a.checkLR(name, alt, seen, ruleIndex)
			if err != nil {
				return err
			}
			if res == lrYes {
				recursive++
				alt.SetAttr("lr_alt", true)
			}
		}
		if recursive > 0 {
			a.g.LeftrecRules[name] = true
		}
		if recursive == len(alts) {
			return leftRecursionError(a.posOf(a.g.Rules[name]), name)
		}
	}
	return nil
}

func (a *analysis) checkLR (target string, n *ast.Node, seen *ints.Set, ruleIndex map[string]int) (lrResult, error) {
	switch n.Kind {
	case ast.KindApply:
		name := n.Str()
		if name == target {
			return lrYes, nil
		}
		if res, ok := builtinRuleLR[name]; ok {
			return res, nil
		}
		idx, ok := ruleIndex[name]
		if !ok {
			return lrNo, unknownRuleError(a.posOf(n), name, a.g.Order)
		}
		if seen.Contains(idx) {
			return lrNo, nil
		}
		next := seen.Copy()
		next.Add(idx)
		return a.checkLR(target, a.g.Rules[name].Child(0), next, ruleIndex)

	case ast.KindSeq:
		for _, c := range n.Ch {
			res, err := a.checkLR(target, c, seen, ruleIndex)
			if err != nil {
				return lrNo, err
			}
			if res == lrYes {
				return lrYes, nil
			}
			if res == lrNo {
				return lrNo, nil
			}
			// lrMaybe: this element might not consume anything, so the
			// next element could still be the one that recurses.
		}
		return lrMaybe, nil

	case ast.KindChoice:
		anyMaybe := false
		for _, alt := range n.Ch {
			res, err := a.checkLR(target, alt, seen, ruleIndex)
			if err != nil {
				return lrNo, err
			}
			if res == lrYes {
				return lrYes, nil
			}
			if res == lrMaybe {
				anyMaybe = true
			}
		}
		if anyMaybe {
			return lrMaybe, nil
		}
		return lrNo, nil

	case ast.KindOpt, ast.KindStar, ast.KindNot, ast.KindNotOne, ast.KindEndsIn:
		res, err := a.checkLR(target, n.Child(0), seen, ruleIndex)
		if err != nil {
			return lrNo, err
		}
		if res == lrYes {
			return lrYes, nil
		}
		return lrMaybe, nil

	case ast.KindPlus, ast.KindRun, ast.KindParen, ast.KindLabel:
		return a.checkLR(target, n.Child(0), seen, ruleIndex)

	case ast.KindCount:
		res, err := a.checkLR(target, n.Child(0), seen, ruleIndex)
		if err != nil {
			return lrNo, err
		}
		if n.Pair().Lo == 0 {
			if res == lrYes {
				return lrYes, nil
			}
			return lrMaybe, nil
		}
		return res, nil

	case ast.KindAction:
		return a.checkLR(target, n.Child(0), seen, ruleIndex)

	case ast.KindPred, ast.KindEquals, ast.KindEnd, ast.KindEmpty:
		return lrMaybe, nil

	case ast.KindLit:
		if n.Str() == "" {
			return lrMaybe, nil
		}
		return lrNo, nil

	case ast.KindRegexp:
		return lrMaybe, nil

	case ast.KindAny, ast.KindRange, ast.KindSet, ast.KindUnicat:
		return lrNo, nil

	default:
		return lrNo, nil
	}
}
