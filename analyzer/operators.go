package analyzer

import (
	"sort"

	"github.com/ava12/floyd/ast"
)

// rewriteOperators is pass 5. Every rule pass 4 flagged as
// left-recursive is checked against the classic binary-operator
// shape: each recursive alternative must be a 3-element sequence of
// operand, operator literal, operand (either side may carry a label),
// with any non-recursive alternative treated as the operand base case.
// A rule that matches gets its body replaced with a single operator
// node the interpreter climbs with a precedence table instead of
// running through generic left-recursion seeding for every parse.
//
// Precedence comes from %prec (in the pragma's declared order, lowest
// first) when present; an operator with no declared precedence is
// assigned the next level up from the last one used, in the order its
// alternative appears in the rule, so a plain
// `e = e '+' e | e '*' e | NUM` still climbs correctly without any
// pragmas at all. Associativity defaults to left.
func (a *analysis) rewriteOperators () {
	for _, name := range a.g.Order {
		if !a.g.LeftrecRules[name] {
			continue
		}
		rule := a.g.Rules[name]
		body := rule.Child(0)
		alts := []*ast.Node{body}
		if body.Kind == ast.KindChoice {
			alts = body.Ch
		}

		table := &OperatorTable{Levels: map[int][]OpEntry{}}
		var operands []*ast.Node
		implicitLevel := 0
		ok := true

		for i, alt := range alts {
			if !alt.BoolAttr("lr_alt") {
				operands = append(operands, alt)
				continue
			}
			seqNode := alt
			if seqNode.Kind == ast.KindAction {
				seqNode = seqNode.Child(0)
			}
			if seqNode.Kind != ast.KindSeq || len(seqNode.Ch) != 3 {
				ok = false
				break
			}
			if !isOperandRef(seqNode.Ch[0], name) || !isOperandRef(seqNode.Ch[2], name) {
				ok = false
				break
			}
			lit, litOK := operatorLiteral(seqNode.Ch[1])
			if !litOK {
				ok = false
				break
			}
			prec, declared := a.g.Prec[lit]
			if !declared {
				implicitLevel++
				prec = implicitLevel
			} else if prec > implicitLevel {
				implicitLevel = prec
			}
			right := a.g.Assoc[lit] == "right"
			table.Levels[prec] = append(table.Levels[prec], OpEntry{
				Literal:  lit,
				Prec:     prec,
				Right:    right,
				AltIndex: i,
			})
		}

		if !ok || len(operands) == 0 {
			// left-recursive but not operator-shaped: leave the rule as
			// a plain choice for the interpreter's generic seeding loop.
			continue
		}

		for prec := range table.Levels {
			table.Precs = append(table.Precs, prec)
		}
		sort.Ints(table.Precs)

		var operand *ast.Node
		if len(operands) == 1 {
			operand = operands[0]
		} else {
			operand = ast.New(ast.KindChoice, nil, operands...)
		}
		rule.Ch[0] = ast.New(ast.KindOperator, name, operand, body)
		a.g.Operators[name] = table
	}
}

// isOperandRef reports whether n is a bare reference back to rule, or a
// labeled one, the only two shapes an operator alternative's operand
// position may take.
func isOperandRef (n *ast.Node, rule string) bool {
	if n.Kind == ast.KindLabel {
		n = n.Child(0)
	}
	return n.Kind == ast.KindApply && n.Str() == rule
}

// operatorLiteral extracts the operator token spelling from an
// alternative's middle element, unwrapping a label if present.
func operatorLiteral (n *ast.Node) (string, bool) {
	if n.Kind == ast.KindLabel {
		n = n.Child(0)
	}
	if n.Kind != ast.KindLit {
		return "", false
	}
	return n.Str(), true
}
