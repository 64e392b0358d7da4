// Package codegen exports the projection of an analyzed grammar a
// template-driven code generator would consume: the rule list, each
// rule's local-variable names, and the operator precedence tables.
// No template engine or generation backend is implemented here — per
// the at-expression templating surface being an external collaborator,
// this package only builds the data such an engine would render from.
package codegen

import (
	"sort"

	"github.com/ava12/floyd/analyzer"
)

// RuleData is one rule's projection: its name, whether it is a
// %tokens rule or a left-recursive one, and the local variable names
// a generated function for it would need to declare.
type RuleData struct {
	Name      string
	IsToken   bool
	IsLeftrec bool
	LocalVars []string
}

// OperatorData is the precedence-climbing table for one operator rule,
// reusing analyzer's own OpEntry shape rather than redefining it.
type OperatorData struct {
	Precs  []int
	Levels map[int][]analyzer.OpEntry
}

// TemplateData is the complete read-only projection of a Grammar.
type TemplateData struct {
	StartingRule   string
	Rules          []RuleData
	Operators      map[string]OperatorData
	NeededBuiltins []string
}

// Project builds a TemplateData from an analyzed Grammar, in rule
// declaration order.
func Project (g *analyzer.Grammar) *TemplateData {
	td := &TemplateData{
		StartingRule: g.StartingRule,
		Rules:        make([]RuleData, len(g.Order)),
		Operators:    make(map[string]OperatorData, len(g.Operators)),
	}

	for i, name := range g.Order {
		td.Rules[i] = RuleData{
			Name:      name,
			IsToken:   g.Tokens[name],
			IsLeftrec: g.LeftrecRules[name],
			LocalVars: analyzer.LocalVars(g, name),
		}
	}

	for name, table := range g.Operators {
		td.Operators[name] = OperatorData{Precs: table.Precs, Levels: table.Levels}
	}

	for name := range g.NeededBuiltinFunctions {
		td.NeededBuiltins = append(td.NeededBuiltins, name)
	}
	sort.Strings(td.NeededBuiltins)

	return td
}
