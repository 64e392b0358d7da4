package analyzer

import "github.com/ava12/floyd/ast"

// collectPragmas is pass 1: it walks the top-level rules/pragma list,
// splitting rules into Grammar.Rules/Order (the first rule defined
// becomes the starting rule, following the grammar's declaration-order
// convention) and draining each pragma into grammar metadata.
//
// %prec pragmas assign increasing precedence levels in the order they
// appear: the first %prec line is the lowest-binding level, matching
// the reference analyzer's climbing-precedence-table convention.
func (a *analysis) collectPragmas () error {
	precLevel := 0
	for _, n := range a.g.Root.Ch {
		switch n.Kind {
		case ast.KindRule:
			name := n.Str()
			a.g.Rules[name] = n
			a.g.Order = append(a.g.Order, name)
			if a.g.StartingRule == "" {
				a.g.StartingRule = name
			}
		case ast.KindPragma:
			switch n.Str() {
			case "whitespace":
				if a.g.Whitespace != nil {
					return duplicatePragmaError(a.posOf(n), "whitespace")
				}
				a.g.Whitespace = n.Child(0)
			case "comment":
				if a.g.Comment != nil {
					return duplicatePragmaError(a.posOf(n), "comment")
				}
				a.g.Comment = n.Child(0)
			case "tokens":
				names, _ := n.Attr("names")
				for _, name := range names.([]string) {
					a.g.Tokens[name] = true
				}
			case "externs":
				name := n.StrAttr("name")
				kind := n.StrAttr("kind")
				info := &ExternInfo{Kind: kind}
				if kind == "const" {
					info.Default = n.Child(0)
				}
				a.g.Externs[name] = info
			case "prec":
				precLevel++
				ops, _ := n.Attr("ops")
				for _, op := range ops.([]string) {
					a.g.Prec[op] = precLevel
				}
			case "assoc":
				a.g.Assoc[n.StrAttr("op")] = n.StrAttr("assoc")
			}
		}
	}
	if len(a.g.Rules) == 0 {
		return noRulesError()
	}
	return nil
}
