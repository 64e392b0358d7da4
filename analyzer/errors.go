package analyzer

import (
	"github.com/ava12/floyd/errfmt"
	"github.com/ava12/floyd/errors"
	"github.com/ava12/floyd/source"
)

// Error codes follow grammarparser/errors.go's dense per-condition
// numbering, offset into the AnalysisErrors range.
const (
	errUnknownRule = errors.AnalysisErrors + iota
	errNoRules
	errUnresolvedIdent
	errBadExternKind
	errLeftRecursion
	errBadOperatorAlt
	errUnknownPrecOperator
	errUnknownAssocOperator
	errDuplicatePragma
	errTypeMismatch
)

func perr (pos source.Pos, code int, msg string, params ...any) error {
	return errors.FormatPos(pos, code, msg, params...)
}

func unknownRuleError (pos source.Pos, name string, declaredRules []string) error {
	return perr(pos, errUnknownRule, "rule %q is never defined%s", name, errfmt.Hint(name, declaredRules))
}

func noRulesError () error {
	return errors.Format(errNoRules, "grammar defines no rules")
}

func unresolvedIdentError (pos source.Pos, name string, knownNames []string) error {
	return perr(pos, errUnresolvedIdent, "identifier %q is not a label, extern, or builtin%s", name, errfmt.Hint(name, knownNames))
}

var externKinds = []string{"const", "func", "pfunc"}

func badExternKindError (pos source.Pos, name, kind string) error {
	return perr(pos, errBadExternKind, "extern %q has unrecognized kind %q%s", name, kind, errfmt.Hint(kind, externKinds))
}

func leftRecursionError (pos source.Pos, name string) error {
	return perr(pos, errLeftRecursion, "rule %q is left-recursive outside of an operator alternative", name)
}

func badOperatorAltError (pos source.Pos, rule string) error {
	return perr(pos, errBadOperatorAlt, "rule %q looks like an operator rule but an alternative does not match the operand op operand shape", rule)
}

func unknownPrecOperatorError (pos source.Pos, lit string) error {
	return perr(pos, errUnknownPrecOperator, "%%prec refers to operator %q, which no rule alternative uses", lit)
}

func unknownAssocOperatorError (pos source.Pos, lit string) error {
	return perr(pos, errUnknownAssocOperator, "%%assoc refers to operator %q, which no rule alternative uses", lit)
}

func duplicatePragmaError (pos source.Pos, name string) error {
	return perr(pos, errDuplicatePragma, "%%%s is set more than once", name)
}

func typeMismatchError (pos source.Pos, err error) error {
	return perr(pos, errTypeMismatch, "%s", err)
}
