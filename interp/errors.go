package interp

import (
	"github.com/ava12/floyd/ast"
	"github.com/ava12/floyd/errors"
	"github.com/ava12/floyd/source"
)

// Error codes are offset into the ParseErrors range, following the
// dense per-condition numbering the analyzer and grammar front-end
// already use.
const (
	errNoMatch = errors.ParseErrors + iota
	errTrailingInput
	errStepLimit
	errBadEquals
	errBadPred
)

func perr (pos source.Pos, code int, msg string, params ...any) error {
	return errors.FormatPos(pos, code, msg, params...)
}

func noMatchError (pos source.Pos, ruleName string) error {
	if ruleName == "" {
		return perr(pos, errNoMatch, "no match")
	}
	return perr(pos, errNoMatch, "no match for %q", ruleName)
}

func trailingInputError (pos source.Pos) error {
	return perr(pos, errTrailingInput, "unexpected trailing input")
}

func stepLimitError (limit int) error {
	return errors.Format(errStepLimit, "step limit of %d exceeded, grammar may not terminate", limit)
}

func badEqualsError (pos source.Pos) error {
	return perr(pos, errBadEquals, "= expression did not evaluate to a string")
}

func badPredError (pos source.Pos) error {
	return perr(pos, errBadPred, "predicate expression did not evaluate to a boolean")
}

func errInternalUnhandledKind (n *ast.Node) error {
	return errors.Format(errNoMatch, "internal: no interpreter handler for %s node", n.Kind)
}
