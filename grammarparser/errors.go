package grammarparser

import (
	"github.com/ava12/floyd/errors"
	"github.com/ava12/floyd/source"
)

// Error codes are dense, one per specific condition, offset into the
// GrammarErrors range.
const (
	errUnexpectedChar = errors.GrammarErrors + iota
	errUnterminatedString
	errUnterminatedRegexp
	errUnterminatedCharClass
	errBadEscape
	errExpectedToken
	errExpectedExpr
	errUnknownPragma
	errBadCount
	errEmptyRuleBody
	errDuplicateRule
)

func perr (pos source.Pos, code int, msg string, params ...any) error {
	return errors.FormatPos(pos, code, msg, params...)
}

func unexpectedCharError (pos source.Pos, ch rune) error {
	return perr(pos, errUnexpectedChar, "unexpected character %q", ch)
}

func unterminatedStringError (pos source.Pos) error {
	return perr(pos, errUnterminatedString, "unterminated string literal")
}

func unterminatedRegexpError (pos source.Pos) error {
	return perr(pos, errUnterminatedRegexp, "unterminated regular expression")
}

func unterminatedCharClassError (pos source.Pos) error {
	return perr(pos, errUnterminatedCharClass, "unterminated character class")
}

func badEscapeError (pos source.Pos, seq string) error {
	return perr(pos, errBadEscape, "invalid escape sequence %q", seq)
}

func expectedTokenError (pos source.Pos, want string, got string) error {
	return perr(pos, errExpectedToken, "expected %s, got %q", want, got)
}

func expectedExprError (pos source.Pos) error {
	return perr(pos, errExpectedExpr, "expected an expression")
}

func unknownPragmaError (pos source.Pos, name string) error {
	return perr(pos, errUnknownPragma, "unknown pragma %q", name)
}

func badCountError (pos source.Pos, text string) error {
	return perr(pos, errBadCount, "invalid repeat count %q", text)
}

func emptyRuleBodyError (pos source.Pos, name string) error {
	return perr(pos, errEmptyRuleBody, "rule %q has an empty body", name)
}

func duplicateRuleError (pos source.Pos, name string) error {
	return perr(pos, errDuplicateRule, "rule %q is defined more than once", name)
}
