package interp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/floyd/analyzer"
	"github.com/ava12/floyd/builtins"
	"github.com/ava12/floyd/grammarparser"
	"github.com/ava12/floyd/hostlang"
	"github.com/ava12/floyd/interp"
	"github.com/ava12/floyd/source"
)

func builtinNames () map[string]bool {
	names := map[string]bool{}
	for name := range builtins.New() {
		names[name] = true
	}
	return names
}

func mustProgram (t *testing.T, grammarText string, externs map[string]hostlang.Extern, opts ...interp.Option) *interp.Program {
	t.Helper()
	src := source.New("<grammar>", []byte(grammarText))
	root, err := grammarparser.Parse(src)
	require.NoError(t, err)
	g, err := analyzer.Analyze(root, src, analyzer.Options{BuiltinNames: builtinNames()})
	require.NoError(t, err)
	return interp.NewProgram(g, builtins.New(), builtins.NewMachineBuiltins(), externs, opts...)
}

func parseString (t *testing.T, p *interp.Program, text string) (*interp.Result, error) {
	t.Helper()
	return interp.Parse(p, source.New("<input>", []byte(text)))
}

func TestParseLiteralSequence (t *testing.T) {
	p := mustProgram(t, `rule = "a" "b" -> [$1, $2]`, nil)
	res, err := parseString(t, p, "ab")
	require.NoError(t, err)
	assert.Equal(t, []hostlang.Value{"a", "b"}, res.Value)
}

func TestParseChoicePicksFirstMatchingAlternative (t *testing.T) {
	p := mustProgram(t, `rule = "a" -> 1 | "b" -> 2`, nil)
	res, err := parseString(t, p, "b")
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Value)
}

func TestParseStarCollectsZeroOrMore (t *testing.T) {
	p := mustProgram(t, `rule = "a"* -> $1`, nil)
	res, err := parseString(t, p, "aaa")
	require.NoError(t, err)
	assert.Equal(t, []hostlang.Value{"a", "a", "a"}, res.Value)

	res, err = parseString(t, p, "")
	require.NoError(t, err)
	assert.Equal(t, []hostlang.Value{}, res.Value)
}

func TestParsePlusRequiresAtLeastOne (t *testing.T) {
	p := mustProgram(t, `rule = "a"+ -> $1`, nil)
	_, err := parseString(t, p, "")
	assert.Error(t, err)
}

func TestParseOptAndFillerSkipWhitespace (t *testing.T) {
	p := mustProgram(t, `
%whitespace = [ \t]+
rule = "a" "b"? "c" -> [$1, $2, $3]
`, nil)
	res, err := parseString(t, p, "a  c")
	require.NoError(t, err)
	assert.Equal(t, []hostlang.Value{"a", nil, "c"}, res.Value)
}

func TestParseSetAndRange (t *testing.T) {
	p := mustProgram(t, `rule = [a-c]+ -> $1`, nil)
	res, err := parseString(t, p, "abcba")
	require.NoError(t, err)
	assert.Equal(t, []hostlang.Value{"a", "b", "c", "b", "a"}, res.Value)
}

func TestParseRegexpNum (t *testing.T) {
	p := mustProgram(t, `rule = /[0-9]+/ -> atoi($1, 10)`, nil)
	res, err := parseString(t, p, "042")
	require.NoError(t, err)
	assert.Equal(t, int64(42), res.Value)
}

func TestParsePredicateGuardsMatch (t *testing.T) {
	p := mustProgram(t, `rule = "a":x ?(equal(x, "a")) -> x`, nil)
	res, err := parseString(t, p, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", res.Value)
}

func TestParseNotLookaheadDoesNotConsume (t *testing.T) {
	p := mustProgram(t, `rule = ~"b" "a" -> $2`, nil)
	res, err := parseString(t, p, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", res.Value)
}

func TestParseFailsOnTrailingInput (t *testing.T) {
	p := mustProgram(t, `rule = "a"`, nil)
	_, err := parseString(t, p, "ab")
	assert.Error(t, err)
}

func TestParseFailsWithNoMatch (t *testing.T) {
	p := mustProgram(t, `rule = "a"`, nil)
	_, err := parseString(t, p, "b")
	assert.Error(t, err)
}

func TestParseLeftRecursiveOperatorClimbsPrecedence (t *testing.T) {
	p := mustProgram(t, `
%prec "+" "-"
%prec "*" "/"
expr = expr:l "+" expr:r -> "(" + l + "+" + r + ")"
     | expr:l "*" expr:r -> "(" + l + "*" + r + ")"
     | num
num = /[0-9]+/ -> $1
`, nil)
	res, err := parseString(t, p, "2+3*4")
	require.NoError(t, err)
	assert.Equal(t, "(2+(3*4))", res.Value)
}

func TestParseLeftRecursiveOperatorIsLeftAssociative (t *testing.T) {
	p := mustProgram(t, `
%prec "-" "-"
expr = expr:l "-" expr:r -> l - r
     | num
num = /[0-9]+/ -> atoi($1, 10)
`, nil)
	res, err := parseString(t, p, "9-3-2")
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Value)
}

func TestParseGenericLeftRecursionWithoutOperatorShape (t *testing.T) {
	p := mustProgram(t, `
list = list:l "," "x" -> l + [$3]
     | "x" -> [$1]
`, nil)
	res, err := parseString(t, p, "x,x,x")
	require.NoError(t, err)
	assert.Equal(t, []hostlang.Value{"x", "x", "x"}, res.Value)
}

func TestParseTokenStreamCapturesTokenRuleSpans (t *testing.T) {
	p := mustProgram(t, `
%whitespace = [ \t]+
%tokens = num
start = num num -> [$1, $2]
num = /[0-9]+/
`, nil, interp.WithTokenStream())
	res, err := parseString(t, p, "12   34")
	require.NoError(t, err)
	require.Len(t, res.Tokens, 2)
	assert.Equal(t, "12", res.Tokens[0].Text)
	assert.Equal(t, "34", res.Tokens[1].Text)
	assert.Equal(t, []hostlang.Value{"12", "34"}, res.Value)
}

func TestParseUsesFuncExtern (t *testing.T) {
	externs := map[string]hostlang.Extern{
		"double": {Kind: hostlang.ExternFunc, Func: func (a []hostlang.Value) (hostlang.Value, error) {
			n, _ := a[0].(int64)
			return n * 2, nil
		}},
	}
	p := mustProgram(t, `
%externs = double -> func
rule = /[0-9]+/ -> double(atoi($1, 10))
`, externs)
	res, err := parseString(t, p, "21")
	require.NoError(t, err)
	assert.Equal(t, int64(42), res.Value)
}

func TestParseUsesPFuncExternWithMachineAccess (t *testing.T) {
	externs := map[string]hostlang.Extern{
		"markPos": {Kind: hostlang.ExternPFunc, PFunc: func (m hostlang.Machine, a []hostlang.Value) (hostlang.Value, error) {
			return int64(m.Pos()), nil
		}},
	}
	p := mustProgram(t, `
%externs = markPos -> pfunc
rule = "a" -> markPos()
`, externs)
	res, err := parseString(t, p, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Value)
}

func TestParseStepLimitAbortsRunawayGrammar (t *testing.T) {
	p := mustProgram(t, `rule = "a"* -> $1`, nil, interp.WithMaxSteps(3))
	_, err := parseString(t, p, "aaaaaaaaaa")
	assert.Error(t, err)
}

func TestParseStartOverrideEntersANonDefaultRule (t *testing.T) {
	p := mustProgram(t, `
start = "never" -> 1
other = /[0-9]+/ -> atoi($1, 10)
`, nil)
	res, err := interp.Parse(p, source.New("<input>", []byte("7")), "other")
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.Value)
}

func TestParseFailureResultCarriesErrorPosition (t *testing.T) {
	p := mustProgram(t, `rule = "a" "b"`, nil)
	res, err := parseString(t, p, "ax")
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.Pos)
}

func TestParseAppliedEndMatchesOnlyAtEndOfInput (t *testing.T) {
	p := mustProgram(t, `g = "foo" "bar" end`, nil)
	res, err := parseString(t, p, "foobar")
	require.NoError(t, err)
	assert.Equal(t, 6, res.Pos)
}

func TestParseAppliedEndSkipsFillerFirst (t *testing.T) {
	p := mustProgram(t, `
%whitespace = /\s+/
g = "foo" "bar" end
`, nil)
	res, err := parseString(t, p, "foobar ")
	require.NoError(t, err)
	assert.Equal(t, 7, res.Pos)
}

func TestParseAppliedAnyConsumesExactlyOneCodePoint (t *testing.T) {
	p := mustProgram(t, `g = "x" any -> $2`, nil)
	res, err := parseString(t, p, "xy")
	require.NoError(t, err)
	assert.Equal(t, "y", res.Value)
}

func TestParseOperatorRuleMatchesBareOperand (t *testing.T) {
	p := mustProgram(t, `
e = e "+" e -> atoi($1, 10) + atoi($3, 10)
  | /[0-9]+/ -> $1
`, nil)
	res, err := parseString(t, p, "4")
	require.NoError(t, err)
	assert.Equal(t, "4", res.Value)
}

func TestParseOperatorRuleClimbsPrecedence (t *testing.T) {
	p := mustProgram(t, `
%prec "+"
%prec "*"
e = e "+" e -> [$1, "+", $3]
  | e "*" e -> [$1, "*", $3]
  | /[0-9]+/ -> atoi($1, 10)
`, nil)
	res, err := parseString(t, p, "2+3*4")
	require.NoError(t, err)
	assert.Equal(t, []hostlang.Value{int64(2), "+", []hostlang.Value{int64(3), "*", int64(4)}}, res.Value)
}
