package grammarparser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava12/floyd/ast"
	"github.com/ava12/floyd/grammarparser"
)

func parse (t *testing.T, src string) *ast.Node {
	t.Helper()
	root, err := grammarparser.ParseString("<test>", src)
	require.NoError(t, err)
	return root
}

func TestParseSingleLiteralRule (t *testing.T) {
	root := parse(t, `greeting = "hi"`)
	require.Len(t, root.Ch, 1)
	rule := root.Ch[0]
	require.Equal(t, ast.KindRule, rule.Kind)
	require.Equal(t, "greeting", rule.Str())
	require.Equal(t, ast.KindLit, rule.Child(0).Kind)
	require.Equal(t, "hi", rule.Child(0).Str())
}

func TestParseChoiceAndSequence (t *testing.T) {
	root := parse(t, `digit_or_letter = "a" "b" | "c"`)
	body := root.Ch[0].Child(0)
	require.Equal(t, ast.KindChoice, body.Kind)
	require.Len(t, body.Ch, 2)
	require.Equal(t, ast.KindSeq, body.Ch[0].Kind)
	require.Len(t, body.Ch[0].Ch, 2)
}

func TestParseTwoRulesBackToBack (t *testing.T) {
	root := parse(t, "a = \"x\"\nb = \"y\"")
	require.Len(t, root.Ch, 2)
	require.Equal(t, "a", root.Ch[0].Str())
	require.Equal(t, "b", root.Ch[1].Str())
}

func TestParsePostfixOperators (t *testing.T) {
	root := parse(t, `r = "a"? "b"* "c"+`)
	seq := root.Ch[0].Child(0)
	require.Equal(t, ast.KindOpt, seq.Ch[0].Kind)
	require.Equal(t, ast.KindStar, seq.Ch[1].Kind)
	require.Equal(t, ast.KindPlus, seq.Ch[2].Kind)
}

func TestParseCountedRepeat (t *testing.T) {
	root := parse(t, `r = "a"{2,4}`)
	el := root.Ch[0].Child(0)
	require.Equal(t, ast.KindCount, el.Kind)
	require.Equal(t, ast.Pair{Lo: 2, Hi: 4}, el.Pair())
}

func TestParsePrefixOperators (t *testing.T) {
	root := parse(t, `r = ~"a" ^"b" ^."c"`)
	seq := root.Ch[0].Child(0)
	require.Equal(t, ast.KindNot, seq.Ch[0].Kind)
	require.Equal(t, ast.KindNotOne, seq.Ch[1].Kind)
	require.Equal(t, ast.KindEndsIn, seq.Ch[2].Kind)
}

func TestParseGroupingAndRunCapture (t *testing.T) {
	root := parse(t, `r = ("a" "b") <"c" "d">`)
	seq := root.Ch[0].Child(0)
	require.Equal(t, ast.KindParen, seq.Ch[0].Kind)
	require.Equal(t, ast.KindRun, seq.Ch[1].Kind)
}

func TestParseCharRangeAndClass (t *testing.T) {
	root := parse(t, `r = 'a'..'z' [abc] [^xyz]`)
	seq := root.Ch[0].Child(0)
	require.Equal(t, ast.KindRange, seq.Ch[0].Kind)
	require.Equal(t, ast.Pair{Lo: int('a'), Hi: int('z')}, seq.Ch[0].Pair())

	cls := seq.Ch[1].V.(ast.CharSet)
	require.False(t, cls.Negate)
	require.True(t, cls.Contains('a'))
	require.False(t, cls.Contains('d'))

	neg := seq.Ch[2].V.(ast.CharSet)
	require.True(t, neg.Negate)
}

func TestParseRegexpAndUnicat (t *testing.T) {
	root := parse(t, `r = /[0-9]+/ \p{Lu}`)
	seq := root.Ch[0].Child(0)
	require.Equal(t, ast.KindRegexp, seq.Ch[0].Kind)
	require.Equal(t, "[0-9]+", seq.Ch[0].Str())
	require.Equal(t, ast.KindUnicat, seq.Ch[1].Kind)
	require.Equal(t, "Lu", seq.Ch[1].Str())
}

func TestParseRuleReferenceAndLabel (t *testing.T) {
	root := parse(t, "sum = term:t \"+\" term\nterm = \"1\"")
	seq := root.Ch[0].Child(0)
	require.Equal(t, ast.KindLabel, seq.Ch[0].Kind)
	require.Equal(t, "t", seq.Ch[0].Str())
	require.Equal(t, ast.KindApply, seq.Ch[0].Child(0).Kind)
}

func TestParseActionArrowAndBrace (t *testing.T) {
	root := parse(t, `r1 = "a" -> 1
r2 = "b" { 2 }`)
	require.Equal(t, ast.KindAction, root.Ch[0].Child(0).Kind)
	require.Equal(t, ast.KindENum, root.Ch[0].Child(0).Child(1).Kind)
	require.Equal(t, ast.KindAction, root.Ch[1].Child(0).Kind)
}

func TestParsePredicate (t *testing.T) {
	root := parse(t, `r = ?(x) "a"`)
	seq := root.Ch[0].Child(0)
	require.Equal(t, ast.KindPred, seq.Ch[0].Kind)
	require.Equal(t, ast.KindEIdent, seq.Ch[0].Child(0).Kind)
}

func TestParseEqualsLiteralFromExpr (t *testing.T) {
	root := parse(t, `r = ={ tag }`)
	el := root.Ch[0].Child(0)
	require.Equal(t, ast.KindEquals, el.Kind)
	require.Equal(t, "tag", el.Child(0).Str())
}

func TestParseHostExprPrecedenceAndCalls (t *testing.T) {
	root := parse(t, `r = "a" -> 1 + f(2, 3)[0]`)
	expr := root.Ch[0].Child(0).Child(1)
	require.Equal(t, ast.KindEPlus, expr.Kind)
	right := expr.Ch[1]
	require.Equal(t, ast.KindEGetitem, right.Kind)
	require.Equal(t, ast.KindECall, right.Ch[0].Kind)
}

func TestParseQualifiedFieldAccess (t *testing.T) {
	root := parse(t, `r = "a" -> node.field`)
	expr := root.Ch[0].Child(0).Child(1)
	require.Equal(t, ast.KindEQual, expr.Kind)
	require.Equal(t, "field", expr.Str())
}

func TestParseWhitespacePragma (t *testing.T) {
	root := parse(t, "%whitespace = ' '+\nr = \"a\"")
	require.Equal(t, ast.KindPragma, root.Ch[0].Kind)
	require.Equal(t, "whitespace", root.Ch[0].Str())
	require.Equal(t, ast.KindPlus, root.Ch[0].Child(0).Kind)
}

func TestParseTokensPragma (t *testing.T) {
	root := parse(t, "%tokens = a b c\nr = \"x\"")
	names, _ := root.Ch[0].Attr("names")
	require.Equal(t, []string{"a", "b", "c"}, names)
}

func TestParseExternsPragmaWithKindKeyword (t *testing.T) {
	root := parse(t, "%externs = greet -> func\nr = \"x\"")
	kind, _ := root.Ch[0].Attr("kind")
	require.Equal(t, "func", kind)
	name, _ := root.Ch[0].Attr("name")
	require.Equal(t, "greet", name)
}

func TestParseExternsPragmaWithConstDefault (t *testing.T) {
	root := parse(t, "%externs = limit -> 10\nr = \"x\"")
	kind, _ := root.Ch[0].Attr("kind")
	require.Equal(t, "const", kind)
	require.Equal(t, ast.KindENum, root.Ch[0].Child(0).Kind)
}

func TestParsePrecAndAssocPragmas (t *testing.T) {
	root := parse(t, "%prec + -\n%assoc + left\nr = \"x\"")
	ops, _ := root.Ch[0].Attr("ops")
	require.Equal(t, []string{"+", "-"}, ops)
	op, _ := root.Ch[1].Attr("op")
	assoc, _ := root.Ch[1].Attr("assoc")
	require.Equal(t, "+", op)
	require.Equal(t, "left", assoc)
}

func TestParseErrorOnUnterminatedString (t *testing.T) {
	_, err := grammarparser.ParseString("<test>", `r = "abc`)
	require.Error(t, err)
}

func TestParseErrorOnEmptyRuleBody (t *testing.T) {
	_, err := grammarparser.ParseString("<test>", "r =\ns = \"a\"")
	require.Error(t, err)
}

func TestParseErrorOnDuplicateRule (t *testing.T) {
	_, err := grammarparser.ParseString("<test>", "r = \"a\"\nr = \"b\"")
	require.Error(t, err)
}
