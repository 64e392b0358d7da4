package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/floyd/analyzer"
	"github.com/ava12/floyd/ast"
	"github.com/ava12/floyd/grammarparser"
	"github.com/ava12/floyd/hostlang"
	"github.com/ava12/floyd/source"
)

func mustAnalyze (t *testing.T, text string, opts analyzer.Options) (*analyzer.Grammar, error) {
	t.Helper()
	src := source.New("<test>", []byte(text))
	root, err := grammarparser.Parse(src)
	require.NoError(t, err)
	return analyzer.Analyze(root, src, opts)
}

func TestPragmaCollectionAndRuleOrder (t *testing.T) {
	g, err := mustAnalyze(t, `
%whitespace = [ \t\n]+
start = "a" "b"
second = "c"
`, analyzer.Options{})
	require.NoError(t, err)
	assert.Equal(t, "start", g.StartingRule)
	assert.Equal(t, []string{"start", "second"}, g.Order)
	assert.NotNil(t, g.Whitespace)
}

func TestPrecPragmaAssignsIncreasingLevels (t *testing.T) {
	g, err := mustAnalyze(t, `
%prec "+" "-"
%prec "*" "/"
%assoc "*" right
expr = expr:l "+" expr:r -> l + r
     | num
num = /[0-9]+/ -> $1
`, analyzer.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, g.Prec["+"])
	assert.Equal(t, 1, g.Prec["-"])
	assert.Equal(t, 2, g.Prec["*"])
	assert.Equal(t, "right", g.Assoc["*"])
}

func identKinds (n *ast.Node) map[string]string {
	out := map[string]string{}
	for _, id := range ast.Collect(n, func (nn *ast.Node) bool { return nn.Kind == ast.KindEIdent }) {
		out[id.Str()] = id.StrAttr("ident_kind")
	}
	return out
}

func TestResolveIdentsClassifiesLocalsAndBuiltins (t *testing.T) {
	g, err := mustAnalyze(t, `
rule = "x":a "y":b -> [a, b, len(a)]
`, analyzer.Options{BuiltinNames: map[string]bool{"len": true}})
	require.NoError(t, err)
	kinds := identKinds(g.Rules["rule"])
	assert.Equal(t, hostlang.IdentLocal, kinds["a"])
	assert.Equal(t, hostlang.IdentLocal, kinds["b"])
	assert.Equal(t, hostlang.IdentFunction, kinds["len"])
}

func TestResolveIdentsClassifiesOuterAcrossNestedAction (t *testing.T) {
	g, err := mustAnalyze(t, `
rule = "x":a ("y":b -> [a, b])?
`, analyzer.Options{})
	require.NoError(t, err)
	kinds := identKinds(g.Rules["rule"])
	assert.Equal(t, hostlang.IdentOuter, kinds["a"])
	assert.Equal(t, hostlang.IdentLocal, kinds["b"])
}

func TestResolveIdentsRewritesCallAndGetitemAndQual (t *testing.T) {
	g, err := mustAnalyze(t, `
rule = "x":a -> a.f(a[0])
`, analyzer.Options{BuiltinNames: map[string]bool{}})
	require.NoError(t, err)
	action := g.Rules["rule"].Child(0)
	require.Equal(t, ast.KindAction, action.Kind)
	call := action.Child(1)
	assert.Equal(t, ast.KindECallInfix, call.Kind)
	qualRewrite := call.Child(0)
	assert.Equal(t, ast.KindEGetitemInfix, qualRewrite.Kind)
	assert.Equal(t, ast.KindELit, qualRewrite.Child(1).Kind)
	assert.Equal(t, "f", qualRewrite.Child(1).Str())
	arg := call.Child(1)
	assert.Equal(t, ast.KindEGetitemInfix, arg.Kind)
}

func TestUnresolvedIdentifierIsAnError (t *testing.T) {
	_, err := mustAnalyze(t, `rule = "x" -> nope`, analyzer.Options{})
	assert.Error(t, err)
}

func TestLeftRecursiveOperatorRuleBuildsTable (t *testing.T) {
	g, err := mustAnalyze(t, `
expr = expr:l "+" expr:r -> l + r
     | num
num = /[0-9]+/ -> $1
`, analyzer.Options{})
	require.NoError(t, err)
	assert.True(t, g.LeftrecRules["expr"])
	table := g.Operators["expr"]
	require.NotNil(t, table)
	require.Contains(t, table.Levels, 1)
	assert.Equal(t, "+", table.Levels[1][0].Literal)
	assert.False(t, table.Levels[1][0].Right)
	assert.Equal(t, ast.KindOperator, g.Rules["expr"].Child(0).Kind)
}

func TestLeftRecursionWithNoBaseCaseIsAnError (t *testing.T) {
	_, err := mustAnalyze(t, `a = a "x"`, analyzer.Options{})
	assert.Error(t, err)
}

func TestUnknownRuleReferenceIsAnError (t *testing.T) {
	_, err := mustAnalyze(t, `a = missing`, analyzer.Options{})
	assert.Error(t, err)
}

func TestFillerWrapsLeavesInNonTokenRules (t *testing.T) {
	g, err := mustAnalyze(t, `
%whitespace = [ \t]+
start = "a" "b"
`, analyzer.Options{})
	require.NoError(t, err)
	seq := g.Rules["start"].Child(0)
	require.Equal(t, ast.KindSeq, seq.Kind)
	require.Len(t, seq.Ch, 2)
	first := seq.Ch[0]
	require.Equal(t, ast.KindLabel, first.Kind)
	assert.Equal(t, "$1", first.Str())
	innerSeq := first.Child(0)
	require.Equal(t, ast.KindSeq, innerSeq.Kind)
	assert.Equal(t, ast.KindStar, innerSeq.Ch[0].Kind)
	assert.Equal(t, ast.KindLit, innerSeq.Ch[1].Kind)
}

func TestFillerSkipsTokenRuleInternals (t *testing.T) {
	g, err := mustAnalyze(t, `
%whitespace = [ \t]+
%tokens = num
start = num
num = /[0-9]+/
`, analyzer.Options{})
	require.NoError(t, err)
	numBody := g.Rules["num"].Child(0)
	assert.Equal(t, ast.KindLabel, numBody.Kind)
	assert.Equal(t, ast.KindRegexp, numBody.Child(0).Kind)
}

func TestPositionalLabelsAssignedToSequenceElements (t *testing.T) {
	g, err := mustAnalyze(t, `rule = "x" "y" "z" -> [$1, $2, $3]`, analyzer.Options{})
	require.NoError(t, err)
	action := g.Rules["rule"].Child(0)
	seq := action.Child(0)
	require.Equal(t, ast.KindSeq, seq.Kind)
	require.Len(t, seq.Ch, 3)
	for i, c := range seq.Ch {
		require.Equal(t, ast.KindLabel, c.Kind)
		assert.Equal(t, []string{"$1", "$2", "$3"}[i], c.Str())
	}
}

func TestLocalVarsListsPositionalAndNamedLabelsOnce (t *testing.T) {
	g, err := mustAnalyze(t, `rule = "x":a "y" "z" -> [a, $2, $3]`, analyzer.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"$1", "a", "$2", "$3"}, analyzer.LocalVars(g, "rule"))
}

func TestLocalVarsIsNilForAnUnknownRule (t *testing.T) {
	g, err := mustAnalyze(t, `rule = "x"`, analyzer.Options{})
	require.NoError(t, err)
	assert.Nil(t, analyzer.LocalVars(g, "missing"))
}

func TestTypeCheckRejectsStaticallyImpossibleArithmetic (t *testing.T) {
	_, err := mustAnalyze(t, `rule = "x":a -> a + 1`, analyzer.Options{})
	assert.Error(t, err)
}

func TestTypeCheckAcceptsWellTypedAction (t *testing.T) {
	_, err := mustAnalyze(t, `rule = "x":a "y":b -> a + b`, analyzer.Options{})
	assert.NoError(t, err)
}

func TestFeatureFlagsReflectGrammarContent (t *testing.T) {
	g, err := mustAnalyze(t, `
rule = /[0-9]+/ \p{L}
`, analyzer.Options{})
	require.NoError(t, err)
	assert.True(t, g.ReNeeded)
	assert.True(t, g.UnicodedataNeeded)
	assert.False(t, g.LeftrecNeeded)
}

func TestPfuncExternMarksLookupNeeded (t *testing.T) {
	g, err := mustAnalyze(t, `
%externs = f -> pfunc
rule = "x" -> f()
`, analyzer.Options{MachineNames: map[string]bool{}})
	require.NoError(t, err)
	assert.True(t, g.LookupNeeded)
}

func TestAppliedEndAndAnyResolveAsBuiltinRules (t *testing.T) {
	g, err := mustAnalyze(t, `rule = "foo" "bar" end`, analyzer.Options{})
	require.NoError(t, err)
	assert.False(t, g.LeftrecRules["rule"])

	g, err = mustAnalyze(t, `rule = "x" any`, analyzer.Options{})
	require.NoError(t, err)
	assert.False(t, g.LeftrecRules["rule"])
}
