package floyd_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/floyd/cache"
	"github.com/ava12/floyd/hostlang"

	"github.com/ava12/floyd"
)

func TestParseCompilesAndRunsInOneCall (t *testing.T) {
	res, err := floyd.Parse(`rule = "a" "b" -> [$1, $2]`, "ab", "<input>", nil, "")
	require.NoError(t, err)
	assert.Nil(t, res.Err)
	assert.Equal(t, []hostlang.Value{"a", "b"}, res.Val)
}

func TestParseReportsPositionOnFailure (t *testing.T) {
	res, err := floyd.Parse(`rule = "a" "b"`, "ax", "<input>", nil, "")
	require.Error(t, err)
	assert.Equal(t, err, res.Err)
	assert.Equal(t, 1, res.Pos)
}

func TestCompileReusesProgramAcrossParses (t *testing.T) {
	p, err := floyd.Compile(`num = /[0-9]+/ -> atoi($1, 10)`)
	require.NoError(t, err)

	res, err := p.Parse("12", "<a>", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(12), res.Val)

	res, err = p.Parse("34", "<b>", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(34), res.Val)
}

func TestProgramParseFromEntersANamedRule (t *testing.T) {
	p, err := floyd.Compile(`
start = "never"
other = /[0-9]+/ -> atoi($1, 10)
`)
	require.NoError(t, err)

	res, err := p.ParseFrom("9", "<input>", nil, "other")
	require.NoError(t, err)
	assert.Equal(t, int64(9), res.Val)
}

func TestProgramParseFromRejectsAnUnknownRule (t *testing.T) {
	p, err := floyd.Compile(`start = "x"`)
	require.NoError(t, err)

	_, err = p.ParseFrom("x", "<input>", nil, "missing")
	assert.Error(t, err)
}

func TestExternsBindConstAndFuncAndPFunc (t *testing.T) {
	p, err := floyd.Compile(`
%externs = limit -> 0
%externs = double -> func
%externs = markPos -> pfunc
rule = /[0-9]+/:d -> double(atoi(d, 10)) + limit + markPos()
`)
	require.NoError(t, err)

	externs := floyd.Externs{
		"limit": int64(100),
		"double": hostlang.Func(func (a []hostlang.Value) (hostlang.Value, error) {
			n, _ := a[0].(int64)
			return n * 2, nil
		}),
		"markPos": hostlang.PFunc(func (m hostlang.Machine, a []hostlang.Value) (hostlang.Value, error) {
			return int64(m.Pos()), nil
		}),
	}
	res, err := p.Parse("5", "<input>", externs)
	require.NoError(t, err)
	assert.Equal(t, int64(111), res.Val)
}

func TestWithCacheSkipsReanalysisOnASecondCompile (t *testing.T) {
	dir := t.TempDir()
	c, err := cache.Open(dir)
	require.NoError(t, err)

	grammar := `rule = "a"+ -> len($1)`
	p1, err := floyd.Compile(grammar, floyd.WithCache(c))
	require.NoError(t, err)
	res1, err := p1.Parse("aaa", "<input>", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res1.Val)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	p2, err := floyd.Compile(grammar, floyd.WithCache(c))
	require.NoError(t, err)
	res2, err := p2.Parse("aaaaa", "<input>", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), res2.Val)
}

func TestWithDatafileSuppliesDefaultExternsOverridableByCallers (t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "defaults.yaml")
	require.NoError(t, os.WriteFile(path, []byte("greeting: hi\n"), 0o644))

	p, err := floyd.Compile(`
%externs = greeting -> "unset"
rule = "x" -> greeting
`, floyd.WithDatafile(path))
	require.NoError(t, err)

	res, err := p.Parse("x", "<input>", nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", res.Val)

	res, err = p.Parse("x", "<input>", floyd.Externs{"greeting": "overridden"})
	require.NoError(t, err)
	assert.Equal(t, "overridden", res.Val)
}

func TestWithMaxStepsAbortsARunawayGrammar (t *testing.T) {
	p, err := floyd.Compile(`rule = "a"* -> $1`, floyd.WithMaxSteps(3))
	require.NoError(t, err)

	_, err = p.Parse("aaaaaaaaaa", "<input>", nil)
	assert.Error(t, err)
}

func TestCompileRejectsAGrammarSyntaxError (t *testing.T) {
	_, err := floyd.Compile(`rule = `)
	assert.Error(t, err)
}

func TestCompileRejectsAnUnresolvedIdentifier (t *testing.T) {
	_, err := floyd.Compile(`rule = "x" -> nope`)
	assert.Error(t, err)
}
