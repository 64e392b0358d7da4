package builtins_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava12/floyd/builtins"
	"github.com/ava12/floyd/hostlang"
)

func call (t *testing.T, fns map[string]hostlang.Func, name string, args ...hostlang.Value) hostlang.Value {
	t.Helper()
	fn, ok := fns[name]
	require.True(t, ok, "missing builtin %q", name)
	v, err := fn(args)
	require.NoError(t, err)
	return v
}

func TestAtoiParsesWithBase (t *testing.T) {
	fns := builtins.New()
	require.Equal(t, int64(255), call(t, fns, "atoi", "ff", int64(16)))
}

func TestAtofSwitchesOnDecimalPoint (t *testing.T) {
	fns := builtins.New()
	require.Equal(t, float64(3.5), call(t, fns, "atof", "3.5"))
	require.Equal(t, int64(3), call(t, fns, "atof", "3"))
}

func TestCatJoinsWithoutSeparator (t *testing.T) {
	fns := builtins.New()
	v := call(t, fns, "cat", []hostlang.Value{"a", "b", "c"})
	require.Equal(t, "abc", v)
}

func TestConsPrependsElement (t *testing.T) {
	fns := builtins.New()
	v := call(t, fns, "cons", int64(1), []hostlang.Value{int64(2), int64(3)})
	require.Equal(t, []hostlang.Value{int64(1), int64(2), int64(3)}, v)
}

func TestConcatAppendsLists (t *testing.T) {
	fns := builtins.New()
	v := call(t, fns, "concat", []hostlang.Value{int64(1)}, []hostlang.Value{int64(2)})
	require.Equal(t, []hostlang.Value{int64(1), int64(2)}, v)
}

func TestDictBuildsFromPairs (t *testing.T) {
	fns := builtins.New()
	pairs := []hostlang.Value{
		[]hostlang.Value{"a", int64(1)},
		[]hostlang.Value{"b", int64(2)},
	}
	v := call(t, fns, "dict", pairs)
	require.Equal(t, map[string]hostlang.Value{"a": int64(1), "b": int64(2)}, v)
}

func TestGetFallsBackToDefault (t *testing.T) {
	fns := builtins.New()
	d := map[string]hostlang.Value{"a": int64(1)}
	require.Equal(t, int64(1), call(t, fns, "get", d, "a"))
	require.Equal(t, int64(9), call(t, fns, "get", d, "missing", int64(9)))
}

func TestGetWithoutDefaultRaises (t *testing.T) {
	fns := builtins.New()
	d := map[string]hostlang.Value{}
	fn := fns["get"]
	_, err := fn([]hostlang.Value{d, "missing"})
	require.Error(t, err)
}

func TestHasReportsPresence (t *testing.T) {
	fns := builtins.New()
	d := map[string]hostlang.Value{"a": int64(1)}
	require.Equal(t, true, call(t, fns, "has", d, "a"))
	require.Equal(t, false, call(t, fns, "has", d, "b"))
}

func TestInUsesDeepEquality (t *testing.T) {
	fns := builtins.New()
	xs := []hostlang.Value{[]hostlang.Value{int64(1)}, []hostlang.Value{int64(2)}}
	require.Equal(t, true, call(t, fns, "in", []hostlang.Value{int64(1)}, xs))
	require.Equal(t, false, call(t, fns, "in", []hostlang.Value{int64(3)}, xs))
}

func TestEqualDeepComparesNestedStructures (t *testing.T) {
	fns := builtins.New()
	a := map[string]hostlang.Value{"x": []hostlang.Value{int64(1), int64(2)}}
	b := map[string]hostlang.Value{"x": []hostlang.Value{int64(1), int64(2)}}
	require.Equal(t, true, call(t, fns, "equal", a, b))
}

func TestItouAndUtoiRoundTrip (t *testing.T) {
	fns := builtins.New()
	s := call(t, fns, "itou", int64(65))
	require.Equal(t, "A", s)
	n := call(t, fns, "utoi", "A")
	require.Equal(t, int64(65), n)
}

func TestXtoiAndXtouParseHex (t *testing.T) {
	fns := builtins.New()
	require.Equal(t, int64(255), call(t, fns, "xtoi", "ff"))
	require.Equal(t, "ÿ", call(t, fns, "xtou", "ff"))
}

func TestJoinUsesSeparator (t *testing.T) {
	fns := builtins.New()
	v := call(t, fns, "join", ",", []hostlang.Value{"a", "b", "c"})
	require.Equal(t, "a,b,c", v)
}

func TestKeysValuesPairsAreSorted (t *testing.T) {
	fns := builtins.New()
	d := map[string]hostlang.Value{"b": int64(2), "a": int64(1)}
	require.Equal(t, []hostlang.Value{"a", "b"}, call(t, fns, "keys", d))
	require.Equal(t, []hostlang.Value{int64(1), int64(2)}, call(t, fns, "values", d))
	require.Equal(t, []hostlang.Value{
		[]hostlang.Value{"a", int64(1)},
		[]hostlang.Value{"b", int64(2)},
	}, call(t, fns, "pairs", d))
}

func TestLenAcrossTypes (t *testing.T) {
	fns := builtins.New()
	require.Equal(t, int64(3), call(t, fns, "len", "abc"))
	require.Equal(t, int64(2), call(t, fns, "len", []hostlang.Value{int64(1), int64(2)}))
}

func TestMapAppliesFunction (t *testing.T) {
	fns := builtins.New()
	double := hostlang.Func(func (args []hostlang.Value) (hostlang.Value, error) {
		return args[0].(int64) * 2, nil
	})
	v := call(t, fns, "map", double, []hostlang.Value{int64(1), int64(2), int64(3)})
	require.Equal(t, []hostlang.Value{int64(2), int64(4), int64(6)}, v)
}

func TestSliceAndSubstr (t *testing.T) {
	fns := builtins.New()
	require.Equal(t, "ell", call(t, fns, "substr", "hello", int64(1), int64(4)))
	require.Equal(t, []hostlang.Value{int64(2), int64(3)}, call(t, fns, "slice", []hostlang.Value{int64(1), int64(2), int64(3), int64(4)}, int64(1), int64(3)))
}

func TestSortOrdersNumbersAndStrings (t *testing.T) {
	fns := builtins.New()
	v := call(t, fns, "sort", []hostlang.Value{int64(3), int64(1), int64(2)})
	require.Equal(t, []hostlang.Value{int64(1), int64(2), int64(3)}, v)
}

func TestSplitAndReplace (t *testing.T) {
	fns := builtins.New()
	require.Equal(t, []hostlang.Value{"a", "b", "c"}, call(t, fns, "split", "a,b,c", ","))
	require.Equal(t, "hxllo", call(t, fns, "replace", "hello", "e", "x"))
}

func TestStr2tdAndTd2strRoundTrip (t *testing.T) {
	fns := builtins.New()
	v := call(t, fns, "str2td", "1500ms")
	str := call(t, fns, "td2str", v)
	require.Equal(t, "1.5s", str)
}

func TestThrowReturnsHostError (t *testing.T) {
	fns := builtins.New()
	fn := fns["throw"]
	_, err := fn([]hostlang.Value{"boom"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")
}

func TestUcategoryClassifiesLettersAndDigits (t *testing.T) {
	fns := builtins.New()
	require.Equal(t, "Lu", call(t, fns, "ucategory", "A"))
	require.Equal(t, "Nd", call(t, fns, "ucategory", "5"))
}

func TestDedentStripsColumnsFromContinuationLines (t *testing.T) {
	fns := builtins.New()
	in := "first\n    second\n    third"
	v := call(t, fns, "dedent", in, int64(0), int64(4))
	require.Equal(t, "first\nsecond\nthird", v)
}

func TestIsTypePredicates (t *testing.T) {
	fns := builtins.New()
	require.Equal(t, true, call(t, fns, "is_int", int64(1)))
	require.Equal(t, false, call(t, fns, "is_int", "1"))
	require.Equal(t, true, call(t, fns, "is_dict", map[string]hostlang.Value{}))
	require.Equal(t, true, call(t, fns, "is_list", []hostlang.Value{}))
}

func TestMachineBuiltinsExposePosColnoNode (t *testing.T) {
	mfns := builtins.NewMachineBuiltins()
	m := testMachine{pos: 4, col: 2, rule: "expr"}

	v, err := mfns["pos"](m, nil)
	require.NoError(t, err)
	require.Equal(t, int64(4), v)

	v, err = mfns["colno"](m, nil)
	require.NoError(t, err)
	require.Equal(t, int64(2), v)

	v, err = mfns["node"](m, []hostlang.Value{"tag", int64(1)})
	require.NoError(t, err)
	require.Equal(t, "tag", v)
}

type testMachine struct {
	pos, col int
	rule     string
}

func (m testMachine) Pos () int         { return m.pos }
func (m testMachine) ColNo () int       { return m.col }
func (m testMachine) RuleName () string { return m.rule }
