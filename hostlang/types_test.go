package hostlang_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava12/floyd/ast"
	"github.com/ava12/floyd/hostlang"
)

func newTypeEnv () *hostlang.TypeEnv {
	return &hostlang.TypeEnv{
		Scopes:       hostlang.NewTypeScopes(),
		ExternTypes:  map[string]hostlang.Type{},
		BuiltinTypes: map[string]hostlang.Type{},
	}
}

func TestCheckExprLiterals (t *testing.T) {
	env := newTypeEnv()
	ty, err := hostlang.CheckExpr(env, ast.New(ast.KindENum, "1"))
	require.NoError(t, err)
	require.Equal(t, hostlang.TInt, ty)

	ty, err = hostlang.CheckExpr(env, ast.New(ast.KindELit, "x"))
	require.NoError(t, err)
	require.Equal(t, hostlang.TStr, ty)
}

func TestCheckExprPlusStringOK (t *testing.T) {
	env := newTypeEnv()
	n := ast.New(ast.KindEPlus, nil, ast.New(ast.KindELit, "a"), ast.New(ast.KindELit, "b"))
	ty, err := hostlang.CheckExpr(env, n)
	require.NoError(t, err)
	require.Equal(t, hostlang.TStr, ty)
}

func TestCheckExprPlusCertainMismatchRaises (t *testing.T) {
	env := newTypeEnv()
	n := ast.New(ast.KindEPlus, nil, ast.New(ast.KindELit, "a"), ast.New(ast.KindENum, "1"))
	_, err := hostlang.CheckExpr(env, n)
	require.Error(t, err)
}

func TestCheckExprLeavesAnyOperandsAlone (t *testing.T) {
	env := newTypeEnv()
	unknown := ident("mystery", hostlang.IdentExtern)
	n := ast.New(ast.KindEPlus, nil, unknown, ast.New(ast.KindENum, "1"))
	ty, err := hostlang.CheckExpr(env, n)
	require.NoError(t, err)
	require.Equal(t, hostlang.TAny, ty)
}

func TestCheckExprIdentLooksUpScope (t *testing.T) {
	env := newTypeEnv()
	env.Scopes.Bind("n", hostlang.TInt)
	ty, err := hostlang.CheckExpr(env, ident("n", hostlang.IdentLocal))
	require.NoError(t, err)
	require.Equal(t, hostlang.TInt, ty)
}

func TestNumericPromotionYieldsFloat (t *testing.T) {
	env := newTypeEnv()
	n := ast.New(ast.KindEMinus, nil, ast.New(ast.KindENum, "1"), ast.New(ast.KindEConst, "Infinity"))
	ty, err := hostlang.CheckExpr(env, n)
	require.NoError(t, err)
	require.Equal(t, hostlang.TFloat, ty)
}
