package prune_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tan-go/internal/expr"
	"tan-go/internal/prune"
)

func TestPruneLeavesPlainStringUnchanged(t *testing.T) {
	out := prune.Prune(expr.String{Value: "no markers here"})
	assert.Equal(t, expr.String{Value: "no markers here"}, out)
}

func TestPruneExpandsSingleInterpolation(t *testing.T) {
	out := prune.Prune(expr.String{Value: "hello ${name}"})
	list, ok := out.(*expr.List)
	require.True(t, ok, "expected a (String ...) call form, got %T", out)

	require.GreaterOrEqual(t, len(list.Elements), 2)
	assert.Equal(t, expr.Symbol{Name: "String"}, expr.Unpack(list.Elements[0]))
	assert.Equal(t, expr.String{Value: "hello "}, expr.Unpack(list.Elements[1]))
	assert.Equal(t, expr.Symbol{Name: "name"}, expr.Unpack(list.Elements[2]))
}

func TestPruneExpandsMultipleInterpolationsAndTrailingText(t *testing.T) {
	out := prune.Prune(expr.String{Value: "${a}+${b}=done"})
	list, ok := out.(*expr.List)
	require.True(t, ok)

	// String, "", a, "+", b, "=done"
	require.Len(t, list.Elements, 6)
	assert.Equal(t, expr.String{Value: ""}, expr.Unpack(list.Elements[1]))
	assert.Equal(t, expr.Symbol{Name: "a"}, expr.Unpack(list.Elements[2]))
	assert.Equal(t, expr.String{Value: "+"}, expr.Unpack(list.Elements[3]))
	assert.Equal(t, expr.Symbol{Name: "b"}, expr.Unpack(list.Elements[4]))
	assert.Equal(t, expr.String{Value: "=done"}, expr.Unpack(list.Elements[5]))
}

func TestPruneRecursesIntoListElements(t *testing.T) {
	form := expr.NewList(expr.Symbol{Name: "print"}, expr.String{Value: "x=${x}"})
	out := prune.Prune(form)
	list, ok := out.(*expr.List)
	require.True(t, ok)
	_, ok = expr.Unpack(list.Elements[1]).(*expr.List)
	assert.True(t, ok, "the nested interpolated string must also be pruned")
}

func TestAllPrunesEveryTopLevelExpression(t *testing.T) {
	out := prune.All([]expr.Expression{expr.String{Value: "a${1}"}, expr.Int{Value: 9}})
	require.Len(t, out, 2)
	_, ok := out[0].(*expr.List)
	assert.True(t, ok)
	assert.Equal(t, expr.Int{Value: 9}, out[1])
}
