package optimize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tan-go/internal/expr"
	"tan-go/internal/optimize"
)

func TestOptimizeCollapsesArrayForm(t *testing.T) {
	form := expr.NewList(expr.Type{Name: "Array"}, expr.Int{Value: 1}, expr.Int{Value: 2})
	out := optimize.Optimize(form)

	arr, ok := out.(*expr.Array)
	require.True(t, ok, "expected *expr.Array, got %T", out)
	assert.Equal(t, 2, arr.Len())
}

func TestOptimizeCollapsesMapForm(t *testing.T) {
	form := expr.NewList(
		expr.Type{Name: "Map"},
		expr.KeySymbol{Name: "a"}, expr.Int{Value: 1},
		expr.KeySymbol{Name: "b"}, expr.Int{Value: 2},
	)
	out := optimize.Optimize(form)

	m, ok := out.(*expr.Map)
	require.True(t, ok, "expected *expr.Map, got %T", out)
	assert.Equal(t, 2, m.Len())
}

func TestOptimizeLeavesOrdinaryCallsAsList(t *testing.T) {
	form := expr.NewList(expr.Symbol{Name: "+"}, expr.Int{Value: 1}, expr.Int{Value: 2})
	out := optimize.Optimize(form)
	_, ok := out.(*expr.List)
	assert.True(t, ok)
}

func TestOptimizeRecursesIntoNestedArrayForms(t *testing.T) {
	inner := expr.NewList(expr.Type{Name: "Array"}, expr.Int{Value: 9})
	outer := expr.NewList(expr.Type{Name: "Array"}, inner)
	out := optimize.Optimize(outer)

	arr, ok := out.(*expr.Array)
	require.True(t, ok)
	require.Equal(t, 1, arr.Len())
	v, _ := arr.Get(0)
	_, ok = v.(*expr.Array)
	assert.True(t, ok, "the nested Array form must collapse too")
}

func TestOptimizePreservesAnnotations(t *testing.T) {
	form := expr.WithType(expr.NewList(expr.Type{Name: "Array"}, expr.Int{Value: 1}), "Stack")
	out := optimize.Optimize(form)

	typ, ok := expr.GetAnnotation(out, "type")
	require.True(t, ok)
	assert.Equal(t, expr.Type{Name: "Stack"}, typ)
}

func TestAllOptimizesEveryTopLevelExpression(t *testing.T) {
	exprs := []expr.Expression{
		expr.NewList(expr.Type{Name: "Array"}, expr.Int{Value: 1}),
		expr.Int{Value: 5},
	}
	out := optimize.All(exprs)
	require.Len(t, out, 2)
	_, ok := out[0].(*expr.Array)
	assert.True(t, ok)
	assert.Equal(t, expr.Int{Value: 5}, out[1])
}
