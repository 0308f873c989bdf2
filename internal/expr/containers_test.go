package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tan-go/internal/expr"
)

func TestArrayPushPop(t *testing.T) {
	arr := expr.NewArray(expr.Int{Value: 1}, expr.Int{Value: 2})
	arr.Push(expr.Int{Value: 3})
	assert.Equal(t, 3, arr.Len())

	v, ok := arr.Get(2)
	require.True(t, ok)
	assert.Equal(t, expr.Int{Value: 3}, v)

	popped, ok := arr.Pop()
	require.True(t, ok)
	assert.Equal(t, expr.Int{Value: 3}, popped)
	assert.Equal(t, 2, arr.Len())

	_, ok = arr.Get(5)
	assert.False(t, ok)
}

func TestArraySnapshotIsIndependentCopy(t *testing.T) {
	arr := expr.NewArray(expr.Int{Value: 1})
	snap := arr.Snapshot()
	arr.Push(expr.Int{Value: 2})
	assert.Len(t, snap, 1, "snapshot must not observe a later mutation")
	assert.Equal(t, 2, arr.Len())
}

func TestMapSetGetDelete(t *testing.T) {
	m := expr.NewMap()
	m.Set(expr.KeySymbol{Name: "a"}, expr.Int{Value: 1})
	m.Set(expr.String{Value: "b"}, expr.Int{Value: 2})

	v, ok := m.Get(expr.KeySymbol{Name: "a"})
	require.True(t, ok)
	assert.Equal(t, expr.Int{Value: 1}, v)

	assert.Equal(t, 2, m.Len())
	assert.True(t, m.Delete(expr.KeySymbol{Name: "a"}))
	assert.Equal(t, 1, m.Len())
}

func TestEqualIgnoresAnnotations(t *testing.T) {
	a := expr.Int{Value: 42}
	b := expr.Annotate(expr.Int{Value: 42}, "note", expr.String{Value: "x"})
	assert.True(t, expr.Equal(a, b))
}

func TestEqualArraysElementwise(t *testing.T) {
	a := expr.NewArray(expr.Int{Value: 1}, expr.Int{Value: 2})
	b := expr.NewArray(expr.Int{Value: 1}, expr.Int{Value: 2})
	c := expr.NewArray(expr.Int{Value: 1}, expr.Int{Value: 3})
	assert.True(t, expr.Equal(a, b))
	assert.False(t, expr.Equal(a, c))
}
