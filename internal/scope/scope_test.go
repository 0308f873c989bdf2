package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tan-go/internal/expr"
	"tan-go/internal/scope"
)

func TestScopeLookupWalksToRoot(t *testing.T) {
	root := scope.New(nil)
	root.Insert("x", expr.Int{Value: 1})
	child := scope.New(root)

	v, ok := child.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, expr.Int{Value: 1}, v)
}

func TestScopeInsertShadowsOnlyCurrentFrame(t *testing.T) {
	root := scope.New(nil)
	root.Insert("x", expr.Int{Value: 1})
	child := scope.New(root)
	child.Insert("x", expr.Int{Value: 2})

	v, ok := child.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, expr.Int{Value: 2}, v)

	rv, ok := root.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, expr.Int{Value: 1}, rv)
}

func TestScopeUpdateMutatesExistingBinding(t *testing.T) {
	root := scope.New(nil)
	root.Insert("x", expr.Int{Value: 1})
	child := scope.New(root)

	child.Update("x", expr.Int{Value: 9})

	_, childHas := child.Lookup("x")
	require.True(t, childHas)
	assert.False(t, child.Has("x"), "Update must mutate the ancestor's frame, not insert a new one in child")

	rv, _ := root.Lookup("x")
	assert.Equal(t, expr.Int{Value: 9}, rv)
}

func TestScopeUpdateInsertsAtRootWhenUnbound(t *testing.T) {
	root := scope.New(nil)
	child := scope.New(root)

	child.Update("y", expr.Int{Value: 5})

	assert.True(t, root.Has("y"))
	assert.False(t, child.Has("y"))
}

func TestScopeHasChecksOnlyOwnFrame(t *testing.T) {
	root := scope.New(nil)
	root.Insert("x", expr.Int{Value: 1})
	child := scope.New(root)

	assert.True(t, root.Has("x"))
	assert.False(t, child.Has("x"))
}

func TestScopeBindingsSnapshotsOwnFrame(t *testing.T) {
	root := scope.New(nil)
	root.Insert("x", expr.Int{Value: 1})
	child := scope.New(root)
	child.Insert("y", expr.Int{Value: 2})

	bindings := child.Bindings()
	assert.Len(t, bindings, 1)
	_, hasX := bindings["x"]
	assert.False(t, hasX)
}

func TestRegistryMemoizesByCanonicalPath(t *testing.T) {
	reg := scope.NewContext("/root").Registry
	m := &scope.Module{Stem: "greeter", Path: "/root/@std/greeter"}

	stored := reg.Store("/root/@std/greeter", m)
	assert.Same(t, m, stored)

	other := &scope.Module{Stem: "greeter", Path: "/root/@std/greeter"}
	won := reg.Store("/root/@std/greeter", other)
	assert.Same(t, m, won, "a concurrent second store of the same path must keep the first module")

	assert.Equal(t, 1, reg.Len())

	got, ok := reg.Get("/root/@std/greeter")
	require.True(t, ok)
	assert.Same(t, m, got)
}

func TestContextEnterScopeRestoresOnExit(t *testing.T) {
	ctx := scope.NewContext("/root")
	outer := ctx.Scope
	restore := ctx.EnterScope()
	assert.NotSame(t, outer, ctx.Scope)
	restore()
	assert.Same(t, outer, ctx.Scope)
}

func TestContextLookupDynamicVsLexical(t *testing.T) {
	ctx := scope.NewContext("/root")
	ctx.Scope.Insert("x", expr.Int{Value: 1})
	ctx.DynamicScope.Insert("*greet*", expr.String{Value: "hi"})

	v, ok := ctx.Lookup(expr.Symbol{Name: "x"})
	require.True(t, ok)
	assert.Equal(t, expr.Int{Value: 1}, v)

	dv, ok := ctx.Lookup(expr.Symbol{Name: "*greet*"})
	require.True(t, ok)
	assert.Equal(t, expr.String{Value: "hi"}, dv)
}
