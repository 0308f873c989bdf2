package eval_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tan-go/internal/config"
	"tan-go/internal/expr"
	"tan-go/internal/pipeline"
)

// assertExprEqual diffs two Expression trees structurally via expr.Equal
// (spec.md §3's own `=`-operator semantics), registered as a cmp.Comparer so
// cmp never reflects into the unexported mutex/slice fields backing *Array,
// *Map and *List.
func assertExprEqual(t *testing.T, want, got expr.Expression) {
	t.Helper()
	if diff := cmp.Diff(want, got, cmp.Comparer(expr.Equal)); diff != "" {
		t.Errorf("expression tree mismatch (-want +got):\n%s", diff)
	}
}

func evalSrc(t *testing.T, src string) (expr.Expression, error) {
	t.Helper()
	dir := t.TempDir()
	runner := pipeline.NewRunner(config.Default(), dir)
	ctx := runner.NewContext("<test>")
	v, err := pipeline.EvalString(src, ctx)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func TestBreakOutsideLoopIsAnError(t *testing.T) {
	_, err := evalSrc(t, `(break)`)
	require.NotNil(t, err, "a break with no enclosing loop must surface as an error, not a silent no-op")
}

func TestContinueOutsideLoopIsAnError(t *testing.T) {
	_, err := evalSrc(t, `(continue)`)
	require.NotNil(t, err)
}

func TestReturnUnwindsToCallingFunc(t *testing.T) {
	v, err := evalSrc(t, `(let f (Func [n] (do (return (* n 2)) 999))) (f 5)`)
	require.Nil(t, err)
	assert.Equal(t, expr.Int{Value: 10}, expr.Unpack(v))
}

func TestQuotReturnsUnevaluatedTree(t *testing.T) {
	v, err := evalSrc(t, `(quot (+ 1 (* 2 3)))`)
	require.Nil(t, err)

	want := expr.NewList(
		expr.Symbol{Name: "+"},
		expr.Int{Value: 1},
		expr.NewList(expr.Symbol{Name: "*"}, expr.Int{Value: 2}, expr.Int{Value: 3}),
	)
	assertExprEqual(t, want, expr.Unpack(v))
}

func TestAndOrNot(t *testing.T) {
	v, err := evalSrc(t, `(and true true)`)
	require.Nil(t, err)
	assert.Equal(t, expr.True, expr.Unpack(v))

	v, err = evalSrc(t, `(or false true)`)
	require.Nil(t, err)
	assert.Equal(t, expr.True, expr.Unpack(v))

	v, err = evalSrc(t, `(not true)`)
	require.Nil(t, err)
	assert.Equal(t, expr.False, expr.Unpack(v))
}
