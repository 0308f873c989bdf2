package macroexpand_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tan-go/internal/config"
	"tan-go/internal/expr"
	"tan-go/internal/pipeline"
)

func evalMx(t *testing.T, src string) (expr.Expression, error) {
	t.Helper()
	dir := t.TempDir()
	runner := pipeline.NewRunner(config.Default(), dir)
	ctx := runner.NewContext("<test>")
	return pipeline.EvalString(src, ctx)
}

// Property 8: a macro rewrites its call site at expansion time and is not
// itself a runtime value reachable through ordinary evaluation of its name.
// A bare symbol inside `quot` stays a literal symbol (only `unquot` resolves
// it against the call scope), so the parameter must be spliced explicitly.
func TestMacroExpandsAtCallSite(t *testing.T) {
	v, err := evalMx(t, `(let double (Macro [x] (quot (* 2 (unquot x))))) (double 21)`)
	require.Nil(t, err)
	assert.Equal(t, expr.Int{Value: 42}, expr.Unpack(v))
}

func TestMacroBindingElidesFromLetOutput(t *testing.T) {
	// A top-level `let` whose only binding is a macro registration elides
	// entirely from the expanded program; the next top-level expression is
	// still evaluated normally.
	v, err := evalMx(t, `(let m (Macro [x] (quot x))) 7`)
	require.Nil(t, err)
	assert.Equal(t, expr.Int{Value: 7}, expr.Unpack(v))
}

func TestCompoundAssignDesugars(t *testing.T) {
	v, err := evalMx(t, `(let x 10) (+<- x 5) x`)
	require.Nil(t, err)
	assert.Equal(t, expr.Int{Value: 15}, expr.Unpack(v))
}

func TestFunctionCaptureSugar(t *testing.T) {
	v, err := evalMx(t, `(let add1 (+ %0 1)) (add1 9)`)
	require.Nil(t, err)
	assert.Equal(t, expr.Int{Value: 10}, expr.Unpack(v))
}

func TestQuoteUnquoteInsideMacroBody(t *testing.T) {
	v, err := evalMx(t, `(let m (Macro [x] (quot (+ 1 (unquot x))))) (m 41)`)
	require.Nil(t, err)
	assert.Equal(t, expr.Int{Value: 42}, expr.Unpack(v))
}
