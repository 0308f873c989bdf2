package stdlib_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tan-go/internal/config"
	"tan-go/internal/expr"
	"tan-go/internal/pipeline"
)

func evalStdlib(t *testing.T, src string) expr.Expression {
	t.Helper()
	dir := t.TempDir()
	runner := pipeline.NewRunner(config.Default(), dir)
	ctx := runner.NewContext("<test>")
	v, err := pipeline.EvalString(src, ctx)
	require.Nil(t, err, "unexpected error evaluating %q: %v", src, err)
	return v
}

func TestArithmeticBuiltins(t *testing.T) {
	cases := []struct {
		src  string
		want expr.Expression
	}{
		{`(+ 1 2)`, expr.Int{Value: 3}},
		{`(+ 1 2 3 4)`, expr.Int{Value: 10}},
		{`(- 10 3)`, expr.Int{Value: 7}},
		{`(* 2 3 4)`, expr.Int{Value: 24}},
		{`(/ 10 2)`, expr.Int{Value: 5}},
		{`(% 10 3)`, expr.Int{Value: 1}},
		{`(+ 1.5 2.5)`, expr.Float{Value: 4.0}},
		{`(+ 1 2.5)`, expr.Float{Value: 3.5}},
	}
	for _, c := range cases {
		got := expr.Unpack(evalStdlib(t, c.src))
		assert.Equal(t, c.want, got, "evaluating %s", c.src)
	}
}

func TestComparisonBuiltins(t *testing.T) {
	cases := []struct {
		src  string
		want bool
	}{
		{`(< 1 2)`, true},
		{`(< 2 1)`, false},
		{`(= 3 3)`, true},
		{`(!= 3 4)`, true},
		{`(>= 3 3)`, true},
		{`(<= 4 3)`, false},
	}
	for _, c := range cases {
		got := expr.Unpack(evalStdlib(t, c.src))
		assert.Equal(t, expr.BoolOf(c.want), got, "evaluating %s", c.src)
	}
}

func TestLenOverContainers(t *testing.T) {
	assert.Equal(t, expr.Int{Value: 5}, expr.Unpack(evalStdlib(t, `(len "hello")`)))
	assert.Equal(t, expr.Int{Value: 3}, expr.Unpack(evalStdlib(t, `(len [1 2 3])`)))
}
