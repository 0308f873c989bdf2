package callable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tan-go/internal/callable"
	"tan-go/internal/expr"
	"tan-go/internal/langerr"
	"tan-go/internal/scope"
)

func TestNewParamRecognizesRestSigil(t *testing.T) {
	p := callable.NewParam("...args")
	assert.True(t, p.Rest)
	assert.Equal(t, "args", p.Name)
	assert.Equal(t, "...args", p.String())
}

func TestNewParamPlain(t *testing.T) {
	p := callable.NewParam("x")
	assert.False(t, p.Rest)
	assert.Equal(t, "x", p.String())
}

func TestFuncStringAnonymousFallback(t *testing.T) {
	f := &callable.Func{Params: []callable.Param{{Name: "x"}}}
	assert.Contains(t, f.String(), "anonymous")
	assert.Contains(t, f.String(), "x")
}

func TestFuncKind(t *testing.T) {
	f := &callable.Func{Name: "id"}
	assert.Equal(t, expr.KindFunc, f.Kind())
}

func TestMacroKind(t *testing.T) {
	m := &callable.Macro{Name: "m"}
	assert.Equal(t, expr.KindMacro, m.Kind())
}

func TestForeignFuncCallable(t *testing.T) {
	ff := &callable.ForeignFunc{
		Name: "double",
		Call: func(args []expr.Expression, _ *scope.Context) (expr.Expression, *langerr.Error) {
			n := args[0].(expr.Int)
			return expr.Int{Value: n.Value * 2}, nil
		},
	}
	assert.Equal(t, expr.KindForeignFunc, ff.Kind())
	v, err := ff.Call([]expr.Expression{expr.Int{Value: 21}}, nil)
	assert.Nil(t, err)
	assert.Equal(t, expr.Int{Value: 42}, v)
}
