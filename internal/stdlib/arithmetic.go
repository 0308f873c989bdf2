package stdlib

import (
	"fmt"

	"tan-go/internal/expr"
	"tan-go/internal/langerr"
	"tan-go/internal/scope"
	"tan-go/internal/srcrange"
)

// dispatchSeparator must match internal/eval's method-key mangling scheme
// (spec.md §4.7, §8 property 6: "Given `+$$Int$$Int` and `+$$Float$$Float`
// bound, `(+ 1 2)` picks the Int version"). Duplicated here rather than
// imported to avoid a stdlib → eval dependency for a single string
// constant; the two copies are kept identical by hand.
const dispatchSeparator = "$$"

func asNumber(e expr.Expression) (float64, bool, bool) {
	switch v := expr.Unpack(e).(type) {
	case expr.Int:
		return float64(v.Value), false, true
	case expr.Float:
		return v.Value, true, true
	default:
		return 0, false, false
	}
}

func init() {
	registerVariadicArith("+", func(a, b float64) float64 { return a + b })
	registerVariadicArith("*", func(a, b float64) float64 { return a * b })
	registerVariadicSubDiv("-", func(a, b float64) float64 { return a - b })
	registerVariadicSubDiv("/", func(a, b float64) float64 { return a / b })

	registerIntInt("+", func(a, b int64) int64 { return a + b })
	registerIntInt("-", func(a, b int64) int64 { return a - b })
	registerIntInt("*", func(a, b int64) int64 { return a * b })
	registerFloatFloat("+", func(a, b float64) float64 { return a + b })
	registerFloatFloat("-", func(a, b float64) float64 { return a - b })
	registerFloatFloat("*", func(a, b float64) float64 { return a * b })
	registerFloatFloat("/", func(a, b float64) float64 { return a / b })

	register("%", modFunc)
	register("%$$Int$$Int", modFunc)

	registerComparison("=", func(a, b float64) bool { return a == b })
	registerComparison("!=", func(a, b float64) bool { return a != b })
	registerComparison("<", func(a, b float64) bool { return a < b })
	registerComparison(">", func(a, b float64) bool { return a > b })
	registerComparison("<=", func(a, b float64) bool { return a <= b })
	registerComparison(">=", func(a, b float64) bool { return a >= b })
}

func registerVariadicArith(name string, op func(a, b float64) float64) {
	register(name, func(args []expr.Expression, _ *scope.Context) (expr.Expression, *langerr.Error) {
		if len(args) == 0 {
			return nil, langerr.InvalidArguments(fmt.Sprintf("`%s` requires at least one argument", name), srcrange.Range{})
		}
		acc, isFloat, ok := asNumber(args[0])
		if !ok {
			return nil, notNumeric(name, args[0])
		}
		for _, a := range args[1:] {
			v, f, ok := asNumber(a)
			if !ok {
				return nil, notNumeric(name, a)
			}
			isFloat = isFloat || f
			acc = op(acc, v)
		}
		if isFloat {
			return expr.Float{Value: acc}, nil
		}
		return expr.Int{Value: int64(acc)}, nil
	})
}

// registerVariadicSubDiv folds left-to-right the same way
// registerVariadicArith does, seeding the fold with the first argument, so
// a single argument is returned unchanged (`(- 5)` is 5, not -5).
func registerVariadicSubDiv(name string, op func(a, b float64) float64) {
	register(name, func(args []expr.Expression, _ *scope.Context) (expr.Expression, *langerr.Error) {
		if len(args) == 0 {
			return nil, langerr.InvalidArguments(fmt.Sprintf("`%s` requires at least one argument", name), srcrange.Range{})
		}
		acc, isFloat, ok := asNumber(args[0])
		if !ok {
			return nil, notNumeric(name, args[0])
		}
		for _, a := range args[1:] {
			v, f, ok := asNumber(a)
			if !ok {
				return nil, notNumeric(name, a)
			}
			isFloat = isFloat || f
			acc = op(acc, v)
		}
		if isFloat {
			return expr.Float{Value: acc}, nil
		}
		return expr.Int{Value: int64(acc)}, nil
	})
}

func registerIntInt(op string, fn func(a, b int64) int64) {
	register(op+dispatchSeparator+"Int"+dispatchSeparator+"Int", func(args []expr.Expression, _ *scope.Context) (expr.Expression, *langerr.Error) {
		a := expr.Unpack(args[0]).(expr.Int)
		b := expr.Unpack(args[1]).(expr.Int)
		return expr.Int{Value: fn(a.Value, b.Value)}, nil
	})
}

func registerFloatFloat(op string, fn func(a, b float64) float64) {
	register(op+dispatchSeparator+"Float"+dispatchSeparator+"Float", func(args []expr.Expression, _ *scope.Context) (expr.Expression, *langerr.Error) {
		a := expr.Unpack(args[0]).(expr.Float)
		b := expr.Unpack(args[1]).(expr.Float)
		return expr.Float{Value: fn(a.Value, b.Value)}, nil
	})
}

func modFunc(args []expr.Expression, _ *scope.Context) (expr.Expression, *langerr.Error) {
	if len(args) != 2 {
		return nil, langerr.InvalidArguments("`%` requires exactly two arguments", srcrange.Range{})
	}
	a, ok1 := expr.Unpack(args[0]).(expr.Int)
	b, ok2 := expr.Unpack(args[1]).(expr.Int)
	if !ok1 || !ok2 {
		return nil, langerr.InvalidArguments("`%` requires two Int arguments", srcrange.Range{})
	}
	if b.Value == 0 {
		return nil, langerr.InvalidArguments("modulo by zero", srcrange.Range{})
	}
	return expr.Int{Value: a.Value % b.Value}, nil
}

func registerComparison(name string, cmp func(a, b float64) bool) {
	register(name, func(args []expr.Expression, _ *scope.Context) (expr.Expression, *langerr.Error) {
		if len(args) != 2 {
			return nil, langerr.InvalidArguments(fmt.Sprintf("`%s` requires exactly two arguments", name), srcrange.Range{})
		}
		if name == "=" || name == "!=" {
			eq := expr.Unpack(args[0]).String() == expr.Unpack(args[1]).String() &&
				expr.TypeName(args[0]) == expr.TypeName(args[1])
			if name == "!=" {
				eq = !eq
			}
			return expr.BoolOf(eq), nil
		}
		a, _, ok := asNumber(args[0])
		if !ok {
			return nil, notNumeric(name, args[0])
		}
		b, _, ok := asNumber(args[1])
		if !ok {
			return nil, notNumeric(name, args[1])
		}
		return expr.BoolOf(cmp(a, b)), nil
	})
}

func notNumeric(op string, v expr.Expression) *langerr.Error {
	return langerr.InvalidArguments(fmt.Sprintf("`%s` requires numeric arguments, got %s", op, expr.TypeName(v)), srcrange.Range{})
}
