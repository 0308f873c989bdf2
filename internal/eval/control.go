package eval

import (
	"tan-go/internal/expr"
	"tan-go/internal/langerr"
	"tan-go/internal/scope"
	"tan-go/internal/srcrange"
)

// evalReturn implements `(return value?)`: raises a Return signal caught
// at the nearest enclosing function call (spec.md §9 "Control flow via
// unified error channel").
func evalReturn(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	var val expr.Expression = expr.Unit
	if len(tail) > 0 {
		v, err := evalOne(tail[0], ctx)
		if err != nil {
			return nil, err
		}
		val = v
	}
	return nil, langerr.Return(val)
}

// evalBreak implements `(break value?)`: raises a Break signal caught at
// the nearest enclosing loop.
func evalBreak(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	var val expr.Expression = expr.Unit
	if len(tail) > 0 {
		v, err := evalOne(tail[0], ctx)
		if err != nil {
			return nil, err
		}
		val = v
	}
	return nil, langerr.Break(val)
}

// evalContinue implements `(continue)`: raises a Continue signal caught at
// the nearest enclosing loop.
func evalContinue(_ []expr.Expression, _ *scope.Context, _ srcrange.Range) (expr.Expression, *langerr.Error) {
	return nil, langerr.Continue()
}

// evalPanic implements `(panic! msg)`: raises a Panic error annotated with
// the current source file (spec.md §4.8, §7).
func evalPanic(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(tail) != 1 {
		return nil, langerr.InvalidArguments("panic! requires exactly one message argument", callRange)
	}
	val, err := evalOne(tail[0], ctx)
	if err != nil {
		return nil, err
	}
	return nil, langerr.PanicErr(expr.Unpack(val).String(), currentFilePath(ctx), callRange)
}

// evalEvalForm implements `(eval expr)`: evaluate expr to get an
// expression value, then evaluate that value again (spec.md §4.8).
func evalEvalForm(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(tail) != 1 {
		return nil, langerr.InvalidArguments("eval requires exactly one argument", callRange)
	}
	inner, err := evalOne(tail[0], ctx)
	if err != nil {
		return nil, err
	}
	asExpr, ok := inner.(expr.Expression)
	if !ok {
		return nil, langerr.InvalidArguments("eval requires an expression value", callRange)
	}
	return evalOne(asExpr, ctx)
}

// evalQuot implements `(quot x)`: returns x unevaluated, except that any
// `(unquot y)` nested inside (descending into List/Array/Map) is replaced
// by the evaluation of y (spec.md §8 property 9, scenario S4).
func evalQuot(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(tail) != 1 {
		return nil, langerr.InvalidArguments("quot requires exactly one argument", callRange)
	}
	return resolveUnquotes(tail[0], ctx)
}

func resolveUnquotes(e expr.Expression, ctx *scope.Context) (expr.Expression, *langerr.Error) {
	bare := expr.Unpack(e)
	switch v := bare.(type) {
	case *expr.List:
		if len(v.Elements) == 2 {
			if sym, ok := expr.Unpack(v.Elements[0]).(expr.Symbol); ok && sym.Name == "unquot" {
				return evalOne(v.Elements[1], ctx)
			}
		}
		elems := make([]expr.Expression, len(v.Elements))
		for i, el := range v.Elements {
			r, err := resolveUnquotes(el, ctx)
			if err != nil {
				return nil, err
			}
			elems[i] = r
		}
		return expr.NewList(elems...), nil
	case *expr.Array:
		src := v.Snapshot()
		elems := make([]expr.Expression, len(src))
		for i, el := range src {
			r, err := resolveUnquotes(el, ctx)
			if err != nil {
				return nil, err
			}
			elems[i] = r
		}
		return expr.NewArray(elems...), nil
	case *expr.Map:
		out := expr.NewMap()
		for _, pair := range v.Snapshot() {
			r, err := resolveUnquotes(pair.Value, ctx)
			if err != nil {
				return nil, err
			}
			out.Set(expr.KeySymbol{Name: pair.Key}, r)
		}
		return out, nil
	default:
		return e, nil
	}
}

// evalAnd implements `(and e1 e2 …)`: short-circuit boolean AND.
func evalAnd(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(tail) == 0 {
		return expr.Bool{Value: true}, nil
	}
	var result bool
	for _, e := range tail {
		v, err := evalBoolPredicate(e, ctx, callRange)
		if err != nil {
			return nil, err
		}
		result = v
		if !result {
			return expr.Bool{Value: false}, nil
		}
	}
	return expr.Bool{Value: result}, nil
}

// evalOr implements `(or e1 e2 …)`: short-circuit boolean OR.
func evalOr(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(tail) == 0 {
		return expr.Bool{Value: false}, nil
	}
	for _, e := range tail {
		v, err := evalBoolPredicate(e, ctx, callRange)
		if err != nil {
			return nil, err
		}
		if v {
			return expr.Bool{Value: true}, nil
		}
	}
	return expr.Bool{Value: false}, nil
}

// evalNot implements `(not e)`: boolean negation.
func evalNot(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(tail) != 1 {
		return nil, langerr.InvalidArguments("not requires exactly one argument", callRange)
	}
	v, err := evalBoolPredicate(tail[0], ctx, callRange)
	if err != nil {
		return nil, err
	}
	return expr.Bool{Value: !v}, nil
}

// evalPipe implements `(|> value f1 f2 …)`: value flows through each
// function in sequence (spec.md §4.8).
func evalPipe(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(tail) < 1 {
		return nil, langerr.InvalidArguments("|> requires a value", callRange)
	}
	val, err := evalOne(tail[0], ctx)
	if err != nil {
		return nil, err
	}
	for _, stage := range tail[1:] {
		fnVal, err := evalOne(stage, ctx)
		if err != nil {
			return nil, err
		}
		val, err = invoke(fnVal, []expr.Expression{val}, ctx, callRange)
		if err != nil {
			return nil, err
		}
	}
	return val, nil
}
