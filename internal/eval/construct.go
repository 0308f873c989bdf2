package eval

import (
	"fmt"

	"tan-go/internal/callable"
	"tan-go/internal/expr"
	"tan-go/internal/langerr"
	"tan-go/internal/scope"
	"tan-go/internal/srcrange"
)

// currentFilePathVar names the dynamically-scoped special variable the
// pipeline binds to the path of the file currently being evaluated
// (spec.md §6, "Special variables").
const currentFilePathVar = "*CURRENT-FILE-PATH*"

// currentFilePath reads the active file path out of the dynamic scope,
// used to stamp newly constructed Funcs and panic! errors with their
// origin (spec.md §4.7, §4.8).
func currentFilePath(ctx *scope.Context) string {
	v, ok := ctx.DynamicScope.Lookup(currentFilePathVar)
	if !ok {
		return ""
	}
	s, ok := expr.Unpack(v).(expr.String)
	if !ok {
		return ""
	}
	return s.Value
}

// constructType implements the positional type-constructor call forms of
// spec.md §4.8: "Func: captures the current lexical scope. Char: requires
// a single-character string. List: evaluates arguments and builds a
// List." Each is handled with its own evaluation rules rather than going
// through the generic evaluate-then-invoke path, because Func specifically
// needs its params and body left unevaluated.
func constructType(t expr.Type, tailExprs []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	switch t.Name {
	case "Func":
		return buildFunc(tailExprs, ctx, callRange)
	case "Char":
		if len(tailExprs) != 1 {
			return nil, langerr.InvalidArguments("Char requires exactly one argument", callRange)
		}
		v, err := evalOne(tailExprs[0], ctx)
		if err != nil {
			return nil, err
		}
		s, ok := expr.Unpack(v).(expr.String)
		if !ok {
			return nil, langerr.InvalidArguments("Char requires a String argument", callRange)
		}
		runes := []rune(s.Value)
		if len(runes) != 1 {
			return nil, langerr.InvalidArguments("Char requires a single-character string", callRange)
		}
		return expr.Char{Value: runes[0]}, nil
	case "List":
		args, err := evalAll(tailExprs, ctx)
		if err != nil {
			return nil, err
		}
		return expr.NewList(args...), nil
	case "Range":
		args, err := evalAll(tailExprs, ctx)
		if err != nil {
			return nil, err
		}
		return constructRange(args, callRange)
	default:
		ctor, ok := ctx.Lookup(expr.Symbol{Name: t.Name})
		if !ok {
			return nil, langerr.UndefinedSymbolErr(t.Name, callRange)
		}
		args, err := evalAll(tailExprs, ctx)
		if err != nil {
			return nil, err
		}
		return invoke(ctor, args, ctx, callRange)
	}
}

// buildFunc implements `(Func [params…] body…)`: captures the current
// lexical scope, taking params and body unevaluated (spec.md §4.7, §4.8).
// The optimizer has already collapsed the `[...]` literal into a native
// Array of still-unevaluated Symbol elements.
func buildFunc(tailExprs []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(tailExprs) < 1 {
		return nil, langerr.InvalidArguments("Func requires a parameter list", callRange)
	}
	paramsVal, err := evalOne(tailExprs[0], ctx)
	if err != nil {
		return nil, err
	}
	paramsArr, ok := expr.Unpack(paramsVal).(*expr.Array)
	if !ok {
		return nil, langerr.InvalidArguments("Func parameter list must be an Array", callRange)
	}
	raw := paramsArr.Snapshot()
	params := make([]callable.Param, len(raw))
	for i, pe := range raw {
		sym, ok := expr.Unpack(pe).(expr.Symbol)
		if !ok {
			return nil, langerr.InvalidArguments("Func parameters must be symbols", callRange)
		}
		params[i] = callable.NewParam(sym.Name)
	}
	return &callable.Func{
		Params:     params,
		Body:       tailExprs[1:],
		Captured:   ctx.Scope,
		SourcePath: currentFilePath(ctx),
	}, nil
}

// constructRange implements `(Range start end [step])` and the `start..end`
// literal syntax (already desugared to this form by the parser): builds an
// IntRange unless any component is a Float, in which case all components
// coerce to Float (spec.md §4.1 "a `.` in the lexeme forces float
// parsing" extended here to the constructor path for symbol-sourced
// bounds).
func constructRange(args []expr.Expression, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, langerr.InvalidArguments("Range requires a start and end, with an optional step", callRange)
	}
	isFloat := false
	for _, a := range args {
		if _, ok := expr.Unpack(a).(expr.Float); ok {
			isFloat = true
		}
	}
	if isFloat {
		vals := make([]float64, len(args))
		for i, a := range args {
			f, err := asFloat(a, callRange)
			if err != nil {
				return nil, err
			}
			vals[i] = f
		}
		step := 1.0
		if len(vals) == 3 {
			step = vals[2]
		}
		return expr.FloatRange{Start: vals[0], End: vals[1], Step: step}, nil
	}

	vals := make([]int64, len(args))
	for i, a := range args {
		n, ok := expr.Unpack(a).(expr.Int)
		if !ok {
			return nil, langerr.InvalidArguments("Range bounds must be Int or Float", callRange)
		}
		vals[i] = n.Value
	}
	step := int64(1)
	if len(vals) == 3 {
		step = vals[2]
	}
	return expr.IntRange{Start: vals[0], End: vals[1], Step: step}, nil
}

func asFloat(e expr.Expression, callRange srcrange.Range) (float64, *langerr.Error) {
	switch v := expr.Unpack(e).(type) {
	case expr.Float:
		return v.Value, nil
	case expr.Int:
		return float64(v.Value), nil
	default:
		return 0, langerr.InvalidArguments(
			fmt.Sprintf("Range bound of type %s is not numeric", expr.TypeName(e)), callRange)
	}
}
