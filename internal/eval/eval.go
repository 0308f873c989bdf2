/*
Package eval implements the sixth pipeline stage (spec.md §4.7, §4.8): a
recursive tree-walking evaluator over the already lexed, parsed, pruned,
macro-expanded and optimized Expression tree. A single call has read/write
access to the Context (spec.md §5): there is exactly one evaluator active
per Context, and recursion is the only suspension.

Return, Break and Continue are modeled as Variant values of langerr.Error
(spec.md §9, "Control flow via unified error channel") rather than a
second result type; the constructs below intercept them at the boundary
that owns them (a function call for Return, a loop for Break/Continue) and
never let them escape as a user-visible error.
*/
package eval

import (
	"fmt"
	"strings"

	"tan-go/internal/callable"
	"tan-go/internal/expr"
	"tan-go/internal/langerr"
	"tan-go/internal/scope"
	"tan-go/internal/srcrange"
)

// dispatchSeparator joins argument type names into a method key (spec.md
// §4.7, §8 property 6, GLOSSARY "Method key").
const dispatchSeparator = "$$"

// Eval evaluates a sequence of top-level expressions in order, returning
// the value of the last one (spec.md §5: "every pass over a sequence of
// top-level expressions ... proceeds left-to-right").
func Eval(exprs []expr.Expression, ctx *scope.Context) (expr.Expression, *langerr.Error) {
	var result expr.Expression = expr.Unit
	for _, e := range exprs {
		var err *langerr.Error
		result, err = evalOne(e, ctx)
		if err != nil {
			return nil, unwindEscapedControlFlow(err)
		}
	}
	return result, nil
}

// evalOne evaluates a single expression, unwrapping parse/macro-time
// annotations (which carry diagnostic metadata, not runtime behavior —
// the one exception, dispatch's "method" key, is implemented as a direct
// scope-key lookup rather than read back off the annotation, see
// evalSymbolCall).
func evalOne(e expr.Expression, ctx *scope.Context) (expr.Expression, *langerr.Error) {
	r, _ := expr.SourceRange(e)
	bare := expr.Unpack(e)

	switch v := bare.(type) {
	case expr.Symbol:
		val, ok := ctx.Lookup(v)
		if !ok {
			return nil, langerr.UndefinedSymbolErr(v.Name, r)
		}
		return val, nil
	case *expr.List:
		return evalList(v, r, ctx)
	default:
		// Self-evaluating: literals, KeySymbol, Type, Unit, Never, Func,
		// Macro, ForeignFunc, ForeignStruct (spec.md §4.7).
		return bare, nil
	}
}

// evalAll evaluates a sequence of expressions to a slice of values,
// left-to-right, short-circuiting on the first error (spec.md §5:
// "evaluation of a function call evaluates arguments left-to-right before
// the body").
func evalAll(exprs []expr.Expression, ctx *scope.Context) ([]expr.Expression, *langerr.Error) {
	out := make([]expr.Expression, len(exprs))
	for i, e := range exprs {
		v, err := evalOne(e, ctx)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// evalList implements spec.md §4.7 "List evaluation". An empty list
// evaluates to Unit (spec.md §8 property 2).
func evalList(list *expr.List, callRange srcrange.Range, ctx *scope.Context) (expr.Expression, *langerr.Error) {
	if len(list.Elements) == 0 {
		return expr.Unit, nil
	}
	head := list.Elements[0]
	tail := list.Elements[1:]

	if sym, ok := expr.Unpack(head).(expr.Symbol); ok {
		if sf, ok := specialForms[sym.Name]; ok {
			return sf(tail, ctx, callRange)
		}
		return evalSymbolCall(sym, tail, ctx, callRange)
	}

	if t, ok := expr.Unpack(head).(expr.Type); ok {
		return constructType(t, tail, ctx, callRange)
	}

	headVal, err := evalOne(head, ctx)
	if err != nil {
		return nil, err
	}
	args, err := evalAll(tail, ctx)
	if err != nil {
		return nil, err
	}
	return invoke(headVal, args, ctx, callRange)
}

// evalSymbolCall implements the dispatch-rewrite of spec.md §4.7 step 1:
// when the head is a plain symbol already naming something invocable in
// scope, arguments are evaluated first, a method key is synthesized from
// their runtime types, and the specialization (if bound) wins over the
// bare name.
func evalSymbolCall(sym expr.Symbol, tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	baseVal, bound := ctx.Lookup(sym)
	if !bound {
		return nil, langerr.UndefinedSymbolErr(sym.Name, callRange)
	}

	switch expr.Unpack(baseVal).(type) {
	case *callable.Func, *callable.ForeignFunc:
		args, err := evalAll(tail, ctx)
		if err != nil {
			return nil, err
		}
		if len(args) > 0 {
			types := make([]string, len(args))
			for i, a := range args {
				types[i] = expr.TypeName(a)
			}
			mangled := sym.Name + dispatchSeparator + strings.Join(types, dispatchSeparator)
			if specialized, ok := ctx.Lookup(expr.Symbol{Name: mangled}); ok {
				return invoke(specialized, args, ctx, callRange)
			}
		}
		return invoke(baseVal, args, ctx, callRange)
	case *expr.Array, *expr.Map:
		args, err := evalAll(tail, ctx)
		if err != nil {
			return nil, err
		}
		return invoke(baseVal, args, ctx, callRange)
	default:
		return nil, langerr.NotInvocableErr(
			fmt.Sprintf("value of type %s is not invocable", expr.TypeName(baseVal)), callRange)
	}
}

// invoke dispatches on the resolved head value (spec.md §4.7 step 2).
func invoke(headVal expr.Expression, args []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	switch v := expr.Unpack(headVal).(type) {
	case *callable.Func:
		return callFunc(v, args, ctx, callRange)
	case *callable.ForeignFunc:
		res, err := v.Call(args, ctx)
		if err != nil {
			err = err.WithRange(callRange)
			return nil, err
		}
		return res, nil
	case *expr.Array:
		return arrayIndex(v, args, callRange)
	case *expr.Map:
		return mapIndex(v, args, callRange)
	case expr.Type:
		argExprs := make([]expr.Expression, len(args))
		copy(argExprs, args)
		return constructType(v, argExprs, ctx, callRange)
	default:
		return nil, langerr.NotInvocableErr(
			fmt.Sprintf("value of type %s is not invocable", expr.TypeName(headVal)), callRange)
	}
}

// callFunc applies a Func to pre-evaluated arguments (spec.md §4.7): a
// fresh child scope of the closure's captured scope, positional parameter
// binding with `...rest` collection, sequential body evaluation. Errors
// raised without a file path are annotated with the function's source
// path. A Return signal unwinds exactly to this frame.
func callFunc(fn *callable.Func, args []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	callScope := scope.New(fn.Captured)
	if err := bindParams(fn.Params, args, callScope, callRange); err != nil {
		return nil, err.WithFile(fn.SourcePath)
	}

	prevScope := ctx.Scope
	ctx.Scope = callScope

	var result expr.Expression = expr.Unit
	var err *langerr.Error
	for _, bodyExpr := range fn.Body {
		result, err = evalOne(bodyExpr, ctx)
		if err != nil {
			break
		}
	}

	if err != nil {
		if err.Variant == langerr.ReturnSignal {
			ctx.Scope = prevScope
			val, _ := err.Signal.(expr.Expression)
			if val == nil {
				val = expr.Unit
			}
			return val, nil
		}
		if err.Variant == langerr.BreakSignal || err.Variant == langerr.ContinueSignal {
			// A break/continue that reaches a function boundary escaped
			// every enclosing loop inside this call: not a loop exit, a
			// misuse (spec.md §9 open question, decided as an error).
			ctx.Scope = prevScope
			return nil, unwindEscapedControlFlow(err).WithFile(fn.SourcePath)
		}
		// spec.md §5 resource policy: function-body scope restoration is
		// skipped on an unwinding error so the trace retains the frame for
		// annotation; the caller still observes an unwound context because
		// the error propagates to the top.
		return nil, err.WithFile(fn.SourcePath)
	}

	ctx.Scope = prevScope
	return result, nil
}

func bindParams(params []callable.Param, args []expr.Expression, sc *scope.Scope, callRange srcrange.Range) *langerr.Error {
	for i, p := range params {
		if p.Rest {
			sc.Insert(p.Name, expr.NewArray(args[min(i, len(args)):]...))
			return nil
		}
		if i >= len(args) {
			return langerr.InvalidArguments(fmt.Sprintf("missing argument `%s`", p.Name), callRange)
		}
		sc.Insert(p.Name, args[i])
	}
	if len(args) > len(params) {
		return langerr.InvalidArguments(
			fmt.Sprintf("too many arguments: expected %d, got %d", len(params), len(args)), callRange)
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// arrayIndex implements spec.md §4.7: "Array in head position: treat as
// indexed access — one Int argument returns the element, out-of-range
// returns Unit."
func arrayIndex(a *expr.Array, args []expr.Expression, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(args) != 1 {
		return nil, langerr.InvalidArguments("Array index takes exactly one argument", callRange)
	}
	idx, ok := expr.Unpack(args[0]).(expr.Int)
	if !ok {
		return nil, langerr.InvalidArguments("Array index must be an Int", callRange)
	}
	v, _ := a.Get(int(idx.Value))
	return v, nil
}

// mapIndex implements spec.md §4.7: "Map in head position: one key
// argument (stringified) returns the value or Unit."
func mapIndex(m *expr.Map, args []expr.Expression, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(args) != 1 {
		return nil, langerr.InvalidArguments("Map lookup takes exactly one argument", callRange)
	}
	v, _ := m.Get(args[0])
	return v, nil
}

func isReserved(name string) bool {
	_, ok := specialForms[name]
	return ok
}

// unwindEscapedControlFlow converts a Break/Continue that escaped every
// enclosing loop and function frame into a real error (spec.md §9 open
// question, decided: "continue inside a function body (outside a loop) is
// specified as an error" — this implementation applies the same rule to a
// stray top-level `break`), and likewise a Return that reached the
// top-level Eval outside any function.
func unwindEscapedControlFlow(err *langerr.Error) *langerr.Error {
	switch err.Variant {
	case langerr.ReturnSignal:
		return langerr.New(langerr.InvalidArgs, "`return` used outside of a function")
	case langerr.BreakSignal:
		return langerr.New(langerr.InvalidArgs, "`break` used outside of a loop")
	case langerr.ContinueSignal:
		return langerr.New(langerr.InvalidArgs, "`continue` used outside of a loop")
	default:
		return err
	}
}
