package eval

import (
	"fmt"

	"tan-go/internal/expr"
	"tan-go/internal/langerr"
	"tan-go/internal/scope"
	"tan-go/internal/srcrange"
)

// specialFormFn evaluates the unevaluated tail of a special-form call.
type specialFormFn func(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error)

// specialForms is the fixed set of reserved-name constructs (spec.md
// §4.8). These names can never be shadowed by `let`/`def` (spec.md §4.8:
// "let cannot shadow reserved names") — isReserved checks membership here.
var specialForms map[string]specialFormFn

func init() {
	specialForms = map[string]specialFormFn{
		"do":           evalDo,
		"let":          evalLet,
		"def":          evalDef,
		"<-":           evalAssign,
		"assign":       evalAssign,
		"let-ds":       evalLetDs,
		"if":           evalIf,
		"cond":         evalCond,
		"when":         evalWhen,
		"unless":       evalUnless,
		"while":        evalWhile,
		"for":          evalFor,
		"for->list":    evalForToList,
		"for-each":     evalForEach,
		"map":          evalMapForm,
		"return":       evalReturn,
		"break":        evalBreak,
		"continue":     evalContinue,
		"panic!":       evalPanic,
		"eval":         evalEvalForm,
		"quot":         evalQuot,
		"and":          evalAnd,
		"or":           evalOr,
		"not":          evalNot,
		"|>":           evalPipe,
		"use":          evalUse,
		"scope-update": evalScopeUpdate,
	}
}

// evalDo implements `(do e1 e2 …)`: a fresh child scope, evaluated
// sequentially, value is the last expression (Unit if empty). The previous
// scope is restored on exit unconditionally, including on error (spec.md
// §4.8, §5).
func evalDo(tail []expr.Expression, ctx *scope.Context, _ srcrange.Range) (expr.Expression, *langerr.Error) {
	restore := ctx.EnterScope()
	defer restore()

	var result expr.Expression = expr.Unit
	for _, e := range tail {
		var err *langerr.Error
		result, err = evalOne(e, ctx)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// evalLet implements `(let name1 val1 name2 val2 …)` with destructuring
// patterns (spec.md §4.8).
func evalLet(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(tail)%2 != 0 {
		return nil, langerr.InvalidArguments("let requires name/value pairs", callRange)
	}
	var last expr.Expression = expr.Unit
	for i := 0; i+1 < len(tail); i += 2 {
		val, err := evalOne(tail[i+1], ctx)
		if err != nil {
			return nil, err
		}
		if err := bindPattern(tail[i], val, ctx.Scope, callRange); err != nil {
			return nil, err
		}
		last = val
	}
	return last, nil
}

// evalDef implements `(def name value)`: like let, but disallows
// redefining an existing name in the current scope (spec.md §4.8), used
// for module top-level bindings.
func evalDef(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(tail)%2 != 0 {
		return nil, langerr.InvalidArguments("def requires name/value pairs", callRange)
	}
	var last expr.Expression = expr.Unit
	for i := 0; i+1 < len(tail); i += 2 {
		sym, ok := expr.Unpack(tail[i]).(expr.Symbol)
		if !ok {
			return nil, langerr.InvalidArguments("def requires a symbol name", callRange)
		}
		if isReserved(sym.Name) {
			return nil, langerr.InvalidArguments(fmt.Sprintf("`%s` is a reserved name", sym.Name), callRange)
		}
		if ctx.Scope.Has(sym.Name) {
			return nil, langerr.InvalidArguments(fmt.Sprintf("`%s` is already defined in this scope", sym.Name), callRange)
		}
		val, err := evalOne(tail[i+1], ctx)
		if err != nil {
			return nil, err
		}
		ctx.Scope.Insert(sym.Name, val)
		last = val
	}
	return last, nil
}

// evalAssign implements `(<- target value)` / `(assign target value)`:
// walk the scope chain and update the nearest existing binding of target
// (spec.md §4.8).
func evalAssign(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(tail) != 2 {
		return nil, langerr.InvalidArguments("<- requires a target and a value", callRange)
	}
	sym, ok := expr.Unpack(tail[0]).(expr.Symbol)
	if !ok {
		return nil, langerr.InvalidArguments("<- target must be a symbol", callRange)
	}
	val, err := evalOne(tail[1], ctx)
	if err != nil {
		return nil, err
	}
	if sym.IsDynamic() {
		ctx.DynamicScope.Update(sym.Name, val)
	} else {
		ctx.Scope.Update(sym.Name, val)
	}
	return val, nil
}

// evalLetDs implements `(let-ds [name1 val1 …] body…)`: bind
// dynamically-scoped names in a fresh dynamic frame, restored on exit
// (spec.md §4.8, §8 property 5).
func evalLetDs(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(tail) == 0 {
		return nil, langerr.InvalidArguments("let-ds requires a binding list", callRange)
	}
	bindingsVal, err := evalOne(tail[0], ctx)
	if err != nil {
		return nil, err
	}
	bindings, ok := expr.Unpack(bindingsVal).(*expr.Array)
	if !ok {
		return nil, langerr.InvalidArguments("let-ds binding list must be an Array", callRange)
	}
	pairs := bindings.Snapshot()
	if len(pairs)%2 != 0 {
		return nil, langerr.InvalidArguments("let-ds requires name/value pairs", callRange)
	}

	restore := ctx.EnterDynamicScope()
	defer restore()

	for i := 0; i+1 < len(pairs); i += 2 {
		sym, ok := expr.Unpack(pairs[i]).(expr.Symbol)
		if !ok {
			return nil, langerr.InvalidArguments("let-ds binding name must be a symbol", callRange)
		}
		v, err := evalOne(pairs[i+1], ctx)
		if err != nil {
			return nil, err
		}
		ctx.DynamicScope.Insert(sym.Name, v)
	}

	var result expr.Expression = expr.Unit
	for _, e := range tail[1:] {
		var err *langerr.Error
		result, err = evalOne(e, ctx)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// evalIf implements `(if pred then else?)` (spec.md §4.8).
func evalIf(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(tail) < 2 || len(tail) > 3 {
		return nil, langerr.InvalidArguments("if requires a predicate and a then-branch, with an optional else", callRange)
	}
	pred, err := evalBoolPredicate(tail[0], ctx, callRange)
	if err != nil {
		return nil, err
	}
	if pred {
		return evalOne(tail[1], ctx)
	}
	if len(tail) == 3 {
		return evalOne(tail[2], ctx)
	}
	return expr.Never, nil
}

func evalBoolPredicate(e expr.Expression, ctx *scope.Context, callRange srcrange.Range) (bool, *langerr.Error) {
	v, err := evalOne(e, ctx)
	if err != nil {
		return false, err
	}
	b, ok := expr.Unpack(v).(expr.Bool)
	if !ok {
		return false, langerr.InvalidArguments("predicate must evaluate to Bool", callRange)
	}
	return b.Value, nil
}

// evalCond implements `(cond p1 c1 p2 c2 … [else ce])`: the first matching
// predicate wins; `else` always matches (spec.md §4.8).
func evalCond(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(tail)%2 != 0 {
		return nil, langerr.InvalidArguments("cond requires predicate/consequent pairs", callRange)
	}
	for i := 0; i+1 < len(tail); i += 2 {
		if sym, ok := expr.Unpack(tail[i]).(expr.Symbol); ok && sym.Name == "else" {
			return evalOne(tail[i+1], ctx)
		}
		matched, err := evalBoolPredicate(tail[i], ctx, callRange)
		if err != nil {
			return nil, err
		}
		if matched {
			return evalOne(tail[i+1], ctx)
		}
	}
	return expr.Never, nil
}

// evalWhen implements `(when value pat1 body1 pat2 body2 … _ default)`:
// pattern dispatch on value's runtime type name, with `_` as wildcard
// (spec.md §4.8; §9 open question on richer patterns decided in
// DESIGN.md — only wildcard and type-name matching are supported).
func evalWhen(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(tail) < 1 || len(tail)%2 != 1 {
		return nil, langerr.InvalidArguments("when requires a value and pattern/body pairs", callRange)
	}
	val, err := evalOne(tail[0], ctx)
	if err != nil {
		return nil, err
	}
	typeName := expr.TypeName(val)

	for i := 1; i+1 < len(tail); i += 2 {
		pat := expr.Unpack(tail[i])
		if sym, ok := pat.(expr.Symbol); ok && sym.Name == "_" {
			return evalOne(tail[i+1], ctx)
		}
		if t, ok := pat.(expr.Type); ok && t.Name == typeName {
			return evalOne(tail[i+1], ctx)
		}
	}
	return expr.Never, nil
}

// evalUnless implements `(unless pred body… [(else …)])`.
func evalUnless(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(tail) < 2 {
		return nil, langerr.InvalidArguments("unless requires a predicate and at least one body expression", callRange)
	}
	pred, err := evalBoolPredicate(tail[0], ctx, callRange)
	if err != nil {
		return nil, err
	}
	body := tail[1:]
	var elseBody []expr.Expression
	if len(body) > 0 {
		if list, ok := expr.Unpack(body[len(body)-1]).(*expr.List); ok && len(list.Elements) > 0 {
			if sym, ok := expr.Unpack(list.Elements[0]).(expr.Symbol); ok && sym.Name == "else" {
				elseBody = list.Elements[1:]
				body = body[:len(body)-1]
			}
		}
	}
	if pred {
		if len(elseBody) == 0 {
			return expr.Never, nil
		}
		return evalSequence(elseBody, ctx)
	}
	return evalSequence(body, ctx)
}

func evalSequence(exprs []expr.Expression, ctx *scope.Context) (expr.Expression, *langerr.Error) {
	var result expr.Expression = expr.Unit
	for _, e := range exprs {
		var err *langerr.Error
		result, err = evalOne(e, ctx)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// evalScopeUpdate implements `(scope-update map-expr)`: merges a Map into
// the current lexical scope (spec.md §4.8).
func evalScopeUpdate(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(tail) != 1 {
		return nil, langerr.InvalidArguments("scope-update requires exactly one Map argument", callRange)
	}
	val, err := evalOne(tail[0], ctx)
	if err != nil {
		return nil, err
	}
	m, ok := expr.Unpack(val).(*expr.Map)
	if !ok {
		return nil, langerr.InvalidArguments("scope-update requires a Map argument", callRange)
	}
	ctx.Scope.MergeMap(m)
	return expr.Unit, nil
}
