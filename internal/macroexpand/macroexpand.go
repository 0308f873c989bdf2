/*
Package macroexpand implements the fourth pipeline stage (spec.md §4.4): a
recursive rewrite over pruned expressions, mutating the Context's scope as
`let`-bound Macro values are registered. Unlike the other stages this one
needs a live evaluator — macro application runs the macro's body through
internal/eval with its parameters bound to unevaluated argument
expressions — so macroexpand imports eval, never the reverse.
*/
package macroexpand

import (
	"fmt"
	"strings"

	"tan-go/internal/callable"
	"tan-go/internal/eval"
	"tan-go/internal/expr"
	"tan-go/internal/langerr"
	"tan-go/internal/scope"
	"tan-go/internal/srcrange"
)

// captureParamPrefix is the synthetic parameter name a `%0`/`%x`
// function-capture placeholder desugars to (spec.md §4.4 step 1).
const captureParamPrefix = "_%"

// All expands every top-level expression in order, dropping any that
// elide entirely (a `let` whose every binding was a macro registration).
func All(exprs []expr.Expression, ctx *scope.Context) ([]expr.Expression, *langerr.Error) {
	out := make([]expr.Expression, 0, len(exprs))
	for _, e := range exprs {
		r, elided, err := Expand(e, ctx)
		if err != nil {
			return nil, err
		}
		if !elided {
			out = append(out, r)
		}
	}
	return out, nil
}

// Expand rewrites e, registering any macros it defines into ctx.Scope as a
// side effect (spec.md §4.4). The bool result reports whether e elided
// entirely (a macro-only `let`).
func Expand(e expr.Expression, ctx *scope.Context) (expr.Expression, bool, *langerr.Error) {
	if a, ok := e.(*expr.Annotated); ok {
		inner, elided, err := Expand(a.Inner, ctx)
		if err != nil || elided {
			return inner, elided, err
		}
		meta := make(map[string]expr.Expression, len(a.Meta))
		for k, v := range a.Meta {
			meta[k] = v
		}
		return &expr.Annotated{Inner: inner, Meta: meta}, false, nil
	}

	list, ok := e.(*expr.List)
	if !ok || len(list.Elements) == 0 {
		return e, false, nil
	}
	head := list.Elements[0]
	tail := list.Elements[1:]

	// Step 1: function-capture sugar, checked first since it can appear on
	// any call regardless of head (spec.md §4.4 step 1).
	if hasCapture(tail) {
		rewritten := expandCapture(head, tail)
		return Expand(rewritten, ctx)
	}

	if sym, ok := expr.Unpack(head).(expr.Symbol); ok {
		switch {
		case sym.Name == "let":
			return expandLet(head, tail, ctx)
		case sym.Name == "quot":
			expanded, err := expandQuot(list, ctx)
			if err != nil {
				return nil, false, err
			}
			return expanded, false, nil
		case isCompoundAssign(sym.Name):
			rewritten, err := expandCompoundAssign(sym, tail)
			if err != nil {
				return nil, false, err
			}
			return Expand(rewritten, ctx)
		}
	}

	if t, ok := expr.Unpack(head).(expr.Type); ok && t.Name == "Macro" {
		m, err := macroFromForm(list)
		if err != nil {
			return nil, false, err
		}
		return m, false, nil
	}

	// Step 3: macro application — resolve the head alone; if it names a
	// Macro, apply it and re-expand the result (spec.md §4.4 step 3).
	if headVal, headErr := eval.Eval([]expr.Expression{head}, ctx); headErr == nil {
		if m, ok := expr.Unpack(headVal).(*callable.Macro); ok {
			expandedArgs := tail
			replacement, err := eval.ApplyMacro(m, expandedArgs, ctx)
			if err != nil {
				return nil, false, err
			}
			return Expand(replacement, ctx)
		}
	}

	// Step 7: recurse into tail arguments of every other list head.
	newElems := make([]expr.Expression, len(list.Elements))
	newElems[0] = head
	for i, te := range tail {
		r, _, err := Expand(te, ctx)
		if err != nil {
			return nil, false, err
		}
		newElems[i+1] = r
	}
	return &expr.List{Elements: newElems}, false, nil
}

// expandLet implements step 2, "let scanning": any binding value that is a
// `(Macro …)` form is registered in the current scope and its pair is
// dropped from the output `let`; every other value is recursively
// macro-expanded in place (spec.md §4.4 step 2).
func expandLet(head expr.Expression, tail []expr.Expression, ctx *scope.Context) (expr.Expression, bool, *langerr.Error) {
	if len(tail)%2 != 0 {
		return nil, false, langerr.InvalidArguments("let requires name/value pairs", srcrange.Range{})
	}
	var kept []expr.Expression
	for i := 0; i+1 < len(tail); i += 2 {
		name, val := tail[i], tail[i+1]
		if isMacroForm(val) {
			sym, ok := expr.Unpack(name).(expr.Symbol)
			if !ok {
				return nil, false, langerr.InvalidArguments("let binding name must be a symbol", srcrange.Range{})
			}
			m, err := macroFromForm(expr.Unpack(val).(*expr.List))
			if err != nil {
				return nil, false, err
			}
			m.Name = sym.Name
			ctx.Scope.Insert(sym.Name, m)
			continue
		}
		expandedVal, _, err := Expand(val, ctx)
		if err != nil {
			return nil, false, err
		}
		kept = append(kept, name, expandedVal)
	}
	if len(kept) == 0 {
		return nil, true, nil
	}
	elems := append([]expr.Expression{head}, kept...)
	return expr.NewList(elems...), false, nil
}

func isMacroForm(val expr.Expression) bool {
	list, ok := expr.Unpack(val).(*expr.List)
	if !ok || len(list.Elements) == 0 {
		return false
	}
	t, ok := expr.Unpack(list.Elements[0]).(expr.Type)
	return ok && t.Name == "Macro"
}

// macroFromForm builds a Macro value from a `(Macro params body…)` list.
// params is itself still a `(Array p1 p2 …)` list form at this pipeline
// stage — the optimizer that collapses it into a native Array runs after
// macro expansion (spec.md §4.4, §4.5 ordering).
func macroFromForm(list *expr.List) (*callable.Macro, *langerr.Error) {
	rest := list.Elements[1:]
	if len(rest) < 1 {
		return nil, langerr.InvalidArguments("Macro requires a parameter list", srcrange.Range{})
	}
	paramList, ok := expr.Unpack(rest[0]).(*expr.List)
	if !ok || len(paramList.Elements) == 0 {
		return nil, langerr.InvalidArguments("Macro parameter list must be an Array literal", srcrange.Range{})
	}
	params := make([]callable.Param, 0, len(paramList.Elements)-1)
	for _, pe := range paramList.Elements[1:] {
		sym, ok := expr.Unpack(pe).(expr.Symbol)
		if !ok {
			return nil, langerr.InvalidArguments("Macro parameters must be symbols", srcrange.Range{})
		}
		params = append(params, callable.NewParam(sym.Name))
	}
	return &callable.Macro{Params: params, Body: rest[1:]}, nil
}

// expandQuot implements step 5: `(quot x)` is preserved, descended into
// only as far as locating `(unquot y)` forms, whose y is macro-expanded
// (spec.md §4.4 step 5).
func expandQuot(list *expr.List, ctx *scope.Context) (expr.Expression, *langerr.Error) {
	elems := make([]expr.Expression, len(list.Elements))
	copy(elems, list.Elements)
	for i := 1; i < len(elems); i++ {
		r, err := descendUnquot(elems[i], ctx)
		if err != nil {
			return nil, err
		}
		elems[i] = r
	}
	return &expr.List{Elements: elems}, nil
}

func descendUnquot(e expr.Expression, ctx *scope.Context) (expr.Expression, *langerr.Error) {
	list, ok := expr.Unpack(e).(*expr.List)
	if !ok {
		return e, nil
	}
	if len(list.Elements) == 2 {
		if sym, ok := expr.Unpack(list.Elements[0]).(expr.Symbol); ok && sym.Name == "unquot" {
			expanded, _, err := Expand(list.Elements[1], ctx)
			if err != nil {
				return nil, err
			}
			return expr.NewList(list.Elements[0], expanded), nil
		}
	}
	elems := make([]expr.Expression, len(list.Elements))
	for i, el := range list.Elements {
		r, err := descendUnquot(el, ctx)
		if err != nil {
			return nil, err
		}
		elems[i] = r
	}
	return &expr.List{Elements: elems}, nil
}

// isCompoundAssign reports whether name is a trailing-`<-` operator other
// than plain assignment itself (spec.md §4.4 step 6, §4.8: "Assignments
// with trailing `<-` ... are expanded at macro-expansion time").
func isCompoundAssign(name string) bool {
	return name != "<-" && strings.HasSuffix(name, "<-")
}

// expandCompoundAssign implements `(+<- a v)` → `(<- a (+ a v))`.
func expandCompoundAssign(sym expr.Symbol, tail []expr.Expression) (expr.Expression, *langerr.Error) {
	if len(tail) != 2 {
		return nil, langerr.InvalidArguments(fmt.Sprintf("`%s` requires a target and a value", sym.Name), srcrange.Range{})
	}
	op := strings.TrimSuffix(sym.Name, "<-")
	target, value := tail[0], tail[1]
	return expr.NewList(
		expr.Symbol{Name: "<-"},
		target,
		expr.NewList(expr.Symbol{Name: op}, target, value),
	), nil
}

// hasCapture reports whether any of args is a `%`-prefixed placeholder
// symbol (spec.md §4.4 step 1).
func hasCapture(args []expr.Expression) bool {
	for _, a := range args {
		if sym, ok := expr.Unpack(a).(expr.Symbol); ok && strings.HasPrefix(sym.Name, "%") && sym.Name != "%" {
			return true
		}
	}
	return false
}

// expandCapture rewrites `(op …%0… …%x…)` to
// `(Func [_%0 _%x …] (op …_%0… …_%x…))`: captured placeholders are renamed
// to synthetic parameters (deduplicated, in first-appearance order);
// non-capture arguments are preserved verbatim (spec.md §4.4 step 1).
func expandCapture(head expr.Expression, args []expr.Expression) expr.Expression {
	var params []expr.Expression
	seen := map[string]bool{}
	newArgs := make([]expr.Expression, len(args))
	for i, a := range args {
		if sym, ok := expr.Unpack(a).(expr.Symbol); ok && strings.HasPrefix(sym.Name, "%") && sym.Name != "%" {
			paramName := captureParamPrefix + strings.TrimPrefix(sym.Name, "%")
			newArgs[i] = expr.Symbol{Name: paramName}
			if !seen[paramName] {
				seen[paramName] = true
				params = append(params, expr.Symbol{Name: paramName})
			}
			continue
		}
		newArgs[i] = a
	}

	bodyElems := append([]expr.Expression{head}, newArgs...)
	paramElems := append([]expr.Expression{expr.Type{Name: "Array"}}, params...)
	return expr.NewList(
		expr.Type{Name: "Func"},
		expr.NewList(paramElems...),
		expr.NewList(bodyElems...),
	)
}
