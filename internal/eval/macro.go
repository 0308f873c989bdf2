package eval

import (
	"fmt"

	"tan-go/internal/callable"
	"tan-go/internal/expr"
	"tan-go/internal/langerr"
	"tan-go/internal/scope"
	"tan-go/internal/srcrange"
)

// ApplyMacro binds m's parameters to the UNEVALUATED argument expressions
// in a fresh scope and evaluates its body, returning the replacement
// expression (spec.md §4.4 step 3). Exported for internal/macroexpand,
// which drives macro expansion as a pipeline stage ahead of evaluation
// proper and re-enters this evaluator to run a macro's body.
func ApplyMacro(m *callable.Macro, args []expr.Expression, ctx *scope.Context) (expr.Expression, *langerr.Error) {
	callScope := scope.New(ctx.Scope)
	for i, p := range m.Params {
		if p.Rest {
			callScope.Insert(p.Name, expr.NewArray(args[min(i, len(args)):]...))
			i = len(args)
			break
		}
		if i >= len(args) {
			return nil, langerr.InvalidArguments(
				fmt.Sprintf("macro `%s` missing argument `%s`", m.Name, p.Name), srcrange.Range{})
		}
		callScope.Insert(p.Name, args[i])
	}

	prevScope := ctx.Scope
	ctx.Scope = callScope
	defer func() { ctx.Scope = prevScope }()

	return Eval(m.Body, ctx)
}
