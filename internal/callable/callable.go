/*
Package callable implements the three invocable Expression variants —
Func, Macro and ForeignFunc (spec.md §3) — in a package of their own. They
need to reference scope.Context (a closure captures a *scope.Scope; a
foreign function receives a *scope.Context), and scope.Scope stores
expr.Expression values, so putting these types directly in package expr
would close an import cycle. This mirrors the teacher's own split: go-mix
keeps its Function type in a standalone `function` package that imports
both `objects` and `scope`, for exactly this reason.
*/
package callable

import (
	"fmt"
	"strings"

	"tan-go/internal/expr"
	"tan-go/internal/langerr"
	"tan-go/internal/scope"
)

// Param is one positional parameter of a Func or Macro. A param named with
// a literal "...rest"-style prefix collects trailing arguments into an
// Array (spec.md §4.7).
type Param struct {
	Name string
	Rest bool
}

// NewParam builds a Param from a raw identifier, recognizing the leading
// "..." rest-collector sigil.
func NewParam(name string) Param {
	if strings.HasPrefix(name, "...") {
		return Param{Name: strings.TrimPrefix(name, "..."), Rest: true}
	}
	return Param{Name: name}
}

func (p Param) String() string {
	if p.Rest {
		return "..." + p.Name
	}
	return p.Name
}

// Func is a closure: parameters, a body of sequentially evaluated
// expressions, the lexical scope active at definition, and the path of the
// file it was defined in (spec.md §3, §4.7, §4.9). The captured scope is
// the sole mechanism for closures (spec.md §3 invariant).
type Func struct {
	Name       string
	Params     []Param
	Body       []expr.Expression
	Captured   *scope.Scope
	SourcePath string
}

func (f *Func) Kind() expr.Kind { return expr.KindFunc }

func (f *Func) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	name := f.Name
	if name == "" {
		name = "anonymous"
	}
	return fmt.Sprintf("<func %s(%s)>", name, strings.Join(parts, " "))
}

// Macro is a compile-time rewriter: like Func, but invoked during macro
// expansion with unevaluated argument expressions bound to its parameters
// (spec.md §3, §4.4). Macros exist only in scope and are inert after
// expansion (spec.md §3 invariant).
type Macro struct {
	Name   string
	Params []Param
	Body   []expr.Expression
}

func (m *Macro) Kind() expr.Kind { return expr.KindMacro }

func (m *Macro) String() string {
	parts := make([]string, len(m.Params))
	for i, p := range m.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("<macro %s(%s)>", m.Name, strings.Join(parts, " "))
}

// Fn is the foreign-function contract (spec.md §6): pre-evaluated
// arguments plus a mutable Context, returning a value or an Error. Errors
// returned without a range are annotated by the evaluator with the call
// site's range.
type Fn func(args []expr.Expression, ctx *scope.Context) (expr.Expression, *langerr.Error)

// ForeignFunc wraps a host-implemented callable as a first-class value
// (spec.md §3).
type ForeignFunc struct {
	Name string
	Call Fn
}

func (f *ForeignFunc) Kind() expr.Kind { return expr.KindForeignFunc }
func (f *ForeignFunc) String() string  { return fmt.Sprintf("<foreign-func %s>", f.Name) }
