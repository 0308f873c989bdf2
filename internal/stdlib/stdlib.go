/*
Package stdlib is the minimal foreign-function registry spec.md §1 treats
as an external collaborator ("the foreign-function standard library ...
contain[s] no hard design: given the core, [it is] mechanical"). It exists
here only far enough to exercise §8's testable properties — arithmetic
dispatch, `push`, `len`, `print` — grounded on the teacher's
std/builtins.go `Builtin` registry (name + callback, appended to a global
slice and installed into the evaluator's scope at startup) rather than
go-mix's own operator set, since the language here has its own grammar.
*/
package stdlib

import (
	"tan-go/internal/callable"
	"tan-go/internal/scope"
)

// Builtin names one foreign function the way the teacher's std.Builtin
// does: a lookup name and a callback, collected into a package-level
// registry at init time rather than built by hand at each call site.
type Builtin struct {
	Name string
	Call callable.Fn
}

// registry collects every Builtin registered by this package's other
// files' init() functions (spec.md §6, "Core values exposed to foreign
// code").
var registry []*Builtin

func register(name string, fn callable.Fn) {
	registry = append(registry, &Builtin{Name: name, Call: fn})
}

// Install binds every registered builtin as a ForeignFunc into sc — the
// prelude scope internal/pipeline builds once per Context (spec.md §9,
// "Prelude scope").
func Install(sc *scope.Scope) {
	for _, b := range registry {
		sc.Insert(b.Name, &callable.ForeignFunc{Name: b.Name, Call: b.Call})
	}
}
