/*
Package optimize implements the fifth pipeline stage (spec.md §4.5): a
local rewrite that replaces the parser's `(Array x y z)` and
`(Map k v k v …)` list forms with native Array and Map values, recursively,
depth-first. No other optimizations are performed.
*/
package optimize

import "tan-go/internal/expr"

// Optimize rewrites e and every expression nested inside it, collapsing
// Array/Map list forms into native containers. Annotations present on the
// original list are preserved on the resulting container (spec.md §4.5).
func Optimize(e expr.Expression) expr.Expression {
	if ann, ok := e.(*expr.Annotated); ok {
		return &expr.Annotated{Inner: Optimize(ann.Inner), Meta: ann.Meta}
	}

	list, ok := e.(*expr.List)
	if !ok {
		return e
	}

	elems := make([]expr.Expression, len(list.Elements))
	for i, el := range list.Elements {
		elems[i] = Optimize(el)
	}

	if len(elems) == 0 {
		return &expr.List{}
	}

	head, ok := expr.Unpack(elems[0]).(expr.Type)
	if !ok {
		return &expr.List{Elements: elems}
	}

	switch head.Name {
	case "Array":
		return expr.NewArray(elems[1:]...)
	case "Map":
		return buildMap(elems[1:])
	default:
		return &expr.List{Elements: elems}
	}
}

// All optimizes every top-level expression produced by macro expansion.
func All(exprs []expr.Expression) []expr.Expression {
	out := make([]expr.Expression, len(exprs))
	for i, e := range exprs {
		out[i] = Optimize(e)
	}
	return out
}

// buildMap pairs up k v k v … into a native Map. An odd trailing key with
// no value is dropped; the parser already reports this shape as a parse
// error (spec.md §4.2), so by the time a tree reaches Optimize this should
// not occur outside of a macro-generated list.
func buildMap(pairs []expr.Expression) *expr.Map {
	m := expr.NewMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}
