package expr

import (
	"sort"
	"strings"

	"tan-go/internal/srcrange"
)

// Annotated wraps any Expression with a string-keyed map of metadata
// (spec.md §3): a `type` annotation carries a declared type symbol, a
// `range` annotation carries source positions, a `method` annotation
// carries the multiple-dispatch key computed at a call site, and user code
// may attach arbitrary flags with `#flag` / `#(key expr)` syntax.
type Annotated struct {
	Inner Expression
	Meta  map[string]Expression
}

func (a *Annotated) Kind() Kind { return KindAnnotated }

func (a *Annotated) String() string { return a.Inner.String() }

// Unpack peels every layer of annotation off e and returns the bare inner
// expression (spec.md §3: "`.unpack()` peels annotations").
func Unpack(e Expression) Expression {
	for {
		a, ok := e.(*Annotated)
		if !ok {
			return e
		}
		e = a.Inner
	}
}

// Extract returns the innermost expression together with the merged
// annotation map accumulated across every layer (spec.md §3: "`.extract()`
// returns (inner, annotations)"). Inner layers' keys are overridden by
// outer layers on conflict.
func Extract(e Expression) (Expression, map[string]Expression) {
	merged := map[string]Expression{}
	for {
		a, ok := e.(*Annotated)
		if !ok {
			return e, merged
		}
		for k, v := range a.Meta {
			if _, exists := merged[k]; !exists {
				merged[k] = v
			}
		}
		e = a.Inner
	}
}

// Annotate attaches key -> value to e, wrapping it in an Annotated if
// necessary, or adding to the existing outermost Meta map otherwise. The
// original e is not mutated; a new Annotated value is returned.
func Annotate(e Expression, key string, value Expression) Expression {
	if a, ok := e.(*Annotated); ok {
		meta := make(map[string]Expression, len(a.Meta)+1)
		for k, v := range a.Meta {
			meta[k] = v
		}
		meta[key] = value
		return &Annotated{Inner: a.Inner, Meta: meta}
	}
	return &Annotated{Inner: e, Meta: map[string]Expression{key: value}}
}

// GetAnnotation looks up key across every annotation layer of e, preferring
// the outermost.
func GetAnnotation(e Expression, key string) (Expression, bool) {
	for {
		a, ok := e.(*Annotated)
		if !ok {
			return nil, false
		}
		if v, ok := a.Meta[key]; ok {
			return v, true
		}
		e = a.Inner
	}
}

// StripAnnotations returns e with its Annotated layers removed, recursing
// into List elements; the elements of Array, Map and Set values are not
// stripped. Used to implement the Set/Map "keys and equality ignore
// annotations" invariant (spec.md §3).
func StripAnnotations(e Expression) Expression {
	switch v := Unpack(e).(type) {
	case *List:
		elems := make([]Expression, len(v.Elements))
		for i, el := range v.Elements {
			elems[i] = StripAnnotations(el)
		}
		return &List{Elements: elems}
	default:
		return v
	}
}

// RangeValue is an internal-only Expression used exclusively as the payload
// of a "range" annotation; it is never produced by user code and never
// appears in a printed program.
type RangeValue struct{ R srcrange.Range }

func (r RangeValue) Kind() Kind     { return KindAnnotated }
func (r RangeValue) String() string { return r.R.String() }

// WithRange annotates e with its source range.
func WithRange(e Expression, r srcrange.Range) Expression {
	return Annotate(e, "range", RangeValue{R: r})
}

// SourceRange recovers the range annotation of e, if any. Every expression
// carrying user source has one, reachable through annotation or through its
// list-head's annotation (spec.md §3 invariant); callers that need the
// head's range for a List fall back to that themselves.
func SourceRange(e Expression) (srcrange.Range, bool) {
	v, ok := GetAnnotation(e, "range")
	if !ok {
		return srcrange.Range{}, false
	}
	rv, ok := v.(RangeValue)
	if !ok {
		return srcrange.Range{}, false
	}
	return rv.R, true
}

// WithType annotates e with a declared type symbol (the `#Foo` shorthand,
// spec.md §4.2).
func WithType(e Expression, typeName string) Expression {
	return Annotate(e, "type", Type{Name: typeName})
}

// WithFlag annotates e with a boolean user flag (the `#flag` shorthand).
func WithFlag(e Expression, flag string) Expression {
	return Annotate(e, flag, True)
}

// WithMethod annotates a Symbol with the dispatch key computed from a call
// site's argument types (spec.md §4.7).
func WithMethod(e Expression, methodKey string) Expression {
	return Annotate(e, "method", String{Value: methodKey})
}

// SortedMetaKeys returns an Annotated's metadata keys in a stable order,
// used only for deterministic debug printing.
func SortedMetaKeys(a *Annotated) []string {
	keys := make([]string, 0, len(a.Meta))
	for k := range a.Meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DebugString renders e including its annotations, used by REPL inspection.
func DebugString(e Expression) string {
	a, ok := e.(*Annotated)
	if !ok {
		return e.String()
	}
	var b strings.Builder
	b.WriteString(DebugString(a.Inner))
	b.WriteString(" #(")
	for i, k := range SortedMetaKeys(a) {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(a.Meta[k].String())
	}
	b.WriteString(")")
	return b.String()
}
