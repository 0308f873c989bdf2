/*
Package scope implements the lexical/dynamic scope chain and the
per-interpreter Context (spec.md §3, "Scope" and "Context" paragraphs).

A Scope is a name -> Expression binding frame with a parent pointer; lookup
walks from the innermost frame to the root, while insertion only ever
touches the current frame (the rule that gives lexical scoping and
shadowing). Context bundles three such chains — the lexical scope, the
dynamic scope, and the top_scope prelude frame every module scope sits on
top of — plus the module registry that memoizes `use`.
*/
package scope

import (
	"sync"

	"tan-go/internal/expr"
)

// Scope is a single binding frame in the lexical or dynamic scope chain.
type Scope struct {
	mu     sync.RWMutex
	vars   map[string]expr.Expression
	Parent *Scope
}

// New creates a scope with the given parent (nil for a root scope).
func New(parent *Scope) *Scope {
	return &Scope{vars: make(map[string]expr.Expression), Parent: parent}
}

// Lookup searches this scope, then its ancestors, for name (spec.md §3:
// "lookup walks to the root").
func (s *Scope) Lookup(name string) (expr.Expression, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		sc.mu.RLock()
		v, ok := sc.vars[name]
		sc.mu.RUnlock()
		if ok {
			return v, true
		}
	}
	return nil, false
}

// Insert binds name in THIS frame only, shadowing any outer binding
// (spec.md §3: "Insertion shadows only in the current frame").
func (s *Scope) Insert(name string, value expr.Expression) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars[name] = value
}

// Has reports whether name is bound in this frame specifically (used by
// `def`, which "disallows redefining an existing name in the current
// scope", spec.md §4.8).
func (s *Scope) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.vars[name]
	return ok
}

// Update walks the chain to mutate the first existing binding of name,
// otherwise inserts at the root (spec.md §3: "update(name, value) walks
// the chain to mutate the first binding found (otherwise inserts at the
// root)").
func (s *Scope) Update(name string, value expr.Expression) {
	root := s
	for sc := s; sc != nil; sc = sc.Parent {
		sc.mu.Lock()
		if _, ok := sc.vars[name]; ok {
			sc.vars[name] = value
			sc.mu.Unlock()
			return
		}
		sc.mu.Unlock()
		root = sc
	}
	root.Insert(name, value)
}

// Bindings returns a snapshot of this frame's own bindings (not ancestors),
// used by `use` to import a module's public names.
func (s *Scope) Bindings() map[string]expr.Expression {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]expr.Expression, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}

// MergeMap copies every entry of a Map into this frame, implementing the
// `(scope-update map-expr)` special form (spec.md §4.8).
func (s *Scope) MergeMap(m *expr.Map) {
	for _, p := range m.Snapshot() {
		s.Insert(p.Key, p.Value)
	}
}
