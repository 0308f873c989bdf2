package scope

import (
	"sync"

	"tan-go/internal/expr"
	"tan-go/internal/langerr"
)

// Module is a named collection of bindings produced by evaluating the
// source files of a directory (spec.md §3, "Module"). A module is
// constructed once and memoized by its canonical path in the owning
// Context's registry (spec.md §9, "Module registry").
type Module struct {
	Stem  string
	Path  string
	Files []string
	Scope *Scope
}

// Registry memoizes modules by canonical absolute path. Each Context owns
// one (spec.md §5: "each [Context] owns its module registry and scopes").
type Registry struct {
	mu      sync.Mutex
	modules map[string]*Module
}

func newRegistry() *Registry {
	return &Registry{modules: make(map[string]*Module)}
}

// Get returns the memoized module at canonicalPath, if loaded.
func (r *Registry) Get(canonicalPath string) (*Module, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.modules[canonicalPath]
	return m, ok
}

// Store records a freshly loaded module under its canonical path. If a
// concurrent load already populated the slot, that existing module wins
// (breaking import cycles, spec.md §9 "Module registry").
func (r *Registry) Store(canonicalPath string, m *Module) *Module {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.modules[canonicalPath]; ok {
		return existing
	}
	r.modules[canonicalPath] = m
	return m
}

// Len reports how many distinct modules have been loaded; used by tests of
// the memoization property (spec.md §8 property 10).
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.modules)
}

// ModuleLoader loads the module named by a `use` path, relative to the
// current file or anchored at the configured root (spec.md §4.8, §9 "Path
// resolution"). It is implemented by internal/pipeline, which orchestrates
// the full lex/parse/prune/macroexpand/optimize/eval cycle over a module's
// files; package scope only needs the resulting bindings, so the interface
// lives here rather than introducing a dependency from scope to pipeline.
type ModuleLoader interface {
	Load(ctx *Context, modulePath string) (*Module, *langerr.Error)
}

// Context is the per-interpreter execution state (spec.md §3, "Context").
// It is created once per interpreter instance and lives for its lifetime.
type Context struct {
	RootPath string
	Registry *Registry

	// Loader resolves `use` module paths. Set by the pipeline package at
	// Context construction; nil means `use` always fails with FailedUse.
	Loader ModuleLoader

	// Scope is the current lexical scope. Special forms that introduce a
	// new binding frame (do, let-bearing bodies, function calls) swap this
	// pointer in and restore it on exit (spec.md §5, "Resource policy").
	Scope *Scope

	// DynamicScope is the current dynamic-scope frame, established by
	// let-ds and looked up for `*name*`-style symbols.
	DynamicScope *Scope

	// TopScope is the prelude frame underlying every module's scope
	// (spec.md §3, §9 "Prelude scope").
	TopScope *Scope
}

// NewContext creates a bare Context rooted at rootPath. TopScope is an
// empty scope with no parent and Scope is a fresh child of it; callers
// (internal/pipeline) populate TopScope with prelude bindings.
func NewContext(rootPath string) *Context {
	top := New(nil)
	return &Context{
		RootPath:     rootPath,
		Registry:     newRegistry(),
		TopScope:     top,
		Scope:        New(top),
		DynamicScope: New(nil),
	}
}

// EnterScope pushes a fresh child lexical scope and returns a function that
// restores the previous one — the single mechanism every scope-introducing
// special form uses (spec.md §5: "every scope entered by a special form is
// restored on exit via a scoped acquisition pattern").
func (c *Context) EnterScope() func() {
	prev := c.Scope
	c.Scope = New(prev)
	return func() { c.Scope = prev }
}

// EnterDynamicScope pushes a fresh dynamic-scope frame for `let-ds`.
func (c *Context) EnterDynamicScope() func() {
	prev := c.DynamicScope
	c.DynamicScope = New(prev)
	return func() { c.DynamicScope = prev }
}

// Lookup resolves name in the dynamic scope if it is a `*...*`-wrapped
// symbol, otherwise in the lexical scope (spec.md §4.7).
func (c *Context) Lookup(sym expr.Symbol) (expr.Expression, bool) {
	if sym.IsDynamic() {
		return c.DynamicScope.Lookup(sym.Name)
	}
	return c.Scope.Lookup(sym.Name)
}
