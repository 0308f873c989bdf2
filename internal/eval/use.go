package eval

import (
	"strings"

	"tan-go/internal/expr"
	"tan-go/internal/langerr"
	"tan-go/internal/scope"
	"tan-go/internal/srcrange"
)

// modulePrefixSeparator joins a prefix import's alias (or module stem)
// with the imported binding name: `(use net @std/net)` binds `net.connect`
// rather than shadowing a bare `connect` (spec.md §4.8 form (b)).
const modulePrefixSeparator = "."

// modulePathText reads a `use` path argument without evaluating it: paths
// are string literals or bare symbols naming a path, never variables
// (spec.md §4.8: "paths may be string literals or symbols").
func modulePathText(e expr.Expression) (string, bool) {
	switch v := expr.Unpack(e).(type) {
	case expr.String:
		return v.Value, true
	case expr.Symbol:
		return v.Name, true
	default:
		return "", false
	}
}

// evalUse implements the three `use` forms (spec.md §4.8, §9 "Path
// resolution"):
//
//	(use [name1 name2 …] module-path)  — import selected names (each may
//	                                      match a prefix of several bindings,
//	                                      e.g. a dispatch family)
//	(use alias module-path)            — import every non-dynamic name
//	                                      under the given alias prefix
//	(use module-path)                  — same, prefixed by the module stem
func evalUse(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(tail) < 1 || len(tail) > 2 {
		return nil, langerr.InvalidArguments("use requires a module path, optionally preceded by a name list or alias", callRange)
	}

	var selector expr.Expression
	pathExpr := tail[len(tail)-1]
	if len(tail) == 2 {
		selector = tail[0]
	}

	modulePath, ok := modulePathText(pathExpr)
	if !ok {
		return nil, langerr.InvalidArguments("use module path must be a string literal or symbol", callRange)
	}

	if ctx.Loader == nil {
		return nil, langerr.FailedUseErr(modulePath, nil)
	}
	mod, err := ctx.Loader.Load(ctx, modulePath)
	if err != nil {
		return nil, langerr.FailedUseErr(modulePath, []*langerr.Error{err})
	}

	bindings := mod.Scope.Bindings()

	if arr, ok := expr.Unpack(selector).(*expr.Array); ok {
		for _, nameExpr := range arr.Snapshot() {
			sym, ok := expr.Unpack(nameExpr).(expr.Symbol)
			if !ok {
				return nil, langerr.InvalidArguments("use name list must contain symbols", callRange)
			}
			matched := false
			for key, val := range bindings {
				if key == sym.Name || strings.HasPrefix(key, sym.Name+dispatchSeparator) {
					ctx.Scope.Insert(key, expr.WithRange(val, callRange))
					matched = true
				}
			}
			if !matched {
				return nil, langerr.InvalidArguments("`"+sym.Name+"` is not exported by `"+modulePath+"`", callRange)
			}
		}
		return expr.Unit, nil
	}

	prefix := mod.Stem
	if selector != nil {
		sym, ok := expr.Unpack(selector).(expr.Symbol)
		if !ok {
			return nil, langerr.InvalidArguments("use alias must be a symbol", callRange)
		}
		prefix = sym.Name
	}
	for key, val := range bindings {
		if strings.HasPrefix(key, "*") {
			continue // dynamic-scope names are not importable under a prefix
		}
		ctx.Scope.Insert(prefix+modulePrefixSeparator+key, expr.WithRange(val, callRange))
	}
	return expr.Unit, nil
}
