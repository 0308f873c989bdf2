package eval

import (
	"fmt"

	"tan-go/internal/expr"
	"tan-go/internal/iterator"
	"tan-go/internal/langerr"
	"tan-go/internal/scope"
	"tan-go/internal/srcrange"
)

// evalWhile implements `(while pred body…)`: loop while pred evaluates
// true; value is the last body value (spec.md §4.8).
func evalWhile(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(tail) < 1 {
		return nil, langerr.InvalidArguments("while requires a predicate", callRange)
	}
	pred, body := tail[0], tail[1:]

	var result expr.Expression = expr.Unit
	for {
		cond, err := evalBoolPredicate(pred, ctx, callRange)
		if err != nil {
			return nil, err
		}
		if !cond {
			break
		}
		v, err := evalSequence(body, ctx)
		if err != nil {
			if err.Variant == langerr.BreakSignal {
				if val, ok := err.Signal.(expr.Expression); ok && val != nil {
					result = val
				}
				break
			}
			if err.Variant == langerr.ContinueSignal {
				continue
			}
			return nil, err
		}
		result = v
	}
	return result, nil
}

// forBinding is one `name value` pair of a `for`/`for->list` binding list,
// with the iterable already evaluated and turned into an iterator.
type forBinding struct {
	name string
	iter iterator.Iterator
}

// setupForBindings evaluates tail0 (the `[name1 value1 …]` binding list),
// evaluating each value expression once to obtain the source iterable and
// wrapping it in an iterator (spec.md §4.8: "each pair establishes a
// binding whose value is turned into an iterator").
func setupForBindings(tail0 expr.Expression, ctx *scope.Context, callRange srcrange.Range) ([]forBinding, *langerr.Error) {
	bindingsVal, err := evalOne(tail0, ctx)
	if err != nil {
		return nil, err
	}
	bindingsArr, ok := expr.Unpack(bindingsVal).(*expr.Array)
	if !ok {
		return nil, langerr.InvalidArguments("for binding list must be an Array", callRange)
	}
	pairs := bindingsArr.Snapshot()
	if len(pairs)%2 != 0 {
		return nil, langerr.InvalidArguments("for requires name/value pairs", callRange)
	}

	bindings := make([]forBinding, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		sym, ok := expr.Unpack(pairs[i]).(expr.Symbol)
		if !ok {
			return nil, langerr.InvalidArguments("for binding name must be a symbol", callRange)
		}
		srcVal, err := evalOne(pairs[i+1], ctx)
		if err != nil {
			return nil, err
		}
		it, ok := iterator.New(srcVal)
		if !ok {
			return nil, langerr.InvalidArguments(
				fmt.Sprintf("value of type %s is not iterable", expr.TypeName(srcVal)), callRange)
		}
		bindings = append(bindings, forBinding{name: sym.Name, iter: it})
	}
	return bindings, nil
}

// evalFor implements `(for [name1 value1 …] body…)`: iterator-driven,
// zip/lockstep across every binding, stopping when any iterator is
// exhausted (spec.md §4.8, §8 property 11).
func evalFor(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(tail) < 1 {
		return nil, langerr.InvalidArguments("for requires a binding list", callRange)
	}
	bindings, err := setupForBindings(tail[0], ctx, callRange)
	if err != nil {
		return nil, err
	}
	body := tail[1:]

	restore := ctx.EnterScope()
	defer restore()

	var result expr.Expression = expr.Unit
	for {
		vals := make([]expr.Expression, len(bindings))
		exhausted := false
		for i, b := range bindings {
			v, ok := b.iter.Next()
			if !ok {
				exhausted = true
				break
			}
			vals[i] = v
		}
		if exhausted {
			break
		}
		for i, b := range bindings {
			ctx.Scope.Insert(b.name, vals[i])
		}

		v, err := evalSequence(body, ctx)
		if err != nil {
			if err.Variant == langerr.BreakSignal {
				if val, ok := err.Signal.(expr.Expression); ok && val != nil {
					result = val
				}
				break
			}
			if err.Variant == langerr.ContinueSignal {
				continue
			}
			return nil, err
		}
		result = v
	}
	return result, nil
}

// evalForToList implements `(for->list [name source] body…)`: same
// zip-iteration as `for`, accumulating every body value into an Array
// (spec.md §4.8, §8 property 11).
func evalForToList(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(tail) < 1 {
		return nil, langerr.InvalidArguments("for->list requires a binding list", callRange)
	}
	bindings, err := setupForBindings(tail[0], ctx, callRange)
	if err != nil {
		return nil, err
	}
	body := tail[1:]

	restore := ctx.EnterScope()
	defer restore()

	var results []expr.Expression
	for {
		vals := make([]expr.Expression, len(bindings))
		exhausted := false
		for i, b := range bindings {
			v, ok := b.iter.Next()
			if !ok {
				exhausted = true
				break
			}
			vals[i] = v
		}
		if exhausted {
			break
		}
		for i, b := range bindings {
			ctx.Scope.Insert(b.name, vals[i])
		}

		v, err := evalSequence(body, ctx)
		if err != nil {
			if err.Variant == langerr.BreakSignal {
				break
			}
			if err.Variant == langerr.ContinueSignal {
				continue
			}
			return nil, err
		}
		results = append(results, v)
	}
	return expr.NewArray(results...), nil
}

// evalForEach implements `(for-each seq name body)`: a simpler
// single-iterator variant (spec.md §4.8).
func evalForEach(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(tail) < 2 {
		return nil, langerr.InvalidArguments("for-each requires a sequence and a binding name", callRange)
	}
	seqVal, err := evalOne(tail[0], ctx)
	if err != nil {
		return nil, err
	}
	sym, ok := expr.Unpack(tail[1]).(expr.Symbol)
	if !ok {
		return nil, langerr.InvalidArguments("for-each binding name must be a symbol", callRange)
	}
	it, ok := iterator.New(seqVal)
	if !ok {
		return nil, langerr.InvalidArguments(
			fmt.Sprintf("value of type %s is not iterable", expr.TypeName(seqVal)), callRange)
	}
	body := tail[2:]

	restore := ctx.EnterScope()
	defer restore()

	var result expr.Expression = expr.Unit
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		ctx.Scope.Insert(sym.Name, v)
		bv, err := evalSequence(body, ctx)
		if err != nil {
			if err.Variant == langerr.BreakSignal {
				if val, ok := err.Signal.(expr.Expression); ok && val != nil {
					result = val
				}
				break
			}
			if err.Variant == langerr.ContinueSignal {
				continue
			}
			return nil, err
		}
		result = bv
	}
	return result, nil
}

// evalMapForm implements `(map func seq)`: apply func to each element of
// seq, returning an Array. Kept a special form so that func's per-element
// applications are not pre-evaluated as a single generic call (spec.md
// §4.8).
func evalMapForm(tail []expr.Expression, ctx *scope.Context, callRange srcrange.Range) (expr.Expression, *langerr.Error) {
	if len(tail) != 2 {
		return nil, langerr.InvalidArguments("map requires a function and a sequence", callRange)
	}
	funcVal, err := evalOne(tail[0], ctx)
	if err != nil {
		return nil, err
	}
	seqVal, err := evalOne(tail[1], ctx)
	if err != nil {
		return nil, err
	}
	it, ok := iterator.New(seqVal)
	if !ok {
		return nil, langerr.InvalidArguments(
			fmt.Sprintf("value of type %s is not iterable", expr.TypeName(seqVal)), callRange)
	}

	var results []expr.Expression
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		r, err := invoke(funcVal, []expr.Expression{v}, ctx, callRange)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return expr.NewArray(results...), nil
}
