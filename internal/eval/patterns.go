package eval

import (
	"fmt"

	"tan-go/internal/callable"
	"tan-go/internal/expr"
	"tan-go/internal/langerr"
	"tan-go/internal/scope"
	"tan-go/internal/srcrange"
)

// bindPattern binds val against pattern in sc (spec.md §4.8 `let`): a
// Symbol binds directly (`_` discards), an Array destructures positionally
// with `...rest` collection, a List destructures as head/tail, and a Map
// destructures by KeySymbol key naming the binding.
func bindPattern(pattern expr.Expression, val expr.Expression, sc *scope.Scope, callRange srcrange.Range) *langerr.Error {
	switch p := expr.Unpack(pattern).(type) {
	case expr.Symbol:
		return bindSymbolPattern(p, val, sc, callRange)
	case *expr.Array:
		return bindSequencePattern(p.Snapshot(), val, sc, callRange)
	case *expr.List:
		return bindSequencePattern(p.Elements, val, sc, callRange)
	case *expr.Map:
		return bindMapPattern(p, val, sc, callRange)
	default:
		return langerr.InvalidArguments("invalid binding pattern", callRange)
	}
}

func bindSymbolPattern(p expr.Symbol, val expr.Expression, sc *scope.Scope, callRange srcrange.Range) *langerr.Error {
	if p.Name == "_" {
		return nil
	}
	if isReserved(p.Name) {
		return langerr.InvalidArguments(fmt.Sprintf("`%s` is a reserved name and cannot be shadowed", p.Name), callRange)
	}
	sc.Insert(p.Name, val)
	return nil
}

// bindSequencePattern implements both `[a b ...rest]` array destructuring
// and `(head ...tail)` list destructuring — the same positional-with-rest
// shape over either an Array or a List source value (spec.md §4.8).
func bindSequencePattern(patternElems []expr.Expression, val expr.Expression, sc *scope.Scope, callRange srcrange.Range) *langerr.Error {
	var srcElems []expr.Expression
	switch v := expr.Unpack(val).(type) {
	case *expr.Array:
		srcElems = v.Snapshot()
	case *expr.List:
		srcElems = v.Elements
	default:
		return langerr.InvalidArguments("sequence pattern requires an Array or List value", callRange)
	}

	i := 0
	for _, pe := range patternElems {
		sym, ok := expr.Unpack(pe).(expr.Symbol)
		if !ok {
			return langerr.InvalidArguments("sequence pattern elements must be symbols", callRange)
		}
		param := callable.NewParam(sym.Name)
		if param.Rest {
			if param.Name != "_" {
				start := i
				if start > len(srcElems) {
					start = len(srcElems)
				}
				if err := bindSymbolPattern(expr.Symbol{Name: param.Name}, expr.NewArray(srcElems[start:]...), sc, callRange); err != nil {
					return err
				}
			}
			return nil
		}
		if sym.Name == "_" {
			i++
			continue
		}
		if i >= len(srcElems) {
			return langerr.InvalidArguments("sequence pattern length mismatch", callRange)
		}
		if err := bindSymbolPattern(sym, srcElems[i], sc, callRange); err != nil {
			return err
		}
		i++
	}
	if i != len(srcElems) {
		return langerr.InvalidArguments("sequence pattern length mismatch", callRange)
	}
	return nil
}

// bindMapPattern implements `{k1 n1 k2 n2 …}` map destructuring: each key
// of the pattern Map names a field to pull from val, bound to the local
// name given as that key's value (spec.md §4.8).
func bindMapPattern(p *expr.Map, val expr.Expression, sc *scope.Scope, callRange srcrange.Range) *langerr.Error {
	srcMap, ok := expr.Unpack(val).(*expr.Map)
	if !ok {
		return langerr.InvalidArguments("map pattern requires a Map value", callRange)
	}
	for _, pair := range p.Snapshot() {
		nameSym, ok := expr.Unpack(pair.Value).(expr.Symbol)
		if !ok {
			return langerr.InvalidArguments("map pattern values must be symbols naming the local binding", callRange)
		}
		v, _ := srcMap.Get(expr.KeySymbol{Name: pair.Key})
		if err := bindSymbolPattern(nameSym, v, sc, callRange); err != nil {
			return err
		}
	}
	return nil
}
