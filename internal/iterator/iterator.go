/*
Package iterator implements the iteration protocol (spec.md §4.6): a
stateful object with a single Next() operation returning the next value or
none. Iterators are not restartable — once exhausted, they stay exhausted.

Per the open question on iterator invalidation left unresolved by the
source (spec.md §9), this implementation snapshots the underlying
container at iterator-creation time: mutating an Array/Map/Set while
iterating it is observed as iterating the pre-mutation snapshot, never a
torn read and never a crash. See DESIGN.md for the rationale.
*/
package iterator

import "tan-go/internal/expr"

// Iterator produces a sequence of values one at a time.
type Iterator interface {
	// Next returns the next value and true, or (nil, false) once exhausted.
	Next() (expr.Expression, bool)
}

// intRange iterates 0..n or an explicit IntRange with a step.
type intRange struct {
	cur, end, step int64
	done           bool
}

func (r *intRange) Next() (expr.Expression, bool) {
	if r.done {
		return nil, false
	}
	if r.step > 0 && r.cur >= r.end {
		r.done = true
		return nil, false
	}
	if r.step < 0 && r.cur <= r.end {
		r.done = true
		return nil, false
	}
	v := r.cur
	r.cur += r.step
	return expr.Int{Value: v}, true
}

type floatRange struct {
	cur, end, step float64
	done           bool
}

func (r *floatRange) Next() (expr.Expression, bool) {
	if r.done {
		return nil, false
	}
	if r.step > 0 && r.cur >= r.end {
		r.done = true
		return nil, false
	}
	if r.step < 0 && r.cur <= r.end {
		r.done = true
		return nil, false
	}
	v := r.cur
	r.cur += r.step
	return expr.Float{Value: v}, true
}

// sliceIter walks a fixed, pre-snapshotted slice of values.
type sliceIter struct {
	values []expr.Expression
	pos    int
}

func (s *sliceIter) Next() (expr.Expression, bool) {
	if s.pos >= len(s.values) {
		return nil, false
	}
	v := s.values[s.pos]
	s.pos++
	return v, true
}

// New builds the iterator appropriate for value's runtime kind (spec.md
// §4.6): Int as the exclusive upper bound of 0..n, Float likewise for
// 0.0..n, IntRange/FloatRange honoring their step, and List/Array/Map by
// walking a snapshot (Map yields [key value] pairs as a 2-element Array).
func New(value expr.Expression) (Iterator, bool) {
	switch v := expr.Unpack(value).(type) {
	case expr.Int:
		return &intRange{cur: 0, end: v.Value, step: 1}, true
	case expr.Float:
		return &floatRange{cur: 0, end: v.Value, step: 1}, true
	case expr.IntRange:
		step := v.Step
		if step == 0 {
			step = 1
		}
		return &intRange{cur: v.Start, end: v.End, step: step}, true
	case expr.FloatRange:
		step := v.Step
		if step == 0 {
			step = 1
		}
		return &floatRange{cur: v.Start, end: v.End, step: step}, true
	case *expr.List:
		vals := make([]expr.Expression, len(v.Elements))
		copy(vals, v.Elements)
		return &sliceIter{values: vals}, true
	case *expr.Array:
		return &sliceIter{values: v.Snapshot()}, true
	case *expr.Map:
		pairs := v.Snapshot()
		vals := make([]expr.Expression, len(pairs))
		for i, p := range pairs {
			vals[i] = expr.NewArray(expr.String{Value: p.Key}, p.Value)
		}
		return &sliceIter{values: vals}, true
	case *expr.SetValue:
		return &sliceIter{values: v.Snapshot()}, true
	default:
		return nil, false
	}
}
