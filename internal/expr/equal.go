package expr

// Equal reports structural equality between two expressions, ignoring
// annotations on both sides (spec.md §3 invariant). Composite containers
// compare element-wise; Func/Macro/ForeignFunc (defined in package
// callable) compare by identity: closures compare equal only to themselves.
func Equal(a, b Expression) bool {
	a, b = Unpack(a), Unpack(b)
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case *List:
		bv := b.(*List)
		if len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Array:
		bv := b.(*Array)
		as, bs := av.Snapshot(), bv.Snapshot()
		if len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !Equal(as[i], bs[i]) {
				return false
			}
		}
		return true
	case *Map:
		bv := b.(*Map)
		as, bs := av.Snapshot(), bv.Snapshot()
		if len(as) != len(bs) {
			return false
		}
		bm := map[string]Expression{}
		for _, p := range bs {
			bm[p.Key] = p.Value
		}
		for _, p := range as {
			other, ok := bm[p.Key]
			if !ok || !Equal(p.Value, other) {
				return false
			}
		}
		return true
	case *SetValue:
		bv := b.(*SetValue)
		as, bs := av.Snapshot(), bv.Snapshot()
		if len(as) != len(bs) {
			return false
		}
		for _, x := range as {
			found := false
			for _, y := range bs {
				if Equal(x, y) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	default:
		switch a.Kind() {
		case KindFunc, KindMacro, KindForeignFunc:
			return a == b
		}
		return a.String() == b.String() && sameNumericKind(a, b)
	}
}

// sameNumericKind guards against Int(1).String() == Float(1).String()-style
// false positives for unrelated kinds; redundant once Kind() already
// matched, but keeps the comparison honest if String() forms collide.
func sameNumericKind(a, b Expression) bool {
	return a.Kind() == b.Kind()
}
