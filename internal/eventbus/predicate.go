package eventbus

// Predicate decides whether an event should be delivered.
type Predicate func(Event) bool

// All accepts every event.
func All() Predicate {
	return func(Event) bool { return true }
}

// OfKind accepts events whose kind is one of kinds.
func OfKind(kinds ...Kind) Predicate {
	return func(e Event) bool {
		for _, k := range kinds {
			if e.Kind == k {
				return true
			}
		}
		return false
	}
}

// And accepts an event only if every non-nil predicate accepts it.
// With no non-nil predicates it accepts everything.
func And(preds ...Predicate) Predicate {
	compact := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			compact = append(compact, p)
		}
	}
	switch len(compact) {
	case 0:
		return All()
	case 1:
		return compact[0]
	}
	return func(e Event) bool {
		for _, p := range compact {
			if !p(e) {
				return false
			}
		}
		return true
	}
}

// Not inverts p. A nil p is treated as All, so Not(nil) rejects everything.
func Not(p Predicate) Predicate {
	if p == nil {
		p = All()
	}
	return func(e Event) bool { return !p(e) }
}
