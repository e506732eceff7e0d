package eventbus

// derived is a Stream that narrows its parent with an extra predicate.
type derived struct {
	parent Stream
	pred   Predicate
}

// Derive returns a Stream carrying the events of parent that p accepts.
// Subscriptions made through it are registered on parent with the combined
// predicate, so chains of Derive compose by conjunction.
func Derive(parent Stream, p Predicate) Stream {
	return &derived{parent: parent, pred: And(p)}
}

func (d *derived) Subscribe(p Predicate, h Handler) Subscription {
	return d.parent.Subscribe(And(d.pred, p), h)
}

func (d *derived) Filter(p Predicate) Stream {
	return Derive(d, p)
}
