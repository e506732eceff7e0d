// Package eventbus defines the in-process event distribution contract used by
// tapdeck: typed event records, subscriptions and derived (filtered) streams.
package eventbus

// Handler receives delivered events.
type Handler func(Event)

// Subscription is the handle returned by Subscribe.
type Subscription interface {
	// ID returns an opaque identifier, stable for the lifetime of the subscription.
	ID() string

	// Unsubscribe stops delivery of future events. Calling it more than once has
	// no additional effect. A callback that is already running is not interrupted.
	Unsubscribe()
}

// Stream is the publisher side of the bus: something that can be observed.
type Stream interface {
	// Subscribe registers h for every future event accepted by p.
	// A nil predicate accepts all events.
	Subscribe(p Predicate, h Handler) Subscription

	// Filter returns a derived stream that only carries events accepted by both
	// this stream and p.
	Filter(p Predicate) Stream
}

// Bus is a Stream that events can be emitted on.
type Bus interface {
	Stream

	// Emit stamps a new event of the given kind and delivers it synchronously,
	// in subscription order, before returning.
	Emit(kind Kind)
}

// Subscriber is the consumer side of the bus.
type Subscriber interface {
	Receive(Event)
}

// Attach subscribes sub to every event carried by s.
func Attach(s Stream, sub Subscriber) Subscription {
	return s.Subscribe(nil, sub.Receive)
}
