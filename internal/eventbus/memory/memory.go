package memory

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ccheshirecat/tapdeck/internal/eventbus"
)

// Bus is an in-memory, synchronous event bus. Delivery happens on the
// goroutine that calls Emit, in subscription order.
type Bus struct {
	mu     sync.RWMutex
	subs   []*subscription
	now    func() time.Time
	logger *slog.Logger
}

var _ eventbus.Bus = (*Bus)(nil)

// Option configures a Bus.
type Option func(*Bus)

// WithClock overrides the time source used to stamp emitted events.
func WithClock(now func() time.Time) Option {
	return func(b *Bus) {
		if now != nil {
			b.now = now
		}
	}
}

// WithLogger sets the logger used for subscription lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates a new Bus instance.
func New(opts ...Option) *Bus {
	b := &Bus{
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Emit stamps an event and hands it to every matching subscriber.
//
// The subscriber list is snapshotted first: subscriptions added by a callback
// do not see the in-flight event, and subscriptions cancelled by a callback
// are skipped if they have not been reached yet. A panicking callback aborts
// the pass and propagates to the caller.
func (b *Bus) Emit(kind eventbus.Kind) {
	e := eventbus.Event{Kind: kind, Timestamp: b.now()}

	b.mu.RLock()
	snapshot := make([]*subscription, len(b.subs))
	copy(snapshot, b.subs)
	b.mu.RUnlock()

	for _, s := range snapshot {
		if !s.active.Load() {
			continue
		}
		if s.pred(e) {
			s.handler(e)
		}
	}
}

// Subscribe registers h for future events accepted by p. A nil p accepts all.
func (b *Bus) Subscribe(p eventbus.Predicate, h eventbus.Handler) eventbus.Subscription {
	if h == nil {
		panic("eventbus: handler must not be nil")
	}
	s := &subscription{
		id:      uuid.NewString(),
		pred:    eventbus.And(p),
		handler: h,
		bus:     b,
	}
	s.active.Store(true)

	b.mu.Lock()
	b.subs = append(b.subs, s)
	n := len(b.subs)
	b.mu.Unlock()

	b.logger.Debug("subscribed", "subscription_id", s.id, "active", n)
	return s
}

// Filter returns a derived stream narrowed by p.
func (b *Bus) Filter(p eventbus.Predicate) eventbus.Stream {
	return eventbus.Derive(b, p)
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus) remove(s *subscription) {
	b.mu.Lock()
	for i := range b.subs {
		if b.subs[i] == s {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			break
		}
	}
	n := len(b.subs)
	b.mu.Unlock()

	b.logger.Debug("unsubscribed", "subscription_id", s.id, "active", n)
}

type subscription struct {
	id      string
	pred    eventbus.Predicate
	handler eventbus.Handler
	bus     *Bus
	active  atomic.Bool
}

func (s *subscription) ID() string {
	return s.id
}

// Unsubscribe removes the subscription; only the first call has an effect.
func (s *subscription) Unsubscribe() {
	if !s.active.CompareAndSwap(true, false) {
		return
	}
	s.bus.remove(s)
}
