// Package counter tallies events of a single kind.
package counter

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/ccheshirecat/tapdeck/internal/eventbus"
)

// Counter counts every event it receives. Attach it to a stream filtered to
// its kind, see Subscribe.
type Counter struct {
	kind eventbus.Kind
	n    atomic.Int64
}

var _ eventbus.Subscriber = (*Counter)(nil)

// New returns a Counter labelled for kind.
func New(kind eventbus.Kind) *Counter {
	return &Counter{kind: kind}
}

// Subscribe attaches c to the events of its kind carried by s.
func (c *Counter) Subscribe(s eventbus.Stream) eventbus.Subscription {
	return eventbus.Attach(s.Filter(eventbus.OfKind(c.kind)), c)
}

func (c *Counter) Receive(eventbus.Event) {
	c.n.Add(1)
}

// Count returns the number of events received so far.
func (c *Counter) Count() int {
	return int(c.n.Load())
}

// Kind returns the kind this counter is labelled for.
func (c *Counter) Kind() eventbus.Kind {
	return c.kind
}

// Label renders the counter the way the UI shows it, e.g. "Number of Click Events: 3".
func (c *Counter) Label() string {
	name := string(c.kind)
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return fmt.Sprintf("Number of %s Events: %d", name, c.Count())
}
