// Package history keeps a bounded, rolling record of bus events for the debug panel.
package history

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ccheshirecat/tapdeck/internal/eventbus"
)

// Capacity is the number of events a Recorder retains.
const Capacity = 100

// Recorder retains the most recent Capacity events, evicting the oldest first.
// Events are stored in a ring; the zero value is not usable, use New.
type Recorder struct {
	mu    sync.Mutex
	buf   []eventbus.Event
	start int
	n     int
}

var _ eventbus.Subscriber = (*Recorder)(nil)

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{buf: make([]eventbus.Event, Capacity)}
}

// Receive appends e, evicting the oldest event when full.
func (r *Recorder) Receive(e eventbus.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.n < len(r.buf) {
		r.buf[(r.start+r.n)%len(r.buf)] = e
		r.n++
		return
	}
	r.buf[r.start] = e
	r.start = (r.start + 1) % len(r.buf)
}

// Len returns the number of retained events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

// Reset drops every retained event.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.start, r.n = 0, 0
}

// Events returns the retained events, oldest first.
func (r *Recorder) Events() []eventbus.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]eventbus.Event, r.n)
	for i := 0; i < r.n; i++ {
		out[i] = r.buf[(r.start+i)%len(r.buf)]
	}
	return out
}

// Newest returns the retained events, newest first.
func (r *Recorder) Newest() []eventbus.Event {
	events := r.Events()
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events
}

// Lines renders the retained events newest first, one "[<timestamp>] <kind>" per line.
func (r *Recorder) Lines() []string {
	events := r.Newest()
	lines := make([]string, len(events))
	for i, e := range events {
		lines[i] = e.String()
	}
	return lines
}

// Render returns Lines as an indented JSON array.
func (r *Recorder) Render() (string, error) {
	data, err := json.MarshalIndent(r.Lines(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding history: %w", err)
	}
	return string(data), nil
}
