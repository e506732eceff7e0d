package eventbus

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind is the category of an input event.
type Kind string

const (
	KindClick Kind = "click"
	KindMove  Kind = "move"
)

// ErrUnknownKind is returned by ParseKind for values outside the closed set.
var ErrUnknownKind = errors.New("eventbus: unknown event kind")

// Kinds returns every known kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindClick, KindMove}
}

// ParseKind validates s against the known kinds. Matching ignores case and
// surrounding whitespace.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindClick, KindMove:
		return true
	}
	return false
}

// Event is a single occurrence. It is passed by value; receivers own their copy.
type Event struct {
	Kind      Kind      `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

// String renders the event as "[<unix millis>] <kind>".
func (e Event) String() string {
	return fmt.Sprintf("[%d] %s", e.Timestamp.UnixMilli(), e.Kind)
}
