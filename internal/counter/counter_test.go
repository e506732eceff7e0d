package counter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ccheshirecat/tapdeck/internal/eventbus"
	"github.com/ccheshirecat/tapdeck/internal/eventbus/memory"
)

func TestCounterCountsOnlyItsKind(t *testing.T) {
	b := memory.New()
	c := New(eventbus.KindClick)
	c.Subscribe(b)

	b.Emit(eventbus.KindClick)
	b.Emit(eventbus.KindMove)
	b.Emit(eventbus.KindMove)
	b.Emit(eventbus.KindClick)

	assert.Equal(t, 2, c.Count())
	assert.Equal(t, "Number of Click Events: 2", c.Label())
}

func TestCounterStopsAfterUnsubscribe(t *testing.T) {
	b := memory.New()
	c := New(eventbus.KindMove)
	sub := c.Subscribe(b)

	b.Emit(eventbus.KindMove)
	sub.Unsubscribe()
	b.Emit(eventbus.KindMove)

	assert.Equal(t, 1, c.Count())
	assert.Equal(t, eventbus.KindMove, c.Kind())
	assert.Equal(t, "Number of Move Events: 1", c.Label())
}
