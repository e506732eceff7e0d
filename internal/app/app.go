package app

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/ccheshirecat/tapdeck/internal/config"
	"github.com/ccheshirecat/tapdeck/internal/counter"
	"github.com/ccheshirecat/tapdeck/internal/eventbus"
	"github.com/ccheshirecat/tapdeck/internal/history"
)

// App wires the bus to the consumers that render state from it.
type App struct {
	logger  *slog.Logger
	bus     eventbus.Bus
	history *history.Recorder
	counter *counter.Counter

	closeOnce sync.Once
	subs      []eventbus.Subscription
}

// New subscribes the history recorder, the kind counter and a debug logger
// to bus. Close releases every subscription made here.
func New(cfg config.Config, logger *slog.Logger, bus eventbus.Bus) (*App, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if bus == nil {
		return nil, fmt.Errorf("event bus must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	kind := cfg.Kind()

	a := &App{
		logger:  logger,
		bus:     bus,
		history: history.New(),
		counter: counter.New(kind),
	}
	a.subs = append(a.subs,
		eventbus.Attach(bus, a.history),
		a.counter.Subscribe(bus),
		bus.Subscribe(nil, a.logEvent),
	)

	logger.Info("app ready", "counter_kind", string(kind), "history_capacity", history.Capacity)
	return a, nil
}

// Bus returns the injected event bus.
func (a *App) Bus() eventbus.Bus { return a.bus }

// History returns the debug panel recorder.
func (a *App) History() *history.Recorder { return a.history }

// Counter returns the kind counter.
func (a *App) Counter() *counter.Counter { return a.counter }

// Close unsubscribes everything New attached. It is safe to call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		for _, s := range a.subs {
			s.Unsubscribe()
		}
		a.logger.Info("app closed",
			"events_counted", a.counter.Count(),
			"history_len", a.history.Len(),
		)
	})
}

func (a *App) logEvent(e eventbus.Event) {
	a.logger.Debug("event", "kind", string(e.Kind), "ts", e.Timestamp.UnixMilli())
}
