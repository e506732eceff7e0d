package tui

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccheshirecat/tapdeck/internal/app"
	"github.com/ccheshirecat/tapdeck/internal/config"
	"github.com/ccheshirecat/tapdeck/internal/eventbus"
	"github.com/ccheshirecat/tapdeck/internal/eventbus/memory"
	"github.com/ccheshirecat/tapdeck/internal/shared/logging"
)

func newTestModel(t *testing.T) (model, *app.App) {
	t.Helper()
	n := int64(0)
	bus := memory.New(memory.WithClock(func() time.Time {
		n++
		return time.UnixMilli(n)
	}))
	a, err := app.New(config.Default(), logging.New("tui", &bytes.Buffer{}, slog.LevelInfo), bus)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	m := newModel(a)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(model), a
}

func send(m model, msgs ...tea.Msg) (model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(model)
	}
	return m, cmd
}

func press(x, y int, button tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: button}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone}
}

func kinds(a *app.App) []eventbus.Kind {
	var out []eventbus.Kind
	for _, e := range a.History().Events() {
		out = append(out, e.Kind)
	}
	return out
}

func TestLayout(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, rect{x: 0, y: 1, w: 40, h: 22}, m.area)
	assert.Positive(t, m.panel.Width)
	assert.Positive(t, m.panel.Height)
}

func TestMouseGesturesInsideAreaEmit(t *testing.T) {
	m, a := newTestModel(t)

	m, _ = send(m,
		press(5, 5, tea.MouseButtonLeft),
		motion(6, 5),
		press(7, 5, tea.MouseButtonLeft),
	)

	assert.Equal(t, []eventbus.Kind{eventbus.KindClick, eventbus.KindMove, eventbus.KindClick}, kinds(a))
	assert.Equal(t, 2, a.Counter().Count())
	assert.Contains(t, m.View(), "Number of Click Events: 2")
	assert.Contains(t, m.View(), "[3] click")
}

func TestGesturesOutsideAreaAreIgnored(t *testing.T) {
	m, a := newTestModel(t)

	send(m,
		press(60, 5, tea.MouseButtonLeft),
		motion(60, 6),
		press(5, 0, tea.MouseButtonLeft),
		press(5, 23, tea.MouseButtonLeft),
	)

	assert.Zero(t, a.History().Len())
}

func TestNonPrimaryButtonsAreIgnored(t *testing.T) {
	m, a := newTestModel(t)

	send(m,
		press(5, 5, tea.MouseButtonRight),
		tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft},
	)

	assert.Zero(t, a.History().Len())
}

func TestGesturesBeforeFirstResizeAreIgnored(t *testing.T) {
	bus := memory.New()
	a, err := app.New(config.Default(), logging.New("tui", &bytes.Buffer{}, slog.LevelInfo), bus)
	require.NoError(t, err)
	defer a.Close()

	m := newModel(a)
	assert.Equal(t, "initializing...", m.View())
	send(m, press(0, 0, tea.MouseButtonLeft))
	assert.Zero(t, a.History().Len())
}

func TestKeyboardActivationEmitsClick(t *testing.T) {
	m, a := newTestModel(t)

	send(m,
		tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}},
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	assert.Equal(t, 2, a.Counter().Count())
}

func TestResetClearsLogButNotCounter(t *testing.T) {
	m, a := newTestModel(t)

	m, _ = send(m,
		press(5, 5, tea.MouseButtonLeft),
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}},
	)

	assert.Zero(t, a.History().Len())
	assert.Equal(t, 1, a.Counter().Count())
	assert.Contains(t, m.View(), "(no events yet)")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	_, cmd = send(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestDebugPanelShowsNewestFirst(t *testing.T) {
	m, a := newTestModel(t)

	for i := 0; i < 3; i++ {
		m, _ = send(m, motion(3, 3))
	}
	m, _ = send(m, press(3, 3, tea.MouseButtonLeft))

	lines := a.History().Lines()
	require.Equal(t, []string{"[4] click", "[3] move", "[2] move", "[1] move"}, lines)
	view := m.View()
	assert.Less(t, bytes.Index([]byte(view), []byte("[4] click")), bytes.Index([]byte(view), []byte("[1] move")))
}

// lockedBuffer guards the program output, which the renderer writes from its
// own goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	a, err := app.New(config.Default(), logging.New("tui", &bytes.Buffer{}, slog.LevelInfo), memory.New())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestRunParsesSGRMouseInput(t *testing.T) {
	a := newTestApp(t)

	// SGR mouse reports are 1-based: (5,5) is cell (4,4), inside the area.
	input := strings.Join([]string{
		"\x1b[<0;5;5M",  // left press
		"\x1b[<0;5;5m",  // left release
		"\x1b[<35;6;5M", // motion, no button
		"\x1b[<0;70;5M", // left press over the log panel
		"\x1b[<2;5;5M",  // right press
		" ",             // keyboard activation
		"q",
	}, "")
	out := &lockedBuffer{}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := Run(ctx, a, Options{
		Input:  strings.NewReader(input),
		Output: out,
		Width:  80,
		Height: 24,
	})
	require.NoError(t, err)
	require.NoError(t, ctx.Err(), "program should exit on q, not on timeout")

	assert.Equal(t, []eventbus.Kind{eventbus.KindClick, eventbus.KindMove, eventbus.KindClick}, kinds(a))
	assert.Equal(t, 2, a.Counter().Count())
	assert.Positive(t, out.Len())
}

func TestRunReturnsNilWhenContextDone(t *testing.T) {
	a := newTestApp(t)
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, a, Options{Input: pr, Output: &lockedBuffer{}, Width: 80, Height: 24})
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
