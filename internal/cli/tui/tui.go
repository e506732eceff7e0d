package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ccheshirecat/tapdeck/internal/app"
	"github.com/ccheshirecat/tapdeck/internal/eventbus"
)

const (
	headerHeight  = 1
	counterHeight = 1
	minWidth      = 20
	minHeight     = 6
)

// Options controls how the program attaches to the terminal.
type Options struct {
	AltScreen bool
	Input     io.Reader
	Output    io.Writer

	// Width and Height lay out the screen before the first resize message.
	// Outputs that are not terminals never report a size, so they need these.
	Width  int
	Height int
}

// Run launches the Bubble Tea TUI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, a *app.App, opts Options) error {
	progOpts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithMouseAllMotion(),
	}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}

	m := newModel(a)
	if opts.Width > 0 && opts.Height > 0 {
		m.resize(opts.Width, opts.Height)
		m.refreshPanel()
	}

	p := tea.NewProgram(m, progOpts...)
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}

// rect is a screen region in cells, origin top-left.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

type model struct {
	app   *app.App
	keys  keyMap
	panel viewport.Model
	area  rect
	width int
	ready bool
}

func newModel(a *app.App) model {
	panel := viewport.New(0, 0)
	panel.MouseWheelEnabled = true
	return model{
		app:   a,
		keys:  defaultKeyMap(),
		panel: panel,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refreshPanel()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Activate):
			m.emit(eventbus.KindClick)
			return m, nil
		case key.Matches(msg, m.keys.Reset):
			m.app.History().Reset()
			m.refreshPanel()
			return m, nil
		}

	case tea.MouseMsg:
		if m.area.contains(msg.X, msg.Y) {
			switch {
			case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
				m.emit(eventbus.KindClick)
			case msg.Action == tea.MouseActionMotion:
				m.emit(eventbus.KindMove)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.panel, cmd = m.panel.Update(msg)
	return m, cmd
}

func (m *model) emit(kind eventbus.Kind) {
	m.app.Bus().Emit(kind)
	m.refreshPanel()
}

func (m *model) refreshPanel() {
	lines := m.app.History().Lines()
	if len(lines) == 0 {
		m.panel.SetContent(helpStyle.Render("(no events yet)"))
		return
	}
	m.panel.SetContent(strings.Join(lines, "\n"))
}

// resize lays out the left column (area + counter) and the right column (log).
func (m *model) resize(width, height int) {
	width = max(width, minWidth)
	height = max(height, minHeight)
	m.width = width
	m.ready = true

	leftW := width / 2
	bodyH := height - headerHeight
	m.area = rect{x: 0, y: headerHeight, w: leftW, h: bodyH - counterHeight}

	fx, fy := panelStyle.GetFrameSize()
	m.panel.Width = max(width-leftW-fx, 1)
	m.panel.Height = max(bodyH-fy, 1)
}

func (m model) View() string {
	if !m.ready {
		return "initializing..."
	}

	header := titleStyle.Render("tapdeck") + "  " + helpStyle.Render(m.keys.help())
	header = lipgloss.NewStyle().MaxWidth(m.width).Render(header)

	fx, fy := areaStyle.GetFrameSize()
	area := areaStyle.
		Width(max(m.area.w-fx, 1)).
		Height(max(m.area.h-fy, 1)).
		Render(areaHintStyle.Render("click or move the pointer here"))
	counter := counterStyle.Render(m.app.Counter().Label())
	left := lipgloss.JoinVertical(lipgloss.Left, area, counter)

	right := panelStyle.Render(m.panel.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
	)
}
