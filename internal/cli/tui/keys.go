package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	Activate key.Binding
	Reset    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Activate: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space/enter", "click"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "clear log"),
		),
	}
}

func (k keyMap) help() string {
	out := ""
	for i, b := range []key.Binding{k.Activate, k.Reset, k.Quit} {
		if i > 0 {
			out += " • "
		}
		h := b.Help()
		out += h.Key + " " + h.Desc
	}
	return out + " • pgup/pgdn scroll log"
}
