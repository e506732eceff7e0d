package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	areaStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Align(lipgloss.Center, lipgloss.Center)

	areaHintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	counterStyle = lipgloss.NewStyle().Bold(true).PaddingLeft(1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			PaddingLeft(1)
)
