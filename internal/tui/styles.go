package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/studywithme/internal/ui"
)

// ------- TUI-only styling on top of the active ui theme -------
var (
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)
	buttonStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1).Reverse(true)
)

func theme() ui.Theme { return ui.Current() }

func boxStyle() lipgloss.Style {
	t := theme()
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1)
}

func modalStyle() lipgloss.Style {
	return boxStyle().Padding(1, 2)
}
