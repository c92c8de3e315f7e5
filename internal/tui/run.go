package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/studywithme/internal/app"
)

// Run starts the interactive program. The controller persists every change
// as it happens, so there is nothing to write back on quit.
func Run(ctrl *app.Controller, opts Options, progOpts ...tea.ProgramOption) error {
	progOpts = append([]tea.ProgramOption{tea.WithAltScreen()}, progOpts...)
	p := tea.NewProgram(New(ctrl, opts), progOpts...)
	_, err := p.Run()
	return err
}
