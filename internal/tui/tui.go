package tui

import (
	"errors"

	"tally-cli/internal/listmgr"
	"tally-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Manager *listmgr.Manager
	// Watch is polled for writes made by other processes; nil disables reloads.
	Watch     store.ModTimer
	Workspace string
	// ExportDir receives CSV exports; empty means the current directory.
	ExportDir string
	// Theme is "light", "dark" or "auto".
	Theme string
}

func Run(opt Options) error {
	if opt.Manager == nil {
		return errors.New("tui: missing list")
	}
	applyThemePreference(opt.Theme)
	applyColorProfilePreference()
	m := newAppModel(opt)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
