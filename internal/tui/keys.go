package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Search    key.Binding
	Add       key.Binding
	Edit      key.Binding
	Remove    key.Binding
	QtyUp     key.Binding
	QtyDown   key.Binding
	SortField key.Binding
	SortDir   key.Binding
	SortApply key.Binding
	SortClear key.Binding
	Reset     key.Binding
	Clear     key.Binding
	Export    key.Binding
	Report    key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:      key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Remove:    key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		QtyUp:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "quantity")),
		QtyDown:   key.NewBinding(key.WithKeys("-")),
		SortField: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort field")),
		SortDir:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "direction")),
		SortApply: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "apply sort")),
		SortClear: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear sort")),
		Reset:     key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset sort")),
		Clear:     key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear all")),
		Export:    key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export csv")),
		Report:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "report")),
		Reload:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Add, k.Edit, k.Remove, k.QtyUp, k.SortField, k.SortApply, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Add, k.Edit, k.Remove, k.QtyUp},
		{k.SortField, k.SortDir, k.SortApply, k.SortClear, k.Reset},
		{k.Clear, k.Export, k.Report, k.Reload, k.Help, k.Quit},
	}
}
