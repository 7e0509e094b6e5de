package tui

import "github.com/charmbracelet/bubbles/key"

// dashboardKeys are the bindings active on the task list.
type dashboardKeys struct {
	Up      key.Binding
	Down    key.Binding
	New     key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Logout  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newDashboardKeys() dashboardKeys {
	return dashboardKeys{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		Delete:  key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Logout:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func (k dashboardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Delete, k.Refresh, k.Logout, k.Help, k.Quit}
}

func (k dashboardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.New, k.Delete, k.Refresh},
		{k.Logout, k.Help, k.Quit},
	}
}

// formKeys are the bindings layered over the huh forms.
type formKeys struct {
	Switch key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

func newFormKeys() formKeys {
	return formKeys{
		Switch: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "login/sign up")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// confirmKeys answer the delete prompt.
type confirmKeys struct {
	Yes key.Binding
	No  key.Binding
}

func newConfirmKeys() confirmKeys {
	return confirmKeys{
		Yes: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "delete")),
		No:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "keep")),
	}
}
