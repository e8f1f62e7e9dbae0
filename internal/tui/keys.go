package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Back      key.Binding
	SignUp    key.Binding

	NextTab key.Binding
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	New     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Toggle  key.Binding
	Logout  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		SignUp:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "create account")),

		NextTab: key.NewBinding(key.WithKeys("tab", "left", "right"), key.WithHelp("tab", "switch list")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "done/undone")),
		Logout:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "log out")),
	}
}

func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Submit, k.Back}
}

func (k keyMap) loginHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Submit, k.SignUp}
}

func (k keyMap) mainHelp(todo bool) []key.Binding {
	b := []key.Binding{k.NextTab, k.Up, k.Down, k.New, k.Edit, k.Delete}
	if todo {
		b = append(b, k.Toggle)
	}
	return append(b, k.Refresh, k.Logout, k.Quit)
}
