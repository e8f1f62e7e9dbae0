package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the interface until the user quits. Controllers are closed on
// return so late responses are discarded.
func Run(ctx context.Context, deps Deps) error {
	defer deps.Shopping.Close()
	defer deps.ToDos.Close()

	p := tea.NewProgram(NewModel(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
