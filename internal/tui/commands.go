package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chorify/chorify/internal/auth"
	"github.com/chorify/chorify/internal/resources"
)

type loadMsg struct{}

type authDoneMsg struct {
	res auth.Result
}

type fetchedMsg struct {
	tab tab
	err error
}

type savedMsg struct {
	what string
	verb string
	err  error
}

func signIn(ctx context.Context, flow *auth.Flow, identifier, password string) tea.Cmd {
	return func() tea.Msg {
		return authDoneMsg{res: flow.SignIn(ctx, identifier, password)}
	}
}

func signUp(ctx context.Context, flow *auth.Flow, req auth.SignUpRequest) tea.Cmd {
	return func() tea.Msg {
		return authDoneMsg{res: flow.SignUp(ctx, req)}
	}
}

func fetch(ctx context.Context, t tab, c idController) tea.Cmd {
	return func() tea.Msg {
		return fetchedMsg{tab: t, err: c.FetchAll(ctx)}
	}
}

func remove(ctx context.Context, t tab, c idController, id resources.ID) tea.Cmd {
	what := "shopping list"
	if t == tabToDo {
		what = "to-do item"
	}
	return func() tea.Msg {
		return savedMsg{what: what, verb: "delete", err: c.Remove(ctx, id)}
	}
}

func toggleDone(ctx context.Context, c *resources.ToDoListController, id resources.ID) tea.Cmd {
	return func() tea.Msg {
		_, err := c.ToggleDone(ctx, id)
		return savedMsg{what: "to-do item", verb: "update", err: err}
	}
}

func createShoppingList(ctx context.Context, c *resources.ShoppingListController) tea.Cmd {
	return func() tea.Msg {
		_, err := c.SubmitDraft(ctx)
		return savedMsg{what: "shopping list", verb: "create", err: err}
	}
}

func updateShoppingList(ctx context.Context, c *resources.ShoppingListController, l resources.ShoppingList) tea.Cmd {
	return func() tea.Msg {
		_, err := c.Update(ctx, l)
		return savedMsg{what: "shopping list", verb: "update", err: err}
	}
}

func createToDo(ctx context.Context, c *resources.ToDoListController) tea.Cmd {
	return func() tea.Msg {
		_, err := c.SubmitDraft(ctx)
		return savedMsg{what: "to-do item", verb: "create", err: err}
	}
}

func updateToDo(ctx context.Context, c *resources.ToDoListController, t resources.ToDoList) tea.Cmd {
	return func() tea.Msg {
		_, err := c.Update(ctx, t)
		return savedMsg{what: "to-do item", verb: "update", err: err}
	}
}
