// Package tui is the interactive terminal interface of Chorify. It shows a
// login or sign-up screen when no session exists and otherwise the shopping
// list and to-do tabs. Every request runs as a tea.Cmd so the interface stays
// responsive while it waits for the server.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chorify/chorify/internal/auth"
	"github.com/chorify/chorify/internal/guard"
	"github.com/chorify/chorify/internal/resources"
)

// Deps are the components the interface drives.
type Deps struct {
	Auth     *auth.Flow
	Guard    *guard.Guard
	Shopping *resources.ShoppingListController
	ToDos    *resources.ToDoListController
}

type screen int

const (
	screenLogin screen = iota
	screenSignup
	screenMain
	screenShoppingForm
	screenToDoForm
)

type tab int

const (
	tabShopping tab = iota
	tabToDo
)

func (t tab) String() string {
	if t == tabToDo {
		return "to-do items"
	}
	return "shopping lists"
}

var cursorMode = cursor.CursorBlink

// Model is the bubbletea model of the interface.
type Model struct {
	ctx  context.Context
	deps Deps
	keys keyMap
	help help.Model

	screen screen
	tab    tab
	cursor [2]int

	inputs    []textinput.Model
	focus     int
	editingID resources.ID

	busy    int
	spinner spinner.Model
	status  string
	errMsg  string
	width   int
}

// NewModel returns the model, starting on the main screen when a session
// exists and on the login screen otherwise.
func NewModel(ctx context.Context, deps Deps) Model {
	m := Model{
		ctx:     ctx,
		deps:    deps,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
	}
	if deps.Guard.Authorize() == guard.Allow {
		m.screen = screenMain
	} else {
		m.showLogin("")
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.screen == screenMain {
		return func() tea.Msg { return loadMsg{} }
	}
	if cursorMode == cursor.CursorBlink {
		return textinput.Blink
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.busy == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadMsg:
		return m.startLoad()

	case authDoneMsg:
		m.busy--
		return m.handleAuth(msg)

	case fetchedMsg:
		m.busy--
		if msg.err != nil {
			m.errMsg = "Could not load " + msg.tab.String() + "."
		}
		m.clampCursor()
		return m, nil

	case savedMsg:
		m.busy--
		if msg.err != nil {
			m.errMsg = "Could not " + msg.verb + " " + msg.what + "."
			return m, nil
		}
		m.errMsg = ""
		m.status = strings.ToUpper(msg.what[:1]) + msg.what[1:] + " " + msg.verb + "d."
		if m.screen == screenShoppingForm || m.screen == screenToDoForm {
			m.screen = screenMain
			m.inputs = nil
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.screen {
		case screenLogin, screenSignup:
			return m.updateAuthScreen(msg)
		case screenMain:
			return m.updateMain(msg)
		default:
			return m.updateForm(msg)
		}
	}

	return m.updateInputs(msg)
}

func (m Model) handleAuth(msg authDoneMsg) (tea.Model, tea.Cmd) {
	if !msg.res.OK() {
		m.errMsg = msg.res.Message
		return m, nil
	}
	switch msg.res.Navigate {
	case auth.Main:
		return m.enterMain("")
	case auth.Login:
		m.showLogin("Logged out.")
	}
	return m, nil
}

// enterMain re-applies the guard before showing the lists.
func (m Model) enterMain(status string) (tea.Model, tea.Cmd) {
	if m.deps.Guard.Authorize() == guard.RedirectToLogin {
		if status == "" {
			status = "Account created. Please log in."
		}
		m.showLogin(status)
		return m, nil
	}
	m.screen = screenMain
	m.inputs = nil
	m.errMsg = ""
	m.status = status
	return m.startLoad()
}

func (m *Model) showLogin(status string) {
	m.screen = screenLogin
	m.status = status
	m.errMsg = ""
	m.setInputs(
		newInput("Username or e-mail", false),
		newInput("Password", true),
	)
}

func (m *Model) showSignup() {
	m.screen = screenSignup
	m.status = ""
	m.errMsg = ""
	m.setInputs(
		newInput("Username", false),
		newInput("E-mail (optional)", false),
		newInput("Password", true),
		newInput("Password again", true),
	)
}

func (m Model) updateAuthScreen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		if m.screen == screenSignup {
			m.showLogin("")
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.SignUp) && m.screen == screenLogin:
		m.showSignup()
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		return m, m.moveFocus(1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.moveFocus(-1)
	case key.Matches(msg, m.keys.Submit):
		if m.focus < len(m.inputs)-1 {
			return m, m.moveFocus(1)
		}
		if m.busy > 0 {
			return m, nil
		}
		m.errMsg = ""
		if m.screen == screenLogin {
			return m.startBusy(signIn(m.ctx, m.deps.Auth, m.value(0), m.value(1)))
		}
		return m.startBusy(signUp(m.ctx, m.deps.Auth, auth.SignUpRequest{
			Username:  m.value(0),
			Email:     m.value(1),
			Password1: m.value(2),
			Password2: m.value(3),
		}))
	}
	return m.updateInputs(msg)
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.deps.Guard.Authorize() == guard.RedirectToLogin {
		m.showLogin("Your session has ended. Please log in.")
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextTab):
		m.tab = 1 - m.tab
		m.errMsg = ""
		m.status = ""
	case key.Matches(msg, m.keys.Up):
		if m.cursor[m.tab] > 0 {
			m.cursor[m.tab]--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor[m.tab] < m.count()-1 {
			m.cursor[m.tab]++
		}
	case key.Matches(msg, m.keys.Refresh):
		m.errMsg = ""
		return m.startBusy(fetch(m.ctx, m.tab, m.controller()))
	case key.Matches(msg, m.keys.New):
		m.openForm("")
	case key.Matches(msg, m.keys.Edit):
		if id, ok := m.selectedID(); ok {
			m.openForm(id)
		}
	case key.Matches(msg, m.keys.Delete):
		if id, ok := m.selectedID(); ok {
			return m.startBusy(remove(m.ctx, m.tab, m.controller(), id))
		}
	case key.Matches(msg, m.keys.Toggle):
		if id, ok := m.selectedID(); ok && m.tab == tabToDo {
			return m.startBusy(toggleDone(m.ctx, m.deps.ToDos, id))
		}
	case key.Matches(msg, m.keys.Logout):
		res := m.deps.Auth.SignOut()
		return m.handleAuth(authDoneMsg{res: res})
	}
	return m, nil
}

// openForm shows the create form for an empty id and the edit form otherwise.
func (m *Model) openForm(id resources.ID) {
	m.editingID = id
	m.errMsg = ""
	m.status = ""
	if m.tab == tabShopping {
		m.screen = screenShoppingForm
		name, items := newInput("Name", false), newInput("Items, e.g. milk=2, eggs=12", false)
		if id != "" {
			if l, ok := m.deps.Shopping.StartEditing(id); ok {
				name.SetValue(l.Name)
				items.SetValue(resources.FormatShoppingItems(l.Items))
			}
		}
		m.setInputs(name, items)
		return
	}

	m.screen = screenToDoForm
	desc, due := newInput("Description", false), newInput("Due date (YYYY-MM-DD, optional)", false)
	if id != "" {
		if t, ok := m.deps.ToDos.StartEditing(id); ok {
			desc.SetValue(t.Description)
			due.SetValue(t.DueDate)
		}
	}
	m.setInputs(desc, due)
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.controllerCancelEditing()
		m.screen = screenMain
		m.inputs = nil
		m.errMsg = ""
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		return m, m.moveFocus(1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.moveFocus(-1)
	case key.Matches(msg, m.keys.Submit):
		if m.focus < len(m.inputs)-1 {
			return m, m.moveFocus(1)
		}
		if m.busy > 0 {
			return m, nil
		}
		return m.submitForm()
	}
	return m.updateInputs(msg)
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	m.errMsg = ""
	if m.screen == screenShoppingForm {
		name := strings.TrimSpace(m.value(0))
		items := resources.ParseShoppingItems(m.value(1))
		if m.editingID == "" {
			m.deps.Shopping.SetDraft(resources.ShoppingListDraft{Name: name, Items: items})
			return m.startBusy(createShoppingList(m.ctx, m.deps.Shopping))
		}
		list, ok := m.deps.Shopping.Editing()
		if !ok {
			m.errMsg = "The shopping list is no longer loaded."
			return m, nil
		}
		list.Name, list.Items = name, items
		return m.startBusy(updateShoppingList(m.ctx, m.deps.Shopping, list))
	}

	desc := strings.TrimSpace(m.value(0))
	due := strings.TrimSpace(m.value(1))
	if m.editingID == "" {
		m.deps.ToDos.SetDraft(resources.ToDoDraft{Description: desc, DueDate: due})
		return m.startBusy(createToDo(m.ctx, m.deps.ToDos))
	}
	item, ok := m.deps.ToDos.Editing()
	if !ok {
		m.errMsg = "The to-do item is no longer loaded."
		return m, nil
	}
	item.Description, item.DueDate = desc, due
	return m.startBusy(updateToDo(m.ctx, m.deps.ToDos, item))
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus >= len(m.inputs) {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) startBusy(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.busy++
	m.status = ""
	return m, tea.Batch(cmd, m.spinner.Tick)
}

func (m Model) startLoad() (tea.Model, tea.Cmd) {
	m.busy += 2
	return m, tea.Batch(
		fetch(m.ctx, tabShopping, m.deps.Shopping),
		fetch(m.ctx, tabToDo, m.deps.ToDos),
		m.spinner.Tick,
	)
}

func (m *Model) setInputs(inputs ...textinput.Model) {
	m.inputs = inputs
	m.focus = 0
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	if len(m.inputs) == 0 {
		return nil
	}
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}

func (m Model) value(i int) string {
	if i >= len(m.inputs) {
		return ""
	}
	return m.inputs[i].Value()
}

func (m Model) count() int {
	if m.tab == tabToDo {
		return m.deps.ToDos.Len()
	}
	return m.deps.Shopping.Len()
}

func (m *Model) clampCursor() {
	for _, t := range []tab{tabShopping, tabToDo} {
		n := m.deps.Shopping.Len()
		if t == tabToDo {
			n = m.deps.ToDos.Len()
		}
		if m.cursor[t] >= n {
			m.cursor[t] = max(n-1, 0)
		}
	}
}

func (m Model) selectedID() (resources.ID, bool) {
	i := m.cursor[m.tab]
	if m.tab == tabToDo {
		items := m.deps.ToDos.Items()
		if i < len(items) {
			return items[i].ID, true
		}
		return "", false
	}
	items := m.deps.Shopping.Items()
	if i < len(items) {
		return items[i].ID, true
	}
	return "", false
}

type idController interface {
	FetchAll(ctx context.Context) error
	Remove(ctx context.Context, id resources.ID) error
	Loading() bool
}

func (m Model) controller() idController {
	if m.tab == tabToDo {
		return m.deps.ToDos
	}
	return m.deps.Shopping
}

func (m Model) controllerCancelEditing() {
	if m.screen == screenShoppingForm {
		m.deps.Shopping.CancelEditing()
	} else {
		m.deps.ToDos.CancelEditing()
	}
}

func newInput(placeholder string, secret bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.CharLimit = 200
	ti.Cursor.SetMode(cursorMode)
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}
