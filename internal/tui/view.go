package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	activeTab     = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("212")).Padding(0, 1)
	inactiveTab   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Strikethrough(true)
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	docStyle      = lipgloss.NewStyle().Padding(1, 2)
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Chorify"))
	b.WriteString("\n\n")

	switch m.screen {
	case screenLogin:
		m.viewForm(&b, "Log in")
		b.WriteString(m.help.ShortHelpView(m.keys.loginHelp()))
	case screenSignup:
		m.viewForm(&b, "Create an account")
		b.WriteString(m.help.ShortHelpView(m.keys.formHelp()))
	case screenShoppingForm:
		m.viewForm(&b, m.formTitle("shopping list"))
		b.WriteString(m.help.ShortHelpView(m.keys.formHelp()))
	case screenToDoForm:
		m.viewForm(&b, m.formTitle("to-do item"))
		b.WriteString(m.help.ShortHelpView(m.keys.formHelp()))
	default:
		m.viewMain(&b)
		b.WriteString(m.help.ShortHelpView(m.keys.mainHelp(m.tab == tabToDo)))
	}
	return docStyle.Render(b.String())
}

func (m Model) formTitle(what string) string {
	if m.editingID == "" {
		return "New " + what
	}
	return "Edit " + what
}

func (m Model) viewForm(b *strings.Builder, title string) {
	b.WriteString(accentStyle.Render(title))
	b.WriteString("\n\n")
	for _, in := range m.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	m.viewStatus(b)
}

func (m Model) viewStatus(b *strings.Builder) {
	switch {
	case m.busy > 0:
		b.WriteString(m.spinner.View() + " Working…\n\n")
	case m.errMsg != "":
		b.WriteString(errorStyle.Render(m.errMsg) + "\n\n")
	case m.status != "":
		b.WriteString(successStyle.Render(m.status) + "\n\n")
	}
}

func (m Model) viewMain(b *strings.Builder) {
	tabs := []string{}
	for _, t := range []tab{tabShopping, tabToDo} {
		label := fmt.Sprintf("%s (%d)", strings.ToUpper(t.String()[:1])+t.String()[1:], m.countOf(t))
		if t == m.tab {
			tabs = append(tabs, activeTab.Render(label))
		} else {
			tabs = append(tabs, inactiveTab.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	if m.controller().Loading() {
		b.WriteString(m.spinner.View() + " Loading…\n\n")
		return
	}
	if m.tab == tabToDo {
		m.viewToDos(b)
	} else {
		m.viewShopping(b)
	}
	b.WriteString("\n")
	m.viewStatus(b)
}

func (m Model) countOf(t tab) int {
	if t == tabToDo {
		return m.deps.ToDos.Len()
	}
	return m.deps.Shopping.Len()
}

func (m Model) viewShopping(b *strings.Builder) {
	lists := m.deps.Shopping.Items()
	if len(lists) == 0 {
		b.WriteString(mutedStyle.Render("No shopping lists yet. Press n to create one.") + "\n")
		return
	}
	for i, l := range lists {
		prefix := "  "
		name := l.Name
		if i == m.cursor[tabShopping] {
			prefix = selectedStyle.Render("> ")
			name = selectedStyle.Render(name)
		}
		fmt.Fprintf(b, "%s%s %s\n", prefix, name, mutedStyle.Render(fmt.Sprintf("(%d items)", len(l.Items))))
		if i == m.cursor[tabShopping] {
			for _, item := range l.Items {
				fmt.Fprintf(b, "      • %s\n", item)
			}
		}
	}
}

func (m Model) viewToDos(b *strings.Builder) {
	todos := m.deps.ToDos.Items()
	if len(todos) == 0 {
		b.WriteString(mutedStyle.Render("Nothing to do. Press n to add an item.") + "\n")
		return
	}
	for i, t := range todos {
		prefix := "  "
		if i == m.cursor[tabToDo] {
			prefix = selectedStyle.Render("> ")
		}
		box := mutedStyle.Render("☐")
		text := t.Description
		if t.Done {
			box = successStyle.Render("☑")
			text = doneStyle.Render(text)
		}
		line := prefix + box + " " + text
		if t.DueDate != "" {
			line += mutedStyle.Render("  due " + t.DueDate)
		}
		b.WriteString(line + "\n")
	}
}
