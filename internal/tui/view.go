package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	doneStyle   = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("160")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().Faint(true).Padding(0, 1)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")

	if m.form != nil {
		b.WriteString(m.formView())
	} else if m.tab == tabTasks {
		b.WriteString(m.tasksView())
	} else {
		b.WriteString(m.usersView())
	}

	if bar := m.errorBar(); bar != "" {
		b.WriteString("\n")
		b.WriteString(bar)
	}

	b.WriteString("\n")
	b.WriteString(m.helpView())
	return b.String()
}

func (m Model) headerView() string {
	tasksTab := inactiveTabStyle.Render("Tasks")
	usersTab := inactiveTabStyle.Render("Users")
	if m.tab == tabTasks {
		tasksTab = activeTabStyle.Render("Tasks")
	} else {
		usersTab = activeTabStyle.Render("Users")
	}
	account := dimStyle.Render(m.cfg.Session.Email)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("taskdeck"), tasksTab, usersTab, "  ", account)
}

func (m Model) tasksView() string {
	if m.tasksLoading && len(m.tasks) == 0 {
		return dimStyle.Render("  Loading tasks...")
	}
	if len(m.tasks) == 0 {
		return dimStyle.Render("  No tasks yet. Press 'a' to add one.")
	}

	var b strings.Builder
	for i, t := range m.tasks {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}

		box := "[ ]"
		if t.IsCompleted {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s", box, t.Title)
		if t.IsCompleted {
			line = doneStyle.Render(line)
		}
		b.WriteString(prefix + line)
		if t.Description != "" {
			b.WriteString(dimStyle.Render("  — " + t.Description))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) usersView() string {
	if m.usersLoading && len(m.users) == 0 {
		return dimStyle.Render("  Loading users...")
	}
	if len(m.users) == 0 {
		return dimStyle.Render("  No users loaded. Press 'r' to fetch.")
	}

	var b strings.Builder
	for i, u := range m.users {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%-24s %-16s %s\n", prefix, u.Name, u.Username, u.Email))
	}
	return b.String()
}

func (m Model) formView() string {
	heading := "Add task"
	if m.form.editing != nil {
		heading = "Edit task"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n\n  ")
	b.WriteString(m.form.title.View())
	b.WriteString("\n  ")
	b.WriteString(m.form.description.View())
	b.WriteString("\n")
	return b.String()
}

// errorBar renders service errors. They persist until the user
// dismisses them with esc.
func (m Model) errorBar() string {
	msg := m.errMsg
	if msg == "" {
		msg = m.usersErr
	}
	if msg == "" {
		return ""
	}
	return errorStyle.Render(msg) + dimStyle.Render("  (esc to dismiss)")
}

func (m Model) helpView() string {
	if m.form != nil {
		return helpStyle.Render("enter next/save · esc cancel")
	}
	if m.tab == tabUsers {
		return helpStyle.Render("tab tasks · j/k move · r refresh · L sign out · q quit")
	}
	return helpStyle.Render("tab users · j/k move · a add · e edit · x toggle · d delete · L sign out · q quit")
}
