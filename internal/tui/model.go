package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/directory"
	"taskdeck/internal/model"
	"taskdeck/internal/task"
)

// tab identifies the active view.
type tab int

const (
	tabTasks tab = iota
	tabUsers
)

// taskStateMsg wraps a task service state change for the message loop.
type taskStateMsg struct {
	state task.State
}

// directoryStateMsg wraps a directory state change.
type directoryStateMsg struct {
	state directory.State
}

// Model is the board's bubbletea model. All mutation happens in Update;
// the service state it mirrors arrives as messages.
type Model struct {
	ctx context.Context
	cfg Config

	tab    tab
	cursor int

	tasks        []model.Task
	tasksLoading bool
	errMsg       string

	users        []model.User
	usersLoading bool
	usersFetched bool
	usersErr     string

	form     *taskForm
	width    int
	height   int
	signOut  bool
	quitting bool
}

func NewModel(ctx context.Context, cfg Config) Model {
	return Model{
		ctx:          ctx,
		cfg:          cfg,
		tasksLoading: true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case taskStateMsg:
		m.tasks = msg.state.Tasks
		m.tasksLoading = msg.state.Loading
		m.errMsg = msg.state.ErrorMessage
		m.clampCursor()
		return m, nil

	case directoryStateMsg:
		m.users = msg.state.Users
		m.usersLoading = msg.state.Loading
		m.usersErr = msg.state.ErrorMessage
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if m.form != nil {
			return m.handleFormKeys(msg)
		}
		return m.handleListKeys(msg)
	}
	return m, nil
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "L":
		m.signOut = true
		m.quitting = true
		return m, tea.Quit

	case "tab":
		if m.tab == tabTasks {
			m.tab = tabUsers
			if !m.usersFetched {
				m.usersFetched = true
				m.cfg.Directory.FetchUsers(m.ctx)
			}
		} else {
			m.tab = tabTasks
		}
		m.cursor = 0
		return m, nil

	case "esc":
		// Errors stay on screen until explicitly dismissed.
		if m.errMsg != "" {
			m.cfg.Tasks.ClearError()
		}
		if m.usersErr != "" {
			m.cfg.Directory.ClearError()
		}
		return m, nil

	case "j", "down":
		m.cursor++
		m.clampCursor()
		return m, nil

	case "k", "up":
		m.cursor--
		m.clampCursor()
		return m, nil
	}

	if m.tab == tabUsers {
		if msg.String() == "r" {
			m.cfg.Directory.FetchUsers(m.ctx)
		}
		return m, nil
	}

	switch msg.String() {
	case "a":
		m.form = newTaskForm(nil)
		return m, m.form.focusCmd()

	case "e":
		if t, ok := m.selectedTask(); ok {
			m.form = newTaskForm(&t)
			return m, m.form.focusCmd()
		}

	case " ", "x":
		if t, ok := m.selectedTask(); ok {
			m.cfg.Tasks.ToggleCompletion(m.ctx, t)
		}

	case "d":
		if t, ok := m.selectedTask(); ok {
			m.cfg.Tasks.Delete(m.ctx, t)
		}
	}
	return m, nil
}

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.form = nil
		return m, nil

	case "enter":
		if !m.form.lastField() {
			return m, m.form.nextField()
		}
		title, description := m.form.values()
		if title != "" {
			if editing := m.form.editing; editing != nil {
				updated := *editing
				updated.Title = title
				updated.Description = description
				m.cfg.Tasks.Update(m.ctx, updated)
			} else {
				m.cfg.Tasks.Create(m.ctx, task.CreateInput{
					Title:       title,
					Description: description,
					OwnerID:     m.cfg.Session.UserID,
				})
			}
		}
		m.form = nil
		return m, nil
	}

	return m, m.form.update(msg)
}

func (m *Model) clampCursor() {
	max := len(m.tasks)
	if m.tab == tabUsers {
		max = len(m.users)
	}
	if m.cursor >= max {
		m.cursor = max - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selectedTask() (model.Task, bool) {
	if m.tab != tabTasks || m.cursor >= len(m.tasks) {
		return model.Task{}, false
	}
	return m.tasks[m.cursor], true
}
