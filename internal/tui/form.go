package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/model"
)

// taskForm is the inline add/edit form: a title field and a
// description field, cycled with enter.
type taskForm struct {
	title       textinput.Model
	description textinput.Model
	field       int

	// editing is the task being edited, nil when adding.
	editing *model.Task
}

func newTaskForm(editing *model.Task) *taskForm {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 120

	description := textinput.New()
	description.Placeholder = "Description"
	description.CharLimit = 500

	if editing != nil {
		title.SetValue(editing.Title)
		description.SetValue(editing.Description)
	}

	return &taskForm{
		title:       title,
		description: description,
		editing:     editing,
	}
}

func (f *taskForm) focusCmd() tea.Cmd {
	f.title.Focus()
	return textinput.Blink
}

func (f *taskForm) lastField() bool {
	return f.field == 1
}

func (f *taskForm) nextField() tea.Cmd {
	f.field = 1
	f.title.Blur()
	return f.description.Focus()
}

func (f *taskForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.field == 0 {
		f.title, cmd = f.title.Update(msg)
	} else {
		f.description, cmd = f.description.Update(msg)
	}
	return cmd
}

func (f *taskForm) values() (title, description string) {
	return strings.TrimSpace(f.title.Value()), strings.TrimSpace(f.description.Value())
}
