package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/directory"
	"taskdeck/internal/model"
	"taskdeck/internal/task"
)

type stubTasks struct {
	created []task.CreateInput
	updated []model.Task
	deleted []model.Task
	toggled []model.Task
	cleared int
}

func (s *stubTasks) Subscribe(ctx context.Context, ownerID string) (task.Subscription, error) {
	return nil, nil
}
func (s *stubTasks) Create(ctx context.Context, input task.CreateInput) {
	s.created = append(s.created, input)
}
func (s *stubTasks) Update(ctx context.Context, t model.Task) { s.updated = append(s.updated, t) }
func (s *stubTasks) Delete(ctx context.Context, t model.Task) { s.deleted = append(s.deleted, t) }
func (s *stubTasks) ToggleCompletion(ctx context.Context, t model.Task) {
	s.toggled = append(s.toggled, t)
}
func (s *stubTasks) ClearError()                 { s.cleared++ }
func (s *stubTasks) Observe(fn func(task.State)) {}
func (s *stubTasks) State() task.State           { return task.State{} }

type stubDirectory struct {
	fetches int
	cleared int
}

func (s *stubDirectory) FetchUsers(ctx context.Context)   { s.fetches++ }
func (s *stubDirectory) ClearError()                      { s.cleared++ }
func (s *stubDirectory) Observe(fn func(directory.State)) {}
func (s *stubDirectory) State() directory.State           { return directory.State{} }

func newTestModel(tasks *stubTasks, dir *stubDirectory) Model {
	return NewModel(context.Background(), Config{
		Tasks:     tasks,
		Directory: dir,
		Session:   model.Session{UserID: "u1", Email: "ada@example.com"},
	})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func withTasks(m Model, tasks ...model.Task) Model {
	next, _ := m.Update(taskStateMsg{state: task.State{Tasks: tasks}})
	return next.(Model)
}

func someTasks() []model.Task {
	createdAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	return []model.Task{
		{ID: "t2", Title: "Newer", CreatedAt: createdAt.Add(time.Hour), OwnerID: "u1"},
		{ID: "t1", Title: "Older", IsCompleted: true, CreatedAt: createdAt, OwnerID: "u1"},
	}
}

func TestSnapshotReplacesListAndClampsCursor(t *testing.T) {
	m := newTestModel(&stubTasks{}, &stubDirectory{})
	m = withTasks(m, someTasks()...)
	m = press(m, "j", "j", "j")
	if m.cursor != 1 {
		t.Fatalf("cursor not clamped to list: %d", m.cursor)
	}

	// A smaller snapshot pulls the cursor back in range.
	m = withTasks(m, someTasks()[0])
	if m.cursor != 0 {
		t.Fatalf("cursor not clamped after shrink: %d", m.cursor)
	}
	if len(m.tasks) != 1 {
		t.Fatalf("snapshot did not replace the list: %d", len(m.tasks))
	}
}

func TestToggleAndDeleteTargetSelection(t *testing.T) {
	tasks := &stubTasks{}
	m := newTestModel(tasks, &stubDirectory{})
	m = withTasks(m, someTasks()...)

	m = press(m, "j", "x")
	if len(tasks.toggled) != 1 || tasks.toggled[0].ID != "t1" {
		t.Fatalf("toggle did not target the selected task: %+v", tasks.toggled)
	}

	m = press(m, "k", "d")
	if len(tasks.deleted) != 1 || tasks.deleted[0].ID != "t2" {
		t.Fatalf("delete did not target the selected task: %+v", tasks.deleted)
	}
}

func TestAddFormCreatesTask(t *testing.T) {
	tasks := &stubTasks{}
	m := newTestModel(tasks, &stubDirectory{})

	m = press(m, "a")
	if m.form == nil {
		t.Fatal("form did not open")
	}
	m = press(m, "Buy milk", "enter", "2%", "enter")

	if m.form != nil {
		t.Fatal("form did not close on submit")
	}
	if len(tasks.created) != 1 {
		t.Fatalf("expected one create, got %d", len(tasks.created))
	}
	got := tasks.created[0]
	if got.Title != "Buy milk" || got.Description != "2%" || got.OwnerID != "u1" {
		t.Fatalf("unexpected create input: %+v", got)
	}
}

func TestEditFormUpdatesTask(t *testing.T) {
	tasks := &stubTasks{}
	m := newTestModel(tasks, &stubDirectory{})
	m = withTasks(m, someTasks()...)

	m = press(m, "e", "!", "enter", "enter")
	if len(tasks.updated) != 1 {
		t.Fatalf("expected one update, got %d", len(tasks.updated))
	}
	got := tasks.updated[0]
	if got.ID != "t2" || got.Title != "Newer!" {
		t.Fatalf("unexpected update: %+v", got)
	}
	if !got.CreatedAt.Equal(someTasks()[0].CreatedAt) {
		t.Fatal("edit changed the creation time")
	}
}

func TestEmptyTitleDoesNotCreate(t *testing.T) {
	tasks := &stubTasks{}
	m := newTestModel(tasks, &stubDirectory{})

	m = press(m, "a", "enter", "enter")
	if len(tasks.created) != 0 {
		t.Fatalf("blank form still created a task: %+v", tasks.created)
	}
}

func TestErrorBarPersistsUntilDismissed(t *testing.T) {
	tasks := &stubTasks{}
	m := newTestModel(tasks, &stubDirectory{})

	next, _ := m.Update(taskStateMsg{state: task.State{ErrorMessage: "failed to add task: boom"}})
	m = next.(Model)
	if !strings.Contains(m.View(), "failed to add task") {
		t.Fatal("error message not rendered")
	}

	// Unrelated keys leave it alone; esc dismisses.
	m = press(m, "j", "k")
	if !strings.Contains(m.View(), "failed to add task") {
		t.Fatal("error message vanished without dismissal")
	}
	m = press(m, "esc")
	if tasks.cleared != 1 {
		t.Fatalf("expected one ClearError, got %d", tasks.cleared)
	}
}

func TestUsersTabFetchesOnce(t *testing.T) {
	dir := &stubDirectory{}
	m := newTestModel(&stubTasks{}, dir)

	m = press(m, "tab")
	if m.tab != tabUsers {
		t.Fatal("tab did not switch to users")
	}
	if dir.fetches != 1 {
		t.Fatalf("expected one fetch on first open, got %d", dir.fetches)
	}

	m = press(m, "tab", "tab")
	if dir.fetches != 1 {
		t.Fatalf("re-opening the tab refetched: %d", dir.fetches)
	}

	m = press(m, "r")
	if dir.fetches != 2 {
		t.Fatalf("manual refresh did not fetch: %d", dir.fetches)
	}
}

func TestSignOutKeyQuitsWithFlag(t *testing.T) {
	m := newTestModel(&stubTasks{}, &stubDirectory{})
	next, cmd := m.Update(key("L"))
	m = next.(Model)
	if !m.signOut {
		t.Fatal("sign-out flag not set")
	}
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
}
