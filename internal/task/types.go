package task

import "taskdeck/internal/model"

// State is the observable state triple of the task sync service.
// Tasks is always the latest delivered snapshot, ordered by creation
// time descending; it is replaced wholesale, never merged.
type State struct {
	Tasks        []model.Task
	Loading      bool
	ErrorMessage string
}

// CreateInput holds the fields for a new task.
type CreateInput struct {
	Title       string
	Description string
	OwnerID     string
}
