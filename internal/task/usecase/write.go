package usecase

import (
	"context"
	"time"

	"taskdeck/internal/model"
	"taskdeck/internal/task"
	"taskdeck/internal/task/repository"
)

// Create writes a new task. The creation timestamp is assigned here,
// client-side; the id is assigned by the store. No optimistic local
// insert happens: the task becomes visible via the next snapshot.
func (uc *implUseCase) Create(ctx context.Context, input task.CreateInput) {
	doc := repository.TaskDocument{
		Title:       input.Title,
		Description: input.Description,
		IsCompleted: false,
		CreatedAt:   time.Now().UTC(),
		OwnerID:     input.OwnerID,
	}

	go func() {
		if _, err := uc.store.Add(ctx, doc); err != nil {
			uc.l.Errorf(ctx, "task: failed to add task %q: %v", input.Title, err)
			uc.fail("failed to add task", err)
		}
	}()
}

// Update overwrites the remote document in full.
func (uc *implUseCase) Update(ctx context.Context, t model.Task) {
	if t.ID == "" {
		uc.rejectMissingID(ctx, "update")
		return
	}

	doc := repository.DocumentFromTask(t)
	go func() {
		if err := uc.store.Set(ctx, t.ID, doc); err != nil {
			uc.l.Errorf(ctx, "task: failed to update task %s: %v", t.ID, err)
			uc.fail("failed to update task", err)
		}
	}()
}

// Delete removes the remote document.
func (uc *implUseCase) Delete(ctx context.Context, t model.Task) {
	if t.ID == "" {
		uc.rejectMissingID(ctx, "delete")
		return
	}

	id := t.ID
	go func() {
		if err := uc.store.Delete(ctx, id); err != nil {
			uc.l.Errorf(ctx, "task: failed to delete task %s: %v", id, err)
			uc.fail("failed to delete task", err)
		}
	}()
}

// ToggleCompletion flips completion on a copy and delegates to Update.
func (uc *implUseCase) ToggleCompletion(ctx context.Context, t model.Task) {
	t.IsCompleted = !t.IsCompleted
	uc.Update(ctx, t)
}

// rejectMissingID handles a write against a never-persisted task.
// Default behavior is a silent no-op; strict writes surface it.
func (uc *implUseCase) rejectMissingID(ctx context.Context, op string) {
	if !uc.strictWrites {
		uc.l.Debugf(ctx, "task: ignoring %s of task with no id", op)
		return
	}
	uc.fail("cannot "+op+" task", task.ErrMissingTaskID)
}
