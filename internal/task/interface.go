package task

import (
	"context"

	"taskdeck/internal/model"
)

// UseCase is the task sync service. It owns the observable state
// triple and writes through to the remote store. Commands return
// immediately; results arrive on the UI loop via observers.
type UseCase interface {
	// Subscribe opens the live query for the owner's tasks. The
	// returned subscription must be closed when the owning screen or
	// session ends, or snapshot delivery leaks across sign-out.
	Subscribe(ctx context.Context, ownerID string) (Subscription, error)

	// Create stamps a new task (not completed, created now, owned by
	// input.OwnerID) and writes it. The visible list changes only via
	// the next watch snapshot, never via this call's completion.
	Create(ctx context.Context, input CreateInput)

	// Update overwrites the remote document named by the task's id in
	// full. A task without an id is ignored unless strict writes are
	// enabled, in which case the missing id is reported as an error.
	Update(ctx context.Context, t model.Task)

	// Delete removes the remote document, under the same missing-id
	// rule as Update.
	Delete(ctx context.Context, t model.Task)

	// ToggleCompletion flips completion on a copy and delegates to
	// Update. Applying it twice restores the original value.
	ToggleCompletion(ctx context.Context, t model.Task)

	// ClearError resets ErrorMessage. Called by the presentation
	// layer on explicit dismissal.
	ClearError()

	// Observe registers fn to run on the UI loop after every state
	// change, with a copy of the new state.
	Observe(fn func(State))

	// State returns the current state. Only safe from the UI loop.
	State() State
}

// Subscription is the handle for an open live query.
type Subscription interface {
	Close()
}
