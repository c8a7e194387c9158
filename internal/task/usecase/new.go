package usecase

import (
	"taskdeck/internal/task"
	"taskdeck/internal/task/repository"
	"taskdeck/internal/uiloop"
	pkgLog "taskdeck/pkg/log"
)

type implUseCase struct {
	l            pkgLog.Logger
	store        repository.Store
	d            uiloop.Dispatcher
	strictWrites bool

	// state and observers are owned by the UI loop; they are only
	// touched from dispatched functions.
	state     task.State
	observers []func(task.State)
}

// Config holds the feature switches of the task sync service.
type Config struct {
	// StrictWrites makes Update/Delete of an id-less task report an
	// error instead of silently doing nothing.
	StrictWrites bool
}

// New creates a new task sync service bound to a store and the UI
// loop dispatcher.
func New(l pkgLog.Logger, store repository.Store, d uiloop.Dispatcher, cfg Config) *implUseCase {
	return &implUseCase{
		l:            l,
		store:        store,
		d:            d,
		strictWrites: cfg.StrictWrites,
	}
}
