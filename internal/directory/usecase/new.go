package usecase

import (
	"taskdeck/internal/directory"
	"taskdeck/internal/directory/repository"
	"taskdeck/internal/uiloop"
	pkgLog "taskdeck/pkg/log"
)

type implUseCase struct {
	l      pkgLog.Logger
	client repository.Client
	d      uiloop.Dispatcher

	// state and observers are owned by the UI loop.
	state     directory.State
	observers []func(directory.State)
}

// New creates a new directory fetch service.
func New(l pkgLog.Logger, client repository.Client, d uiloop.Dispatcher) *implUseCase {
	return &implUseCase{
		l:      l,
		client: client,
		d:      d,
	}
}

// Observe registers an observer on the UI loop.
func (uc *implUseCase) Observe(fn func(directory.State)) {
	uc.d.Dispatch(func() {
		uc.observers = append(uc.observers, fn)
	})
}

// State returns the current state. Only safe from the UI loop.
func (uc *implUseCase) State() directory.State {
	return uc.state
}

// ClearError resets the error message on explicit dismissal.
func (uc *implUseCase) ClearError() {
	uc.publish(func(st *directory.State) {
		st.ErrorMessage = ""
	})
}

func (uc *implUseCase) publish(mutate func(*directory.State)) {
	uc.d.Dispatch(func() {
		mutate(&uc.state)
		for _, fn := range uc.observers {
			fn(uc.state)
		}
	})
}
