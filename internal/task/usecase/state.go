package usecase

import "taskdeck/internal/task"

// Observe registers an observer. Registration itself runs on the UI
// loop so it never races a publish.
func (uc *implUseCase) Observe(fn func(task.State)) {
	uc.d.Dispatch(func() {
		uc.observers = append(uc.observers, fn)
	})
}

// State returns the current state. Only safe from the UI loop; off
// the loop, read state through Observe instead.
func (uc *implUseCase) State() task.State {
	return uc.state
}

// ClearError resets the error message on explicit dismissal.
func (uc *implUseCase) ClearError() {
	uc.publish(func(st *task.State) {
		st.ErrorMessage = ""
	})
}

// publish mutates the state on the UI loop and notifies observers.
// Mutations replace the Tasks slice wholesale, so the copies handed to
// observers never alias live state.
func (uc *implUseCase) publish(mutate func(*task.State)) {
	uc.d.Dispatch(func() {
		mutate(&uc.state)
		for _, fn := range uc.observers {
			fn(uc.state)
		}
	})
}

// fail publishes a human-readable error message.
func (uc *implUseCase) fail(prefix string, err error) {
	msg := prefix + ": " + err.Error()
	uc.publish(func(st *task.State) {
		st.ErrorMessage = msg
	})
}
