package directory

import "context"

// UseCase is the user directory fetch service.
type UseCase interface {
	// FetchUsers starts one fetch of the directory. It returns
	// immediately; the result replaces Users wholesale on the UI
	// loop. There is no de-duplication: concurrent fetches race and
	// the last completion wins.
	FetchUsers(ctx context.Context)

	// ClearError resets ErrorMessage. Called by the presentation
	// layer on explicit dismissal.
	ClearError()

	// Observe registers fn to run on the UI loop after every state
	// change, with a copy of the new state.
	Observe(fn func(State))

	// State returns the current state. Only safe from the UI loop.
	State() State
}
