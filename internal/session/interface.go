package session

import (
	"context"

	"taskdeck/internal/model"
)

// Provider is the authentication capability consumed by the rest of
// the application. Its presence or absence of a current session gates
// which screen the presentation layer shows.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (model.Session, error)
	SignUp(ctx context.Context, email, password string) (model.Session, error)
	SendPasswordReset(ctx context.Context, email string) error
	SignOut(ctx context.Context) error

	// Current returns the persisted session, if any.
	Current() (model.Session, bool)
}
