package session

import "errors"

// ErrNotSignedIn is returned when an operation needs a session and
// none exists.
var ErrNotSignedIn = errors.New("not signed in")
