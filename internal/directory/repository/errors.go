package repository

import "errors"

// ErrDecode marks a response body that was not a well-formed user
// directory. Transport and status failures are plain errors.
var ErrDecode = errors.New("malformed user directory response")
