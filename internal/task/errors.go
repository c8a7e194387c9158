package task

import "errors"

// ErrMissingTaskID reports an update or delete of a task that was
// never persisted. Only surfaced when strict writes are enabled; the
// default behavior is to silently ignore the operation.
var ErrMissingTaskID = errors.New("task has no id")
