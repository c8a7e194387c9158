package directory

import "taskdeck/internal/model"

// State is the observable state triple of the directory fetch service.
type State struct {
	Users        []model.User
	Loading      bool
	ErrorMessage string
}
