package model

import "time"

// Task is a single task on the board. ID is assigned by the remote
// store on first write; a locally constructed task has an empty ID.
// OwnerID and CreatedAt are set once at creation and never change.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
	OwnerID     string    `json:"ownerId"`
}
