package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"taskdeck/internal/model"
)

// TaskDocument is the wire form of a task. The document id is not part
// of the body; the store carries it separately.
type TaskDocument struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
	OwnerID     string    `json:"ownerId"`
}

// DocumentFromTask converts a task to its wire form.
func DocumentFromTask(t model.Task) TaskDocument {
	return TaskDocument{
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
		CreatedAt:   t.CreatedAt,
		OwnerID:     t.OwnerID,
	}
}

// DecodeTask decodes a raw store document into a task. The decode is
// strict: a type mismatch or a document missing its owner or creation
// time is an error, not a partial result.
func DecodeTask(doc Document) (model.Task, error) {
	var body TaskDocument
	if err := json.Unmarshal(doc.Data, &body); err != nil {
		return model.Task{}, fmt.Errorf("document %s: %w", doc.ID, err)
	}
	if body.OwnerID == "" {
		return model.Task{}, fmt.Errorf("document %s: missing ownerId", doc.ID)
	}
	if body.CreatedAt.IsZero() {
		return model.Task{}, fmt.Errorf("document %s: missing createdAt", doc.ID)
	}
	return model.Task{
		ID:          doc.ID,
		Title:       body.Title,
		Description: body.Description,
		IsCompleted: body.IsCompleted,
		CreatedAt:   body.CreatedAt,
		OwnerID:     body.OwnerID,
	}, nil
}
