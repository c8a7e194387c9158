package repository

import (
	"context"
	"encoding/json"
)

// Store is the interface to the remote document collection holding
// tasks. Writes are single-document operations; reads arrive only
// through Watch snapshots.
type Store interface {
	// Add creates a new document and returns the server-assigned id.
	Add(ctx context.Context, doc TaskDocument) (string, error)

	// Set overwrites the document with the given id in full.
	Set(ctx context.Context, id string, doc TaskDocument) error

	// Delete removes the document with the given id.
	Delete(ctx context.Context, id string) error

	// Watch opens a live query scoped to opt.OwnerID, ordered by
	// creation time descending. Every change to the matching set
	// delivers a full snapshot on the returned channel; transport
	// failures are delivered as events too, and the watch keeps
	// going. The channel closes when ctx is cancelled.
	Watch(ctx context.Context, opt WatchOptions) (<-chan Event, error)
}

// WatchOptions scopes a live query.
type WatchOptions struct {
	OwnerID string
}

// Document is a raw document as delivered by the store.
type Document struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// Snapshot is the full matching result set at a store version.
type Snapshot struct {
	Version   uint64     `json:"version"`
	Documents []Document `json:"documents"`
}

// Event is one delivery on a watch channel: either a snapshot or a
// transport error, never both.
type Event struct {
	Snapshot *Snapshot
	Err      error
}
