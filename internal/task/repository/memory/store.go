// Package memory provides an in-memory repository.Store. It backs
// unit tests and offline development; semantics match the remote
// store: server-assigned ids, versioned snapshots, watch fan-out.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"taskdeck/internal/task/repository"
)

type entry struct {
	raw       json.RawMessage
	ownerID   string
	createdAt time.Time
	seq       int
}

// Store is an in-memory document collection.
type Store struct {
	mu          sync.Mutex
	seq         int
	version     uint64
	docs        map[string]entry
	watchers    map[int]chan struct{}
	nextWatcher int

	// Error injection for tests.
	AddErr    error
	SetErr    error
	DeleteErr error
}

// New creates an empty store.
func New() *Store {
	return &Store{
		docs:     make(map[string]entry),
		watchers: make(map[int]chan struct{}),
	}
}

// Add stores the document under a new server-assigned id.
func (s *Store) Add(ctx context.Context, doc repository.TaskDocument) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.AddErr != nil {
		return "", s.AddErr
	}

	s.seq++
	id := fmt.Sprintf("task-%d", s.seq)
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	s.docs[id] = entry{raw: raw, ownerID: doc.OwnerID, createdAt: doc.CreatedAt, seq: s.seq}
	s.bump()
	return id, nil
}

// Set overwrites an existing document in full.
func (s *Store) Set(ctx context.Context, id string, doc repository.TaskDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetErr != nil {
		return s.SetErr
	}

	prev, ok := s.docs[id]
	if !ok {
		return fmt.Errorf("document %s not found", id)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.docs[id] = entry{raw: raw, ownerID: doc.OwnerID, createdAt: doc.CreatedAt, seq: prev.seq}
	s.bump()
	return nil
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}

	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("document %s not found", id)
	}
	delete(s.docs, id)
	s.bump()
	return nil
}

// PutRaw stores arbitrary document bytes under the given id, bypassing
// marshaling. Tests use it to feed malformed documents to watchers.
func (s *Store) PutRaw(id string, data json.RawMessage, ownerID string, createdAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.docs[id] = entry{raw: data, ownerID: ownerID, createdAt: createdAt, seq: s.seq}
	s.bump()
}

// Watch delivers an initial snapshot immediately and a fresh snapshot
// after every store mutation. Closes the channel when ctx ends.
func (s *Store) Watch(ctx context.Context, opt repository.WatchOptions) (<-chan repository.Event, error) {
	events := make(chan repository.Event)

	notify := make(chan struct{}, 1)
	s.mu.Lock()
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = notify
	s.mu.Unlock()

	go func() {
		defer close(events)
		defer func() {
			s.mu.Lock()
			delete(s.watchers, id)
			s.mu.Unlock()
		}()

		for {
			snap := s.snapshot(opt.OwnerID)
			select {
			case <-ctx.Done():
				return
			case events <- repository.Event{Snapshot: snap}:
			}
			select {
			case <-ctx.Done():
				return
			case <-notify:
			}
		}
	}()
	return events, nil
}

// bump advances the version and wakes watchers. Caller holds the lock.
func (s *Store) bump() {
	s.version++
	for _, notify := range s.watchers {
		select {
		case notify <- struct{}{}:
		default:
		}
	}
}

func (s *Store) snapshot(ownerID string) *repository.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	type ordered struct {
		doc repository.Document
		at  time.Time
		seq int
	}
	var matched []ordered
	for id, e := range s.docs {
		if e.ownerID != ownerID {
			continue
		}
		matched = append(matched, ordered{
			doc: repository.Document{ID: id, Data: e.raw},
			at:  e.createdAt,
			seq: e.seq,
		})
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].at.Equal(matched[j].at) {
			return matched[i].at.After(matched[j].at)
		}
		return matched[i].seq > matched[j].seq
	})

	snap := &repository.Snapshot{Version: s.version}
	for _, m := range matched {
		snap.Documents = append(snap.Documents, m.doc)
	}
	return snap
}
