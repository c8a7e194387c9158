package emulator

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Document is one stored document on the wire: the server-assigned id
// plus the raw body the client wrote.
type Document struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// Snapshot is a watch response: every document visible to the caller
// at a single collection version.
type Snapshot struct {
	Version   uint64     `json:"version"`
	Documents []Document `json:"documents"`
}

type document struct {
	id        string
	data      json.RawMessage
	ownerID   string
	createdAt time.Time
	seq       uint64
}

// collection groups documents behind one version counter. notify is
// closed and replaced on every write so long-polls wake in one shot.
type collection struct {
	docs    map[string]*document
	version uint64
	notify  chan struct{}
}

// Store is the in-memory document store behind the emulator. Every
// write bumps the collection version and wakes pending watches.
type Store struct {
	mu    sync.Mutex
	colls map[string]*collection
	seq   uint64
}

func NewStore() *Store {
	return &Store{colls: make(map[string]*collection)}
}

// docFields are the attributes the store indexes out of a document
// body for scoping and ordering. Anything else is opaque.
type docFields struct {
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Store) collLocked(name string) *collection {
	c, ok := s.colls[name]
	if !ok {
		c = &collection{
			docs:   make(map[string]*document),
			notify: make(chan struct{}),
		}
		s.colls[name] = c
	}
	return c
}

func (c *collection) bump() {
	c.version++
	close(c.notify)
	c.notify = make(chan struct{})
}

// Add stores a new document and returns its assigned id.
func (s *Store) Add(coll string, data json.RawMessage) string {
	var fields docFields
	json.Unmarshal(data, &fields)

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collLocked(coll)
	s.seq++
	id := uuid.NewString()
	c.docs[id] = &document{
		id:        id,
		data:      data,
		ownerID:   fields.OwnerID,
		createdAt: fields.CreatedAt,
		seq:       s.seq,
	}
	c.bump()
	return id
}

// Set overwrites the document body in full. Unknown ids upsert, which
// matches PUT semantics.
func (s *Store) Set(coll, id string, data json.RawMessage) {
	var fields docFields
	json.Unmarshal(data, &fields)

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collLocked(coll)
	existing, ok := c.docs[id]
	seq := s.seq
	if ok {
		seq = existing.seq
	} else {
		s.seq++
		seq = s.seq
	}
	c.docs[id] = &document{
		id:        id,
		data:      data,
		ownerID:   fields.OwnerID,
		createdAt: fields.CreatedAt,
		seq:       seq,
	}
	c.bump()
}

// Delete removes a document. It reports whether the id existed.
func (s *Store) Delete(coll, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collLocked(coll)
	if _, ok := c.docs[id]; !ok {
		return false
	}
	delete(c.docs, id)
	c.bump()
	return true
}

// Owner returns the ownerId recorded for a document.
func (s *Store) Owner(coll, id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collLocked(coll)
	doc, ok := c.docs[id]
	if !ok {
		return "", false
	}
	return doc.ownerID, true
}

// Snapshot returns the owner's documents ordered newest first, with
// the collection version they were read at.
func (s *Store) Snapshot(coll, ownerID string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(s.collLocked(coll), ownerID)
}

func (s *Store) snapshotLocked(c *collection, ownerID string) Snapshot {
	matched := make([]*document, 0, len(c.docs))
	for _, doc := range c.docs {
		if doc.ownerID == ownerID {
			matched = append(matched, doc)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].createdAt.Equal(matched[j].createdAt) {
			return matched[i].createdAt.After(matched[j].createdAt)
		}
		return matched[i].seq > matched[j].seq
	})

	docs := make([]Document, 0, len(matched))
	for _, doc := range matched {
		docs = append(docs, Document{ID: doc.id, Data: doc.data})
	}
	return Snapshot{Version: c.version, Documents: docs}
}

// Watch blocks until the collection version passes afterVersion, the
// timeout elapses or ctx is done, then returns the current snapshot.
// afterVersion zero means "first poll": return immediately.
func (s *Store) Watch(ctx context.Context, coll, ownerID string, afterVersion uint64, timeout time.Duration) Snapshot {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	s.mu.Lock()
	for {
		c := s.collLocked(coll)
		if afterVersion == 0 || c.version > afterVersion {
			snap := s.snapshotLocked(c, ownerID)
			s.mu.Unlock()
			return snap
		}
		notify := c.notify
		s.mu.Unlock()

		select {
		case <-notify:
		case <-deadline.C:
			s.mu.Lock()
			snap := s.snapshotLocked(s.collLocked(coll), ownerID)
			s.mu.Unlock()
			return snap
		case <-ctx.Done():
			s.mu.Lock()
			snap := s.snapshotLocked(s.collLocked(coll), ownerID)
			s.mu.Unlock()
			return snap
		}
		s.mu.Lock()
	}
}
