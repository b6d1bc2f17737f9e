package server

import (
	"bytes"
	"sync"
	"time"

	"github.com/google/uuid"
)

// downloadStore holds finished documents until they expire after ttl.
// Every lookup gets its own reader, so repeated and ranged downloads work.
type downloadStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]storedDoc
}

type storedDoc struct {
	data    []byte
	created time.Time
}

func newStore(ttl time.Duration, now func() time.Time) *downloadStore {
	return &downloadStore{ttl: ttl, now: now, items: make(map[string]storedDoc)}
}

func (s *downloadStore) put(doc *bytes.Reader) string {
	data := make([]byte, doc.Size())
	_, _ = doc.ReadAt(data, 0)

	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	s.items[id] = storedDoc{data: data, created: s.now()}
	return id
}

func (s *downloadStore) get(id string) (*bytes.Reader, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	item, ok := s.items[id]
	if !ok {
		return nil, false
	}
	return bytes.NewReader(item.data), true
}

func (s *downloadStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *downloadStore) pruneLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, item := range s.items {
		if item.created.Before(cutoff) {
			delete(s.items, id)
		}
	}
}
