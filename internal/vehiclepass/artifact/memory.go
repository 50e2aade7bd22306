package artifact

import (
	"context"
	"sync"
)

// MemoryStore holds artifacts in memory.  Tests and dev environments; the
// raw payload stands in for the rendered PNG.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Store(_ context.Context, personID, payload string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[personID] = []byte(payload)
	return personID, nil
}

func (s *MemoryStore) Retrieve(_ context.Context, personID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data[personID]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, personID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, personID)
	return nil
}

// Has reports whether an artifact exists for personID.  Test-only helper.
func (s *MemoryStore) Has(personID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[personID]
	return ok
}
