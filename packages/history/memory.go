package history

import "sync"

// MemoryStore keeps history in process memory. Useful for tests and for
// running without a configured database.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]Entry // newest first
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]Entry),
	}
}

func (s *MemoryStore) Append(repoKey string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := append([]Entry{entry}, s.entries[repoKey]...)
	if len(list) > Capacity {
		list = list[:Capacity]
	}
	s.entries[repoKey] = list
	return nil
}

func (s *MemoryStore) List(repoKey string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.entries[repoKey]
	out := make([]Entry, len(list))
	copy(out, list)
	return out, nil
}

func (s *MemoryStore) Clear(repoKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, repoKey)
	return nil
}
