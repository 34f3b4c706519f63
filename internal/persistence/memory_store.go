package persistence

import "sync"

// InMemoryStore is a simple, goroutine-safe StateStore backed by a map.
// Nothing survives the process; it is the default for tests and for hosts
// that do not want persistence.
type InMemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewInMemoryStore creates a new InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		values: make(map[string]string),
	}
}

// Ensure InMemoryStore implements the interface.
var _ StateStore = (*InMemoryStore)(nil)

func (s *InMemoryStore) SaveState(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

func (s *InMemoryStore) GetState(key, defaultValue string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return defaultValue, nil
	}
	return v, nil
}

func (s *InMemoryStore) RemoveState(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

func (s *InMemoryStore) Ready() bool { return true }
