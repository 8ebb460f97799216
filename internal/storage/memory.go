package storage

import (
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-process Persistence, used by tests and dry runs.
type MemoryStore struct {
	mu       sync.RWMutex
	Elements map[Key][]byte
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Elements: make(map[Key][]byte)}
}

// Store keeps a copy of data under k.
func (m *MemoryStore) Store(k Key, data []byte) error {
	if err := k.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Elements[k] = append([]byte(nil), data...)
	return nil
}

// Load returns a copy of the data stored under k.
func (m *MemoryStore) Load(k Key) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.Elements[k]
	if !ok {
		return nil, fmt.Errorf("%w: %s", NotFoundErr, k)
	}
	return append([]byte(nil), data...), nil
}

// Versions lists the stored versions of name in ascending order.
func (m *MemoryStore) Versions(name string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var versions []string
	for k := range m.Elements {
		if k.Name == name {
			versions = append(versions, k.Version)
		}
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("%w: %s", NotFoundErr, name)
	}
	sort.Strings(versions)
	return versions, nil
}
