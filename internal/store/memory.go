package store

import (
	"maps"
	"sync"
)

// MemoryBackend keeps namespaces in process memory. Used for tests and when
// persistence is disabled.
type MemoryBackend struct {
	mu   sync.Mutex
	data map[string]map[string]string
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]map[string]string)}
}

func (m *MemoryBackend) Load(namespace string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.data[namespace]), nil
}

func (m *MemoryBackend) Save(namespace string, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[namespace] = maps.Clone(values)
	return nil
}

func (m *MemoryBackend) Close() error { return nil }
