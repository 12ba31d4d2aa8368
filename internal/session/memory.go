package session

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// memoryKV is the volatile fallback used when the sqlite file cannot be
// opened, and the backend of choice in tests. Values do not survive a
// restart, which is exactly the silent no-op degradation the view layer
// expects from unavailable storage.
type memoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory returns a Store backed by process memory.
func NewMemory(log *logrus.Logger) *Store {
	return New(&memoryKV{values: make(map[string]string)}, log)
}

func (m *memoryKV) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *memoryKV) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *memoryKV) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}

func (m *memoryKV) Close() error {
	return nil
}
