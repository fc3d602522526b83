package index

import (
	"context"
	"sort"
	"sync"

	"rdmlcore/pkg/rdml"
)

// Memory implements Index in process memory.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]rdml.Row
}

// NewMemory returns an empty in-memory index.
func NewMemory() *Memory { return &Memory{docs: make(map[string][]rdml.Row)} }

// ReplaceDocument swaps the row set stored under docKey.
func (m *Memory) ReplaceDocument(_ context.Context, docKey string, rows []rdml.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[docKey] = cloneRows(rows)
	return nil
}

// Rows returns a copy of the row set stored under docKey.
func (m *Memory) Rows(_ context.Context, docKey string) ([]rdml.Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneRows(m.docs[docKey]), nil
}

// Documents returns the indexed keys, ascending.
func (m *Memory) Documents(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.docs))
	for k := range m.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// DeleteDocument removes the row set returning true if it existed.
func (m *Memory) DeleteDocument(_ context.Context, docKey string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.docs[docKey]
	delete(m.docs, docKey)
	return ok, nil
}

// Close is a no-op for the memory driver.
func (m *Memory) Close() error { return nil }
