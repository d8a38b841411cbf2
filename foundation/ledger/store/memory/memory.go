// Package memory implements the store contract with an in-memory map.
// It exists for tests and ephemeral runs; nothing survives the process.
package memory

import (
	"sync"

	"github.com/ardanlabs/ledger/foundation/ledger/store"
)

// Memory represents a map backed implementation of the store contract.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

var _ store.Store = (*Memory)(nil)

// New constructs a Memory store for use.
func New() *Memory {
	return &Memory{
		entries: make(map[string][]byte),
	}
}

// Put writes the value for the specified key. The value is copied so the
// caller's slice stays independent of the stored state.
func (m *Memory) Put(key []byte, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data := make([]byte, len(value))
	copy(data, value)
	m.entries[string(key)] = data

	return nil
}

// Get reads the value for the specified key, returning store.ErrNotFound
// when no value exists.
func (m *Memory) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, exists := m.entries[string(key)]
	if !exists {
		return nil, store.ErrNotFound
	}

	data := make([]byte, len(value))
	copy(data, value)

	return data, nil
}

// ForEach runs the specified function against every key/value pair. The
// scan order is unspecified.
func (m *Memory) ForEach(fn func(key []byte, value []byte) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for key, value := range m.entries {
		if err := fn([]byte(key), value); err != nil {
			return err
		}
	}

	return nil
}

// DeleteAll removes every entry from the map.
func (m *Memory) DeleteAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string][]byte)

	return nil
}

// Close in this implementation has nothing to do since everything is in
// memory.
func (m *Memory) Close() error {
	return nil
}
