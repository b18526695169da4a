package store

import (
	"sync"
	"time"

	"nickandperla.net/lox/internal/value"
)

// Memory is an in-memory store for testing.
type Memory struct {
	mu       sync.RWMutex
	data     map[string]value.Value
	metadata map[string]string
	history  []HistoryEntry
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		data:     make(map[string]value.Value),
		metadata: make(map[string]string),
	}
}

// Get retrieves a binding by name.
func (m *Memory) Get(name string) (value.Value, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[name]; ok {
		return v, nil
	}
	return nil, nil
}

// Put stores a binding by name.
func (m *Memory) Put(name string, v value.Value) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name] = v
	return nil
}

// Delete removes a binding by name.
func (m *Memory) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, name)
	return nil
}

// List returns a copy of every binding.
func (m *Memory) List() (map[string]value.Value, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]value.Value, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out, nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}

// GetMetadata retrieves a metadata value by key.
func (m *Memory) GetMetadata(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.metadata[key], nil
}

// SetMetadata stores a metadata value by key.
func (m *Memory) SetMetadata(key, val string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[key] = val
	return nil
}

// AppendHistory records one accepted input.
func (m *Memory) AppendHistory(session, source string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, HistoryEntry{
		ID:      len(m.history) + 1,
		Session: session,
		Source:  source,
		Ts:      time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// GetHistory returns entries newest first.
func (m *Memory) GetHistory(limit int) ([]HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []HistoryEntry
	for i := len(m.history) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, m.history[i])
	}
	return out, nil
}
