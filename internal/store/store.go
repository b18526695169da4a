// Package store provides persistence for lox global bindings.
package store

import "nickandperla.net/lox/internal/value"

// Store is the interface for binding persistence.
type Store interface {
	// Get retrieves a binding by name. Returns nil if not found.
	Get(name string) (value.Value, error)
	// Put stores a binding by name, overwriting if it exists.
	Put(name string, v value.Value) error
	// Delete removes a binding by name.
	Delete(name string) error
	// List returns every stored binding.
	List() (map[string]value.Value, error)
	// Close releases resources.
	Close() error
}

// HistoryEntry is one line of source accepted by a REPL session.
type HistoryEntry struct {
	ID      int
	Session string
	Source  string
	Ts      string
}

// MetadataStore extends Store with string key/value metadata.
type MetadataStore interface {
	GetMetadata(key string) (string, error)
	SetMetadata(key, val string) error
}

// HistoryStore extends Store with REPL input history.
type HistoryStore interface {
	AppendHistory(session, source string) error
	// GetHistory returns up to limit entries, newest first (0 = all).
	GetHistory(limit int) ([]HistoryEntry, error)
}
