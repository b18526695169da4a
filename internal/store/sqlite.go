package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"nickandperla.net/lox/internal/value"
)

// Current schema version
const SchemaVersion = "1"

// SQLite is a SQLite-backed store.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite creates a new SQLite store at the given path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, err
	}

	// Create tables if not exists
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS bindings (
			name TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			value TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session TEXT NOT NULL,
			source TEXT NOT NULL,
			ts TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLite{db: db}

	// Check/set schema version (use unlocked versions since we're in init)
	version, err := s.getMetadataUnlocked("schema_version")
	if err != nil {
		db.Close()
		return nil, err
	}

	switch version {
	case "":
		if err := s.setMetadataUnlocked("schema_version", SchemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	case SchemaVersion:
	default:
		db.Close()
		return nil, fmt.Errorf("unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}

	return s, nil
}

// Get retrieves a binding by name.
func (s *SQLite) Get(name string) (value.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kind, text string
	err := s.db.QueryRow("SELECT kind, value FROM bindings WHERE name = ?", name).Scan(&kind, &text)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return value.Decode(kind, text)
}

// Put stores a binding by name.
func (s *SQLite) Put(name string, v value.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kind, text := value.Encode(v)
	_, err := s.db.Exec(`
		INSERT INTO bindings (name, kind, value) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET kind = excluded.kind, value = excluded.value
	`, name, kind, text)
	return err
}

// Delete removes a binding by name.
func (s *SQLite) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM bindings WHERE name = ?", name)
	return err
}

// List returns every stored binding.
func (s *SQLite) List() (map[string]value.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT name, kind, value FROM bindings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]value.Value)
	for rows.Next() {
		var name, kind, text string
		if err := rows.Scan(&name, &kind, &text); err != nil {
			return nil, err
		}
		v, err := value.Decode(kind, text)
		if err != nil {
			return nil, fmt.Errorf("binding %s: %w", name, err)
		}
		out[name] = v
	}
	return out, rows.Err()
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// GetMetadata retrieves a metadata value by key.
func (s *SQLite) GetMetadata(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getMetadataUnlocked(key)
}

// getMetadataUnlocked retrieves metadata without locking (caller must hold lock).
func (s *SQLite) getMetadataUnlocked(key string) (string, error) {
	var val string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&val)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// SetMetadata stores a metadata value by key.
func (s *SQLite) SetMetadata(key, val string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setMetadataUnlocked(key, val)
}

// setMetadataUnlocked stores metadata without locking (caller must hold lock).
func (s *SQLite) setMetadataUnlocked(key, val string) error {
	_, err := s.db.Exec(`
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, val)
	return err
}

// AppendHistory records one accepted input.
func (s *SQLite) AppendHistory(session, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		"INSERT INTO history (session, source, ts) VALUES (?, ?, ?)",
		session, source, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetHistory returns entries newest first.
func (s *SQLite) GetHistory(limit int) ([]HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := "SELECT id, session, source, ts FROM history ORDER BY id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []HistoryEntry
	for rows.Next() {
		var he HistoryEntry
		if err := rows.Scan(&he.ID, &he.Session, &he.Source, &he.Ts); err != nil {
			return nil, err
		}
		entries = append(entries, he)
	}
	return entries, rows.Err()
}
