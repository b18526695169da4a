// Package lox provides the public API for the lox interpreter.
package lox

import (
	"io"
	"log/slog"

	"nickandperla.net/lox/internal/eval"
	"nickandperla.net/lox/internal/parser"
	"nickandperla.net/lox/internal/store"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithSQLiteStore configures SQLite persistence at the given path. If the
// database cannot be opened the runtime runs without a store; see StoreErr.
func WithSQLiteStore(path string) Option {
	return func(r *Runtime) {
		r.sqlitePath = path
	}
}

// WithMemoryStore configures an in-memory store (for testing).
func WithMemoryStore() Option {
	return func(r *Runtime) {
		r.sqlitePath = ""
		r.store = store.NewMemory()
	}
}

// WithStore sets a custom store.
func WithStore(s Store) Option {
	return func(r *Runtime) {
		r.sqlitePath = ""
		r.store = s
	}
}

// WithOutputWriter sets the output writer for print.
func WithOutputWriter(writer func(text string) error) Option {
	return func(r *Runtime) {
		r.outputWriter = writer
	}
}

// WithOutput sets the io.Writer for output.
func WithOutput(w io.Writer) Option {
	return func(r *Runtime) {
		r.outputWriter = func(text string) error {
			_, err := io.WriteString(w, text)
			return err
		}
	}
}

// WithPrelude sets a custom prelude source to be loaded on startup.
// If not set, DefaultPrelude is used.
func WithPrelude(source string) Option {
	return func(r *Runtime) {
		r.prelude = source
	}
}

// WithNoStdlib disables loading the prelude.
func WithNoStdlib() Option {
	return func(r *Runtime) {
		r.noStdlib = true
	}
}

// WithLogger sets the logger for execution tracing and store warnings.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = l
	}
}

// Store interface for custom stores.
type Store = eval.Store

// Environment is one scope of variable bindings.
type Environment = eval.Environment

// HistoryEntry is one recorded REPL input.
type HistoryEntry = store.HistoryEntry

// SyntaxError is a parse-time fault.
type SyntaxError = parser.SyntaxError

// RuntimeError aborts the statement that raised it.
type RuntimeError = eval.RuntimeError

// ErrUndefinedVariable is wrapped by RuntimeErrors for unbound names.
var ErrUndefinedVariable = eval.ErrUndefinedVariable

// PersistMode controls when global bindings are persisted.
type PersistMode = eval.PersistMode

// Persist mode constants.
const (
	PersistOnDemand = eval.PersistOnDemand
	PersistAlways   = eval.PersistAlways
	PersistNever    = eval.PersistNever
)

// ParsePersistMode parses a string into a PersistMode.
func ParsePersistMode(s string) (PersistMode, bool) {
	return eval.ParsePersistMode(s)
}

// WithPersistMode sets the persistence mode.
func WithPersistMode(mode PersistMode) Option {
	return func(r *Runtime) {
		r.persistMode = mode
	}
}
