// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"fmt"

	"nickandperla.net/lox/internal/store"
)

// Persist writes every global binding to the store. In NEVER mode, or
// without a store, it is a no-op.
func (e *Evaluator) Persist() error {
	if e.store == nil || e.persistMode == PersistNever {
		return nil
	}
	for name, v := range e.globals.Bindings() {
		if err := e.store.Put(name, v); err != nil {
			return fmt.Errorf("persist %s: %w", name, err)
		}
	}
	e.logger.Debug("persisted globals", "mode", e.persistMode)
	return nil
}

// Restore defines every stored binding in the global scope and returns
// how many were loaded.
func (e *Evaluator) Restore() (int, error) {
	if e.store == nil || e.persistMode == PersistNever {
		return 0, nil
	}
	bindings, err := e.store.List()
	if err != nil {
		return 0, fmt.Errorf("restore globals: %w", err)
	}
	for name, v := range bindings {
		e.globals.Define(name, v)
	}
	e.logger.Debug("restored globals", "count", len(bindings))
	return len(bindings), nil
}

// Forget unbinds a global and removes it from the store. It reports whether
// the name was bound.
func (e *Evaluator) Forget(name string) (bool, error) {
	found := e.globals.Delete(name)
	if e.store == nil || e.persistMode == PersistNever {
		return found, nil
	}
	if err := e.store.Delete(name); err != nil {
		return found, fmt.Errorf("forget %s: %w", name, err)
	}
	return found, nil
}

// Committed is called by the host after each top-level statement that
// completed without error. In ALWAYS mode it persists the globals.
func (e *Evaluator) Committed() error {
	if e.persistMode != PersistAlways {
		return nil
	}
	return e.Persist()
}

// RecordHistory appends source to the store's history, if it keeps one.
func (e *Evaluator) RecordHistory(session, source string) error {
	hs := historyStore(e)
	if hs == nil {
		return nil
	}
	return hs.AppendHistory(session, source)
}

// History returns up to limit history entries, newest first (0 = all).
func (e *Evaluator) History(limit int) ([]store.HistoryEntry, error) {
	hs := historyStore(e)
	if hs == nil {
		return nil, nil
	}
	return hs.GetHistory(limit)
}

// historyStore type-asserts the evaluator's store to HistoryStore.
func historyStore(e *Evaluator) store.HistoryStore {
	if e.store == nil {
		return nil
	}
	hs, _ := e.store.(store.HistoryStore)
	return hs
}
