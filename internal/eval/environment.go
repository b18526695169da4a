// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package eval implements the lox tree-walking evaluator.
package eval

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"nickandperla.net/lox/internal/value"
)

// ErrUndefinedVariable is wrapped by lookups and assignments of names no
// enclosing scope defines.
var ErrUndefinedVariable = errors.New("undefined variable")

// Environment is one scope in the lexical scope chain. Child scopes hold a
// plain pointer to their parent, so a scope lives as long as any child or
// caller still references it.
type Environment struct {
	mu        sync.RWMutex
	values    map[string]value.Value
	enclosing *Environment
}

// NewEnvironment creates an empty scope inside enclosing (nil for globals).
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{
		values:    make(map[string]value.Value),
		enclosing: enclosing,
	}
}

// Enclosing returns the parent scope, or nil for the global scope.
func (env *Environment) Enclosing() *Environment {
	return env.enclosing
}

// Define binds name in this scope, replacing any existing binding here.
func (env *Environment) Define(name string, v value.Value) {
	env.mu.Lock()
	defer env.mu.Unlock()
	env.values[name] = v
}

// Get resolves name from this scope outward.
func (env *Environment) Get(name string) (value.Value, error) {
	for s := env; s != nil; s = s.enclosing {
		s.mu.RLock()
		v, ok := s.values[name]
		s.mu.RUnlock()
		if ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w '%s'", ErrUndefinedVariable, name)
}

// Assign rebinds name in the innermost scope that already defines it.
// It never creates a binding.
func (env *Environment) Assign(name string, v value.Value) error {
	for s := env; s != nil; s = s.enclosing {
		s.mu.Lock()
		_, ok := s.values[name]
		if ok {
			s.values[name] = v
		}
		s.mu.Unlock()
		if ok {
			return nil
		}
	}
	return fmt.Errorf("%w '%s'", ErrUndefinedVariable, name)
}

// Delete removes name from this scope and reports whether it was bound.
func (env *Environment) Delete(name string) bool {
	env.mu.Lock()
	defer env.mu.Unlock()
	_, ok := env.values[name]
	delete(env.values, name)
	return ok
}

// Has returns true if name is bound in this scope (enclosing scopes are
// not consulted).
func (env *Environment) Has(name string) bool {
	env.mu.RLock()
	defer env.mu.RUnlock()
	_, ok := env.values[name]
	return ok
}

// Bindings returns a copy of this scope's own bindings.
func (env *Environment) Bindings() map[string]value.Value {
	env.mu.RLock()
	defer env.mu.RUnlock()
	out := make(map[string]value.Value, len(env.values))
	for k, v := range env.values {
		out[k] = v
	}
	return out
}

// Names returns this scope's own names in sorted order.
func (env *Environment) Names() []string {
	env.mu.RLock()
	defer env.mu.RUnlock()
	names := make([]string, 0, len(env.values))
	for k := range env.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
