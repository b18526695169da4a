package lox

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"nickandperla.net/lox/internal/eval"
	"nickandperla.net/lox/internal/parser"
	"nickandperla.net/lox/internal/scanner"
	"nickandperla.net/lox/internal/stmt"
	"nickandperla.net/lox/internal/store"
	"nickandperla.net/lox/internal/value"
)

// Runtime is the lox interpreter runtime.
type Runtime struct {
	evaluator    *eval.Evaluator
	store        eval.Store
	storeErr     error  // failure opening the SQLite store, if any
	sqlitePath   string // opened once every option has been applied
	outputWriter func(text string) error
	prelude      string           // Custom prelude source (if empty, uses DefaultPrelude)
	noStdlib     bool             // If true, skip loading prelude
	persistMode  eval.PersistMode // Controls persistence behavior
	logger       *slog.Logger
}

// Result collects the outcome of running one piece of source.
type Result struct {
	// Value is the rendering of the last bare expression statement.
	Value         string
	HasValue      bool
	SyntaxErrors  []*SyntaxError
	RuntimeErrors []*RuntimeError
}

// Err joins every collected error, or returns nil.
func (res *Result) Err() error {
	var errs []error
	for _, e := range res.SyntaxErrors {
		errs = append(errs, e)
	}
	for _, e := range res.RuntimeErrors {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

// New creates a new lox runtime with the given options.
func New(opts ...Option) *Runtime {
	r := &Runtime{}

	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if r.sqlitePath != "" {
		s, err := store.NewSQLite(r.sqlitePath)
		if err != nil {
			r.storeErr = err
			r.logger.Warn("sqlite store unavailable, bindings will not persist", "path", r.sqlitePath, "err", err)
		} else {
			r.store = s
		}
	}

	// Build evaluator options
	evalOpts := []eval.Option{eval.WithLogger(r.logger)}
	if r.store != nil {
		evalOpts = append(evalOpts, eval.WithStore(r.store))
	}
	if r.outputWriter != nil {
		evalOpts = append(evalOpts, eval.WithOutputWriter(r.outputWriter))
	}
	evalOpts = append(evalOpts, eval.WithPersistMode(r.persistMode))

	r.evaluator = eval.New(evalOpts...)

	if _, err := r.evaluator.Restore(); err != nil {
		r.logger.Warn("restore failed", "err", err)
	}
	r.stampVersion()

	// Load prelude unless disabled
	if !r.noStdlib {
		prelude := r.prelude
		if prelude == "" {
			prelude = DefaultPrelude
		}

		// Check for database override
		if r.store != nil {
			if v, err := r.store.Get(PreludeBinding); err == nil && v != nil {
				if text, ok := v.(value.Text); ok && strings.TrimSpace(string(text)) != "" {
					prelude = string(text)
				}
			}
		}

		res, _ := r.Run(prelude)
		if err := res.Err(); err != nil {
			r.logger.Warn("prelude failed", "err", err)
		}
	}

	return r
}

// Run scans, parses and executes src. Every well-formed top-level statement
// runs in order, even when others failed to parse or raised a runtime error.
// The returned error is reserved for read failures.
func (r *Runtime) Run(src string) (*Result, error) {
	return r.RunReader(strings.NewReader(src))
}

// RunReader is Run over a reader.
func (r *Runtime) RunReader(reader io.Reader) (*Result, error) {
	results, err := parser.New(scanner.New(reader)).Parse()
	res := &Result{}
	for _, pr := range results {
		if pr.Err != nil {
			res.SyntaxErrors = append(res.SyntaxErrors, pr.Err)
			continue
		}
		r.execute(pr.Stmt, res)
	}
	return res, err
}

func (r *Runtime) execute(s stmt.Stmt, res *Result) {
	globals := r.evaluator.Globals()
	var err error
	if es, ok := s.(stmt.Expression); ok {
		var v value.Value
		if v, err = r.evaluator.Evaluate(es.Expr, globals); err == nil {
			res.Value, res.HasValue = v.String(), true
		}
	} else {
		err = r.evaluator.Execute(s, globals)
	}
	if err != nil {
		var rerr *RuntimeError
		if errors.As(err, &rerr) {
			res.RuntimeErrors = append(res.RuntimeErrors, rerr)
		} else {
			// Output failures and similar host errors surface as runtime errors.
			res.RuntimeErrors = append(res.RuntimeErrors, &RuntimeError{Message: err.Error(), Err: err})
		}
		return
	}
	if err := r.evaluator.Committed(); err != nil {
		r.logger.Warn("persist failed", "err", err)
	}
}

// Eval runs src and returns the value of its last bare expression
// statement. All syntax and runtime errors are joined into one error.
func (r *Runtime) Eval(input string) (string, error) {
	return r.EvalReader(strings.NewReader(input))
}

// EvalReader evaluates lox from a reader.
func (r *Runtime) EvalReader(reader io.Reader) (string, error) {
	res, err := r.RunReader(reader)
	if err != nil {
		return "", err
	}
	return res.Value, res.Err()
}

// EvalFile evaluates a lox file.
func (r *Runtime) EvalFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return r.EvalReader(f)
}

// stampVersion records the running version in the store's metadata.
func (r *Runtime) stampVersion() {
	ms, ok := r.store.(store.MetadataStore)
	if !ok || r.persistMode == eval.PersistNever {
		return
	}
	prev, err := ms.GetMetadata(VersionKey)
	if err != nil {
		r.logger.Warn("read store metadata", "err", err)
		return
	}
	if prev == Version {
		return
	}
	if prev != "" {
		r.logger.Info("store was written by another lox version", "stored", prev, "running", Version)
	}
	if err := ms.SetMetadata(VersionKey, Version); err != nil {
		r.logger.Warn("write store metadata", "err", err)
	}
}

// Forget unbinds a global and removes it from the store. It reports whether
// the name was bound.
func (r *Runtime) Forget(name string) (bool, error) {
	return r.evaluator.Forget(name)
}

// HasStore reports whether bindings can be persisted at all.
func (r *Runtime) HasStore() bool {
	return r.store != nil
}

// Persist writes every global binding to the store.
func (r *Runtime) Persist() error {
	return r.evaluator.Persist()
}

// Globals returns the global scope.
func (r *Runtime) Globals() *Environment {
	return r.evaluator.Globals()
}

// PersistMode returns the configured persistence mode.
func (r *Runtime) PersistMode() PersistMode {
	return r.evaluator.PersistMode()
}

// StoreErr reports why the configured SQLite store could not be opened.
func (r *Runtime) StoreErr() error {
	return r.storeErr
}

// RecordHistory appends one accepted input to the store's history.
func (r *Runtime) RecordHistory(session, source string) error {
	return r.evaluator.RecordHistory(session, source)
}

// History returns up to limit entries, newest first (0 = all).
func (r *Runtime) History(limit int) ([]HistoryEntry, error) {
	return r.evaluator.History(limit)
}

// Close releases resources.
func (r *Runtime) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}
