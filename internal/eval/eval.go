package eval

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"nickandperla.net/lox/internal/expr"
	"nickandperla.net/lox/internal/stmt"
	"nickandperla.net/lox/internal/token"
	"nickandperla.net/lox/internal/value"
)

// Store is the interface for persisting global bindings.
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

// PersistMode controls when global bindings are persisted.
type PersistMode int

const (
	// PersistOnDemand is the default - the host calls Persist explicitly.
	PersistOnDemand PersistMode = iota
	// PersistAlways persists globals after every top-level statement.
	PersistAlways
	// PersistNever makes Persist and Restore no-ops (memory-only mode).
	PersistNever
)

// String returns the string representation of a PersistMode.
func (m PersistMode) String() string {
	switch m {
	case PersistOnDemand:
		return "ON_DEMAND"
	case PersistAlways:
		return "ALWAYS"
	case PersistNever:
		return "NEVER"
	default:
		return "UNKNOWN"
	}
}

// ParsePersistMode parses a string into a PersistMode.
func ParsePersistMode(s string) (PersistMode, bool) {
	switch strings.ToUpper(s) {
	case "ON_DEMAND":
		return PersistOnDemand, true
	case "ALWAYS":
		return PersistAlways, true
	case "NEVER":
		return PersistNever, true
	default:
		return PersistOnDemand, false
	}
}

// OutputWriter writes output (for print statements).
type OutputWriter func(text string) error

// Evaluator executes lox statement trees.
type Evaluator struct {
	globals      *Environment
	store        Store
	outputWriter OutputWriter
	persistMode  PersistMode
	logger       *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithOutputWriter sets the output writer for print.
func WithOutputWriter(w OutputWriter) Option {
	return func(e *Evaluator) { e.outputWriter = w }
}

// WithGlobals sets the top-level scope.
func WithGlobals(env *Environment) Option {
	return func(e *Evaluator) { e.globals = env }
}

// WithStore sets the persistence store.
func WithStore(s Store) Option {
	return func(e *Evaluator) { e.store = s }
}

// WithPersistMode sets the persistence mode.
func WithPersistMode(mode PersistMode) Option {
	return func(e *Evaluator) { e.persistMode = mode }
}

// WithLogger sets the logger used for execution tracing.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) { e.logger = l }
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		outputWriter: func(text string) error {
			fmt.Print(text)
			return nil
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.globals == nil {
		e.globals = NewEnvironment(nil)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

// Globals returns the top-level scope.
func (e *Evaluator) Globals() *Environment {
	return e.globals
}

// PersistMode returns the configured persistence mode.
func (e *Evaluator) PersistMode() PersistMode {
	return e.persistMode
}

// Execute runs one statement against env. A RuntimeError aborts the
// statement; bindings made by earlier statements are kept.
func (e *Evaluator) Execute(s stmt.Stmt, env *Environment) error {
	switch s := s.(type) {
	case stmt.Expression:
		_, err := e.Evaluate(s.Expr, env)
		return err

	case stmt.Print:
		v, err := e.Evaluate(s.Expr, env)
		if err != nil {
			return err
		}
		if e.outputWriter == nil {
			return nil
		}
		return e.outputWriter(v.String() + "\n")

	case stmt.Var:
		var v value.Value = value.Nil{}
		if s.Init != nil {
			var err error
			if v, err = e.Evaluate(s.Init, env); err != nil {
				return err
			}
		}
		env.Define(s.Name.Lexeme, v)
		return nil

	case stmt.Block:
		return e.executeBlock(s.Statements, NewEnvironment(env))
	}
	return fmt.Errorf("unknown statement type %T", s)
}

// executeBlock runs statements in scope; the scope is dropped on return.
func (e *Evaluator) executeBlock(statements []stmt.Stmt, scope *Environment) error {
	for _, s := range statements {
		if e.logger.Enabled(context.Background(), slog.LevelDebug) {
			e.logger.Debug("execute", "stmt", s.String())
		}
		if err := e.Execute(s, scope); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate computes the value of x in env.
func (e *Evaluator) Evaluate(x expr.Expr, env *Environment) (value.Value, error) {
	switch x := x.(type) {
	case expr.Literal:
		if x.Value == nil {
			return value.Nil{}, nil
		}
		return x.Value, nil

	case expr.Group:
		return e.Evaluate(x.Inner, env)

	case expr.Variable:
		v, err := env.Get(x.Name.Lexeme)
		if err != nil {
			return nil, undefined(x.Name, err)
		}
		return v, nil

	case expr.Assign:
		v, err := e.Evaluate(x.Value, env)
		if err != nil {
			return nil, err
		}
		if err := env.Assign(x.Name.Lexeme, v); err != nil {
			return nil, undefined(x.Name, err)
		}
		return v, nil

	case expr.Unary:
		operand, err := e.Evaluate(x.Operand, env)
		if err != nil {
			return nil, err
		}
		return unary(x.Op, operand)

	case expr.Binary:
		left, err := e.Evaluate(x.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := e.Evaluate(x.Right, env)
		if err != nil {
			return nil, err
		}
		return binary(x.Op, left, right)
	}
	return nil, fmt.Errorf("unknown expression type %T", x)
}

func unary(op token.Item, operand value.Value) (value.Value, error) {
	switch op.Token {
	case token.MINUS:
		n, ok := operand.(value.Number)
		if !ok {
			return nil, typeError(op, "Operand must be a number.")
		}
		return -n, nil
	case token.BANG:
		b, ok := operand.(value.Boolean)
		if !ok {
			return nil, typeError(op, "Operand must be a boolean.")
		}
		return !b, nil
	}
	return nil, fmt.Errorf("unknown unary operator %s", op.Lexeme)
}

func binary(op token.Item, left, right value.Value) (value.Value, error) {
	switch op.Token {
	case token.EQUAL_EQUAL:
		return value.Boolean(value.Equal(left, right)), nil
	case token.BANG_EQUAL:
		return value.Boolean(!value.Equal(left, right)), nil
	case token.PLUS:
		if l, ok := left.(value.Text); ok {
			if r, ok := right.(value.Text); ok {
				return l + r, nil
			}
		}
		l, lok := left.(value.Number)
		r, rok := right.(value.Number)
		if !lok || !rok {
			return nil, typeError(op, "Operands must be two numbers or two strings.")
		}
		return l + r, nil
	}

	l, lok := left.(value.Number)
	r, rok := right.(value.Number)
	if !lok || !rok {
		return nil, typeError(op, "Operands must be numbers.")
	}
	switch op.Token {
	case token.MINUS:
		return l - r, nil
	case token.STAR:
		return l * r, nil
	case token.SLASH:
		return l / r, nil
	case token.GREATER:
		return value.Boolean(l > r), nil
	case token.GREATER_EQUAL:
		return value.Boolean(l >= r), nil
	case token.LESS:
		return value.Boolean(l < r), nil
	case token.LESS_EQUAL:
		return value.Boolean(l <= r), nil
	}
	return nil, fmt.Errorf("unknown binary operator %s", op.Lexeme)
}

func typeError(op token.Item, msg string) *RuntimeError {
	return &RuntimeError{Kind: TypeError, Line: op.Line, Lexeme: op.Lexeme, Message: msg}
}

func undefined(name token.Item, err error) *RuntimeError {
	return &RuntimeError{
		Kind:    UndefinedVariable,
		Line:    name.Line,
		Lexeme:  name.Lexeme,
		Message: fmt.Sprintf("Undefined variable '%s'.", name.Lexeme),
		Err:     err,
	}
}
