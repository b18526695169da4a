package eval

import "fmt"

// ErrorKind classifies a RuntimeError.
type ErrorKind int

const (
	// TypeError means an operator received operands of the wrong kind.
	TypeError ErrorKind = iota
	// UndefinedVariable means no scope in the chain binds the name.
	UndefinedVariable
)

// String returns the string representation of an ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case TypeError:
		return "TypeError"
	case UndefinedVariable:
		return "UndefinedVariable"
	default:
		return "UNKNOWN"
	}
}

// RuntimeError aborts the statement being executed.
type RuntimeError struct {
	Kind    ErrorKind
	Line    int
	Lexeme  string // operator or name the error is attributed to
	Message string
	Err     error // underlying cause, if any
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[line %d] %s", e.Line, e.Message)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}
