package parser

import "fmt"

// ErrorKind classifies a SyntaxError.
type ErrorKind int

const (
	// UnexpectedToken means no grammar rule accepts the token.
	UnexpectedToken ErrorKind = iota
	// ExpectedToken means a specific token was required (see SyntaxError.Expected).
	ExpectedToken
	// InvalidAssignmentTarget means the left side of '=' is not a variable.
	InvalidAssignmentTarget
	// IllegalToken means the scanner could not classify the input.
	IllegalToken
)

// String returns the string representation of an ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "UnexpectedToken"
	case ExpectedToken:
		return "ExpectedToken"
	case InvalidAssignmentTarget:
		return "InvalidAssignmentTarget"
	case IllegalToken:
		return "IllegalToken"
	default:
		return "UNKNOWN"
	}
}

// SyntaxError is a parse-time fault located at one token.
type SyntaxError struct {
	Kind     ErrorKind
	Line     int
	Lexeme   string
	AtEnd    bool   // the offending token is end of input
	Expected string // for ExpectedToken: the required token, e.g. ")"
	Message  string
}

func (e *SyntaxError) Error() string {
	if e.AtEnd {
		return fmt.Sprintf("[line %d] Error at end: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("[line %d] Error at '%s': %s", e.Line, e.Lexeme, e.Message)
}
