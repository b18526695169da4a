// Package value defines the runtime values produced by the lox evaluator.
package value

import (
	"fmt"
	"math"
	"strconv"
)

// Kind tags a Value.
type Kind int

const (
	NilKind Kind = iota
	NumberKind
	TextKind
	BooleanKind
)

// String returns the type name shown in diagnostics.
func (k Kind) String() string {
	switch k {
	case NilKind:
		return "nil"
	case NumberKind:
		return "number"
	case TextKind:
		return "string"
	case BooleanKind:
		return "boolean"
	}
	return "unknown"
}

// Value is the interface all runtime values implement. The set of
// implementations is closed.
type Value interface {
	Kind() Kind
	// String returns the rendering used by print.
	String() string
	value()
}

// Number is a double-precision number.
type Number float64

// Text is a string value.
type Text string

// Boolean is true or false.
type Boolean bool

// Nil is the absence of a value.
type Nil struct{}

func (Number) Kind() Kind  { return NumberKind }
func (Text) Kind() Kind    { return TextKind }
func (Boolean) Kind() Kind { return BooleanKind }
func (Nil) Kind() Kind     { return NilKind }

func (Number) value()  {}
func (Text) value()    {}
func (Boolean) value() {}
func (Nil) value()     {}

func (n Number) String() string {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (t Text) String() string { return string(t) }

func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (Nil) String() string { return "nil" }

// Equal reports value equality. Values of different kinds are never equal.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case Number:
		return a == b.(Number)
	case Text:
		return a == b.(Text)
	case Boolean:
		return a == b.(Boolean)
	case Nil:
		return true
	}
	return false
}

// Encode returns a (kind, text) pair suitable for storage.
func Encode(v Value) (kind, text string) {
	switch v := v.(type) {
	case Number:
		return NumberKind.String(), strconv.FormatFloat(float64(v), 'g', -1, 64)
	case Text:
		return TextKind.String(), string(v)
	case Boolean:
		return BooleanKind.String(), strconv.FormatBool(bool(v))
	}
	return NilKind.String(), ""
}

// Decode reverses Encode.
func Decode(kind, text string) (Value, error) {
	switch kind {
	case NilKind.String():
		return Nil{}, nil
	case NumberKind.String():
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("decode number %q: %w", text, err)
		}
		return Number(f), nil
	case TextKind.String():
		return Text(text), nil
	case BooleanKind.String():
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("decode boolean %q: %w", text, err)
		}
		return Boolean(b), nil
	}
	return nil, fmt.Errorf("unknown value kind %q", kind)
}
