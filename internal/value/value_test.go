package value

import (
	"math"
	"testing"
)

func TestNumberString(t *testing.T) {
	tests := []struct {
		n    float64
		want string
	}{
		{7, "7"},
		{-3, "-3"},
		{2.5, "2.5"},
		{0.1 + 0.2, "0.30000000000000004"},
		{1e21, "1000000000000000000000"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		if got := Number(tt.n).String(); got != tt.want {
			t.Errorf("Number(%v).String() = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b Value
		want bool
	}{
		{Number(1), Number(1), true},
		{Number(1), Number(2), false},
		{Text("a"), Text("a"), true},
		{Text("1"), Number(1), false},
		{Boolean(false), Nil{}, false},
		{Nil{}, Nil{}, true},
		{Boolean(true), Boolean(true), true},
		{Number(math.NaN()), Number(math.NaN()), false},
	}
	for _, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	for v, want := range map[Value]string{
		Nil{}:         "nil",
		Number(0):     "number",
		Text(""):      "string",
		Boolean(true): "boolean",
	} {
		if got := v.Kind().String(); got != want {
			t.Errorf("%T: expected %s, got %s", v, want, got)
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	for _, v := range []Value{Number(0.1), Number(-2e300), Text("multi\nline"), Boolean(false), Nil{}} {
		kind, text := Encode(v)
		got, err := Decode(kind, text)
		if err != nil {
			t.Fatalf("Decode(%q, %q): %v", kind, text, err)
		}
		if !Equal(got, v) {
			t.Errorf("round trip of %v gave %v", v, got)
		}
	}

	if _, err := Decode("number", "abc"); err == nil {
		t.Error("expected error decoding a bad number")
	}
	if _, err := Decode("function", ""); err == nil {
		t.Error("expected error for unknown kind")
	}
}
