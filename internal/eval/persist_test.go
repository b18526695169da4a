package eval

import (
	"testing"

	"nickandperla.net/lox/internal/store"
	"nickandperla.net/lox/internal/value"
)

func TestPersistRestore(t *testing.T) {
	s := store.NewMemory()

	e := New(WithStore(s))
	e.Globals().Define("a", value.Number(1))
	e.Globals().Define("s", value.Text("x"))
	if err := e.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	fresh := New(WithStore(s))
	n, err := fresh.Restore()
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 restored bindings, got %d", n)
	}
	if got, _ := fresh.Globals().Get("s"); got == nil || got.String() != "x" {
		t.Errorf("expected s restored, got %v", got)
	}

	found, err := fresh.Forget("a")
	if err != nil {
		t.Fatalf("Forget: %v", err)
	}
	if !found {
		t.Error("expected a to be bound before Forget")
	}
	if got, _ := s.Get("a"); got != nil {
		t.Errorf("expected a removed from store, got %v", got)
	}
	if fresh.Globals().Has("a") {
		t.Error("expected a unbound after Forget")
	}
	if found, _ := fresh.Forget("a"); found {
		t.Error("second Forget should report nothing bound")
	}
}

func TestForgetNeverKeepsStore(t *testing.T) {
	s := store.NewMemory()
	s.Put("a", value.Number(1))

	e := New(WithStore(s), WithPersistMode(PersistNever))
	e.Globals().Define("a", value.Number(2))
	if found, err := e.Forget("a"); !found || err != nil {
		t.Fatalf("Forget: %v, %v", found, err)
	}
	if got, _ := s.Get("a"); got == nil {
		t.Error("NEVER mode must not touch the store")
	}
}

func TestPersistNeverIsNoOp(t *testing.T) {
	s := store.NewMemory()
	s.Put("old", value.Boolean(true))

	e := New(WithStore(s), WithPersistMode(PersistNever))
	e.Globals().Define("a", value.Number(1))
	if err := e.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if got, _ := s.Get("a"); got != nil {
		t.Errorf("NEVER mode wrote %v", got)
	}
	if n, _ := e.Restore(); n != 0 || e.Globals().Has("old") {
		t.Error("NEVER mode must not restore")
	}
}

func TestCommittedPersistsOnlyInAlwaysMode(t *testing.T) {
	for _, tt := range []struct {
		mode  PersistMode
		wrote bool
	}{
		{PersistOnDemand, false},
		{PersistAlways, true},
		{PersistNever, false},
	} {
		s := store.NewMemory()
		e := New(WithStore(s), WithPersistMode(tt.mode))
		e.Globals().Define("a", value.Number(1))
		if err := e.Committed(); err != nil {
			t.Fatalf("%s: Committed: %v", tt.mode, err)
		}
		got, _ := s.Get("a")
		if (got != nil) != tt.wrote {
			t.Errorf("%s: expected wrote=%v, got %v", tt.mode, tt.wrote, got)
		}
	}
}

func TestWithoutStore(t *testing.T) {
	e := New()
	if err := e.Persist(); err != nil {
		t.Errorf("Persist without store: %v", err)
	}
	if n, err := e.Restore(); n != 0 || err != nil {
		t.Errorf("Restore without store: %d, %v", n, err)
	}
	if err := e.RecordHistory("s", "print 1;"); err != nil {
		t.Errorf("RecordHistory without store: %v", err)
	}
	if h, err := e.History(0); h != nil || err != nil {
		t.Errorf("History without store: %v, %v", h, err)
	}
}

func TestParsePersistMode(t *testing.T) {
	tests := []struct {
		in   string
		mode PersistMode
		ok   bool
	}{
		{"on_demand", PersistOnDemand, true},
		{"ALWAYS", PersistAlways, true},
		{"never", PersistNever, true},
		{"", PersistOnDemand, false},
		{"sometimes", PersistOnDemand, false},
	}
	for _, tt := range tests {
		mode, ok := ParsePersistMode(tt.in)
		if mode != tt.mode || ok != tt.ok {
			t.Errorf("ParsePersistMode(%q) = %s, %v", tt.in, mode, ok)
		}
	}
	if PersistAlways.String() != "ALWAYS" {
		t.Errorf("unexpected String %q", PersistAlways.String())
	}
}
