package selection

import (
	"testing"
)

func TestToggle(t *testing.T) {
	s := New()

	if !s.Toggle("a") {
		t.Error("first toggle should select")
	}
	if !s.Contains("a") {
		t.Error("expected a to be selected")
	}
	if s.Toggle("a") {
		t.Error("second toggle should deselect")
	}
	if s.Len() != 0 {
		t.Errorf("expected empty selection, got %d", s.Len())
	}
}

func TestSetSemantics(t *testing.T) {
	s := New()
	s.Select("b")
	s.Select("a")
	s.Select("b")

	got := s.IDs()
	want := []string{"a", "b"}
	if len(got) != len(want) {
		t.Fatalf("IDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("IDs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReplaceAndClear(t *testing.T) {
	s := New()
	s.Select("x")
	s.Replace("a", "b")

	if s.Contains("x") {
		t.Error("Replace should drop previous ids")
	}
	if s.Len() != 2 {
		t.Errorf("expected 2 ids, got %d", s.Len())
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("expected empty selection after Clear, got %d", s.Len())
	}
}

func TestRetain(t *testing.T) {
	s := New()
	s.Replace("keep", "drop")
	s.Retain(func(id string) bool { return id == "keep" })

	if !s.Contains("keep") || s.Contains("drop") {
		t.Errorf("Retain left %v", s.IDs())
	}
}
