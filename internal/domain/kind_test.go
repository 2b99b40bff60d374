package domain

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestNewKind(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantErr   bool
		namespace string
		kindName  string
	}{
		{"qualified", "tool::fetch", false, "tool", "fetch"},
		{"unqualified", "fetch", false, "", "fetch"},
		{"with hyphen and digits", "agent::summarize-v2", false, "agent", "summarize-v2"},
		{"empty", "", true, "", ""},
		{"empty namespace", "::fetch", true, "", ""},
		{"empty name", "tool::", true, "", ""},
		{"two separators", "a::b::c", true, "", ""},
		{"uppercase", "Tool::Fetch", true, "", ""},
		{"single colon", "tool:fetch", true, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewKind(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewKind(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Namespace() != tt.namespace {
				t.Errorf("Namespace() = %q, want %q", got.Namespace(), tt.namespace)
			}
			if got.Name() != tt.kindName {
				t.Errorf("Name() = %q, want %q", got.Name(), tt.kindName)
			}
			if got.IsQualified() != (tt.namespace != "") {
				t.Errorf("IsQualified() = %v", got.IsQualified())
			}
		})
	}
}

// TestKind_SegmentsRoundTrip tests that joining valid segments always splits back
func TestKind_SegmentsRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ns := rapid.StringMatching(`[a-z][a-z0-9_-]{0,15}`).Draw(t, "namespace")
		name := rapid.StringMatching(`[a-z][a-z0-9_-]{0,15}`).Draw(t, "name")

		k, err := NewKind(ns + KindSeparator + name)
		if err != nil {
			t.Fatalf("valid kind should not produce error: %v", err)
		}
		if k.Namespace() != ns || k.Name() != name {
			t.Fatalf("split %q into (%q, %q)", k, k.Namespace(), k.Name())
		}
	})
}

func TestNewPortName(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"default input", "in", false},
		{"default output", "out", false},
		{"with underscore", "error_out", false},
		{"empty", "", true},
		{"uppercase", "Out", true},
		{"hyphen", "error-out", true},
		{"too long", strings.Repeat("p", 51), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPortName(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewPortName(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}
