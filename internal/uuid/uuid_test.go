// Package uuid tests for identifier generation.
package uuid

import (
	"regexp"
	"testing"
)

var v4Form = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// TestNew_Format verifies generated identifiers are valid v4 UUIDs.
func TestNew_Format(t *testing.T) {
	id := New()
	if !v4Form.MatchString(id) {
		t.Errorf("New() = %q, not a valid UUID v4", id)
	}
}

// TestNew_Unique verifies successive identifiers differ.
func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New()
		if seen[id] {
			t.Fatalf("duplicate identifier generated: %s", id)
		}
		seen[id] = true
	}
}
