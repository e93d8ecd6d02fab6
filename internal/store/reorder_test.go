// Package store tests for the pure reorder index computation.
package store

import (
	"testing"

	apperrors "github.com/mzhen/unisphere/backend/internal/errors"
	"github.com/mzhen/unisphere/backend/internal/models"
)

// interleaved builds a note sequence alternating between two courses:
// a0, b0, a1, b1, a2.
func interleaved() []models.Note {
	return []models.Note{
		{ID: "a0", CourseID: "A", Title: "a0"},
		{ID: "b0", CourseID: "B", Title: "b0"},
		{ID: "a1", CourseID: "A", Title: "a1"},
		{ID: "b1", CourseID: "B", Title: "b1"},
		{ID: "a2", CourseID: "A", Title: "a2"},
	}
}

// TestCourseNoteIndices verifies the ordered subsequence computation.
func TestCourseNoteIndices(t *testing.T) {
	notes := interleaved()

	gotA := courseNoteIndices(notes, "A")
	wantA := []int{0, 2, 4}
	if len(gotA) != len(wantA) {
		t.Fatalf("indices(A) = %v, want %v", gotA, wantA)
	}
	for i := range wantA {
		if gotA[i] != wantA[i] {
			t.Errorf("indices(A)[%d] = %d, want %d", i, gotA[i], wantA[i])
		}
	}

	if got := courseNoteIndices(notes, "C"); got != nil {
		t.Errorf("indices(C) = %v, want nil", got)
	}
}

// TestReorderSwap verifies swaps, boundary no-ops and range errors.
func TestReorderSwap(t *testing.T) {
	notes := interleaved()

	tests := []struct {
		name      string
		index     int
		direction models.MoveDirection
		wantI     int
		wantJ     int
		wantOK    bool
		wantErr   bool
	}{
		{"middle up", 1, models.MoveUp, 2, 0, true, false},
		{"middle down", 1, models.MoveDown, 2, 4, true, false},
		{"last up", 2, models.MoveUp, 4, 2, true, false},
		{"first up is no-op", 0, models.MoveUp, 0, 0, false, false},
		{"last down is no-op", 2, models.MoveDown, 0, 0, false, false},
		{"index out of range", 3, models.MoveUp, 0, 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, j, ok, err := reorderSwap(notes, "A", tt.index, tt.direction)
			if (err != nil) != tt.wantErr {
				t.Fatalf("reorderSwap() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !apperrors.Is(err, apperrors.ErrNotFound) {
					t.Errorf("error = %v, want NOT_FOUND", err)
				}
				return
			}
			if ok != tt.wantOK {
				t.Fatalf("reorderSwap() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (i != tt.wantI || j != tt.wantJ) {
				t.Errorf("reorderSwap() = (%d, %d), want (%d, %d)", i, j, tt.wantI, tt.wantJ)
			}
		})
	}
}

// TestReorderSwap_EmptyCourse verifies a course with no notes errors on any
// index.
func TestReorderSwap_EmptyCourse(t *testing.T) {
	_, _, _, err := reorderSwap(nil, "A", 0, models.MoveUp)
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("reorderSwap(empty) error = %v, want NOT_FOUND", err)
	}
}
