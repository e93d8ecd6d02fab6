package store

import (
	apperrors "github.com/mzhen/unisphere/backend/internal/errors"
	"github.com/mzhen/unisphere/backend/internal/models"
)

// courseNoteIndices returns the global indices of the notes belonging to
// courseID, in their current sequence order.
func courseNoteIndices(notes []models.Note, courseID string) []int {
	var indices []int
	for i := range notes {
		if notes[i].CourseID == courseID {
			indices = append(indices, i)
		}
	}
	return indices
}

// reorderSwap computes the two global positions to swap when moving the
// note at course-relative position index one step in direction. ok is
// false when the move falls off either end of the course's subsequence
// (first note up, last note down), which callers treat as a no-op.
//
// The computation is pure so it can be tested independently of the
// mutation that applies the swap.
func reorderSwap(notes []models.Note, courseID string, index int, direction models.MoveDirection) (i, j int, ok bool, err error) {
	indices := courseNoteIndices(notes, courseID)
	if index >= len(indices) {
		return 0, 0, false, apperrors.New(apperrors.ErrNotFound, "no note at that position")
	}

	neighbor := index - 1
	if direction == models.MoveDown {
		neighbor = index + 1
	}
	if neighbor < 0 || neighbor >= len(indices) {
		return 0, 0, false, nil
	}

	return indices[index], indices[neighbor], true, nil
}
