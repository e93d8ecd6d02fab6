package models

import (
	"strings"

	apperrors "github.com/mzhen/unisphere/backend/internal/errors"
)

// Commands are the typed inputs consumed by the store's mutation operations.
// They decouple the store from any UI event model; each command validates
// its own required fields before the store acts on it.

// MoveDirection is the direction of a note reorder.
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// AddCourseCommand creates a new course.
type AddCourseCommand struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate checks required fields.
func (c AddCourseCommand) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errRequired("name")
	}
	return nil
}

// AddNoteCommand creates a new note attached to a course.
type AddNoteCommand struct {
	CourseID string `json:"courseId"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

// Validate checks required fields.
func (c AddNoteCommand) Validate() error {
	if c.CourseID == "" {
		return errRequired("courseId")
	}
	if strings.TrimSpace(c.Title) == "" {
		return errRequired("title")
	}
	return nil
}

// UpdateNoteCommand edits a note's title and content in place.
type UpdateNoteCommand struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate checks required fields.
func (c UpdateNoteCommand) Validate() error {
	if c.ID == "" {
		return errRequired("id")
	}
	if strings.TrimSpace(c.Title) == "" {
		return errRequired("title")
	}
	return nil
}

// MoveNoteCommand reorders a note within its course. Index is the note's
// position among the notes of that course, not its global position.
type MoveNoteCommand struct {
	CourseID  string        `json:"courseId"`
	Index     int           `json:"index"`
	Direction MoveDirection `json:"direction"`
}

// Validate checks required fields.
func (c MoveNoteCommand) Validate() error {
	if c.CourseID == "" {
		return errRequired("courseId")
	}
	if c.Index < 0 {
		return apperrors.New(apperrors.ErrValidation, "index must not be negative")
	}
	if c.Direction != MoveUp && c.Direction != MoveDown {
		return apperrors.New(apperrors.ErrValidation, "direction must be 'up' or 'down'")
	}
	return nil
}

// AddMaterialCommand creates a new material attached to a course and
// optionally to one of its notes.
type AddMaterialCommand struct {
	CourseID string       `json:"courseId"`
	NoteID   string       `json:"noteId,omitempty"`
	Name     string       `json:"name"`
	URL      string       `json:"url"`
	Type     MaterialType `json:"type"`
}

// Validate checks required fields and the type enumeration.
func (c AddMaterialCommand) Validate() error {
	if c.CourseID == "" {
		return errRequired("courseId")
	}
	if strings.TrimSpace(c.Name) == "" {
		return errRequired("name")
	}
	if strings.TrimSpace(c.URL) == "" {
		return errRequired("url")
	}
	if !c.Type.IsValid() {
		return errInvalidType(string(c.Type))
	}
	return nil
}

// errRequired builds the validation error for a missing required field.
func errRequired(field string) error {
	return apperrors.New(apperrors.ErrValidation, field+" is required")
}

// errInvalidType builds the validation error for an unknown material type.
func errInvalidType(got string) error {
	return apperrors.New(apperrors.ErrValidation,
		"type must be one of Link, File, Reference; got '"+got+"'")
}
