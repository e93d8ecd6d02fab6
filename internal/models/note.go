package models

import "time"

// Note represents a free-text entry belonging to exactly one course.
// The position of a note relative to other notes of the same course is
// user-controlled and preserved across persistence round-trips.
type Note struct {
	ID        string `json:"id"`
	CourseID  string `json:"courseId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	UpdatedAt int64  `json:"updatedAt"` // milliseconds since epoch
}

// UpdatedAtTime returns UpdatedAt as time.Time.
func (n *Note) UpdatedAtTime() time.Time {
	return time.UnixMilli(n.UpdatedAt)
}

// Touch refreshes the UpdatedAt timestamp.
func (n *Note) Touch() {
	n.UpdatedAt = time.Now().UnixMilli()
}

// Validate checks required fields.
func (n *Note) Validate() error {
	if n.ID == "" {
		return errRequired("id")
	}
	if n.CourseID == "" {
		return errRequired("courseId")
	}
	if n.Title == "" {
		return errRequired("title")
	}
	return nil
}
