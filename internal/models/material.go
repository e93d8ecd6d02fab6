package models

import "time"

// MaterialType classifies a material resource. The enumeration is closed.
type MaterialType string

const (
	MaterialLink      MaterialType = "Link"
	MaterialFile      MaterialType = "File"
	MaterialReference MaterialType = "Reference"
)

// IsValid reports whether t is one of the known material types.
func (t MaterialType) IsValid() bool {
	switch t {
	case MaterialLink, MaterialFile, MaterialReference:
		return true
	}
	return false
}

// Material represents an external resource reference attached to a course
// and optionally to one note. An empty NoteID means the material is
// course-level only.
type Material struct {
	ID       string       `json:"id"`
	CourseID string       `json:"courseId"`
	NoteID   string       `json:"noteId,omitempty"`
	Name     string       `json:"name"`
	URL      string       `json:"url"`
	Type     MaterialType `json:"type"`
	AddedAt  int64        `json:"addedAt"` // milliseconds since epoch
}

// AddedAtTime returns AddedAt as time.Time.
func (m *Material) AddedAtTime() time.Time {
	return time.UnixMilli(m.AddedAt)
}

// Validate checks required fields and the type enumeration.
func (m *Material) Validate() error {
	if m.ID == "" {
		return errRequired("id")
	}
	if m.CourseID == "" {
		return errRequired("courseId")
	}
	if m.Name == "" {
		return errRequired("name")
	}
	if m.URL == "" {
		return errRequired("url")
	}
	if !m.Type.IsValid() {
		return errInvalidType(string(m.Type))
	}
	return nil
}
