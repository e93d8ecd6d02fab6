package store

import (
	"strings"

	"github.com/mzhen/unisphere/backend/internal/models"
)

// Derived views. Each is a read-only, deterministic projection of the
// current collections plus transient filter/selection inputs; none of
// them mutates the store.

// FilteredCourses returns the courses whose name or description contains
// query, case-insensitively. A blank or whitespace-only query returns the
// full collection. Insertion order is preserved; filtering never re-sorts.
func (s *Store) FilteredCourses(query string) []models.Course {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.TrimSpace(query)
	if query == "" {
		return copyCourses(s.courses)
	}

	q := strings.ToLower(query)
	var out []models.Course
	for _, c := range s.courses {
		if strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.Description), q) {
			out = append(out, c)
		}
	}
	return out
}

// NotesForCourse returns the notes belonging to courseID in their current
// store order. This order is exactly what MoveNote manipulates.
func (s *Store) NotesForCourse(courseID string) []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Note
	for _, n := range s.notes {
		if n.CourseID == courseID {
			out = append(out, n)
		}
	}
	return out
}

// MaterialsForNote returns the materials attached to one note. Materials
// without a note reference are never included.
func (s *Store) MaterialsForNote(noteID string) []models.Material {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Material
	for _, m := range s.materials {
		if m.NoteID != "" && m.NoteID == noteID {
			out = append(out, m)
		}
	}
	return out
}

// MaterialsForCourse returns every material belonging to the course,
// including course-level materials not tied to a specific note.
func (s *Store) MaterialsForCourse(courseID string) []models.Material {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Material
	for _, m := range s.materials {
		if m.CourseID == courseID {
			out = append(out, m)
		}
	}
	return out
}

// SelectedCourse looks up a course by id. It returns nil when id is empty
// or does not match any course, e.g. after the course was deleted while it
// was selected; the view layer treats that as "no detail to show".
func (s *Store) SelectedCourse(id string) *models.Course {
	if id == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := findCourse(s.courses, id)
	if idx < 0 {
		return nil
	}
	c := s.courses[idx]
	return &c
}
