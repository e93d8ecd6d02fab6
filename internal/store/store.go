// Package store holds the in-memory entity collections and owns all
// mutation logic and invariant enforcement.
package store

import (
	"sync"
	"time"

	apperrors "github.com/mzhen/unisphere/backend/internal/errors"
	"github.com/mzhen/unisphere/backend/internal/models"
	"github.com/mzhen/unisphere/backend/internal/uuid"
)

// Persister is the durable store the entity collections are mirrored to.
// Every successful mutation triggers a synchronous full save.
type Persister interface {
	Load() ([]models.Course, []models.Note, []models.Material, error)
	Save(courses []models.Course, notes []models.Note, materials []models.Material) error
}

// Change event types delivered to the change callback.
const (
	EventCourseCreated   = "course.created"
	EventCourseDeleted   = "course.deleted"
	EventNoteCreated     = "note.created"
	EventNoteUpdated     = "note.updated"
	EventNoteDeleted     = "note.deleted"
	EventNoteMoved       = "note.moved"
	EventMaterialCreated = "material.created"
	EventMaterialDeleted = "material.deleted"
)

// ChangeFunc receives a change notification after a mutation has been
// applied and persisted.
type ChangeFunc func(event string, data map[string]interface{})

// Store is the single owner of the course, note and material collections.
// It is passed by reference to whatever layer issues operations; there is
// no ambient instance.
type Store struct {
	mu        sync.Mutex
	courses   []models.Course
	notes     []models.Note
	materials []models.Material

	persister Persister
	onChange  ChangeFunc
}

// Open loads the persisted collections and returns a ready store.
func Open(p Persister) (*Store, error) {
	courses, notes, materials, err := p.Load()
	if err != nil {
		return nil, err
	}
	return &Store{
		courses:   courses,
		notes:     notes,
		materials: materials,
		persister: p,
	}, nil
}

// SetOnChange registers the change callback. Pass nil to disable.
func (s *Store) SetOnChange(fn ChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// notify invokes the change callback outside the critical section.
func (s *Store) notify(event string, data map[string]interface{}) {
	if s.onChange != nil {
		s.onChange(event, data)
	}
}

// =====================================================
// Course Operations
// =====================================================

// AddCourse creates a course and appends it to the end of the collection.
// The color is the process-wide theme constant.
func (s *Store) AddCourse(cmd models.AddCourseCommand) (*models.Course, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	course := models.Course{
		ID:          uuid.New(),
		Name:        cmd.Name,
		Description: cmd.Description,
		Color:       models.DefaultCourseColor,
		CreatedAt:   time.Now().UnixMilli(),
	}

	next := append(copyCourses(s.courses), course)
	if err := s.persister.Save(next, s.notes, s.materials); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.courses = next
	s.mu.Unlock()

	s.notify(EventCourseCreated, map[string]interface{}{"course_id": course.ID})
	return &course, nil
}

// DeleteCourse removes the course and cascades to every note and material
// referencing it. The cascade is irreversible.
func (s *Store) DeleteCourse(id string) error {
	s.mu.Lock()
	if findCourse(s.courses, id) < 0 {
		s.mu.Unlock()
		return apperrors.New(apperrors.ErrNotFound, "course not found: "+id)
	}

	nextCourses := make([]models.Course, 0, len(s.courses)-1)
	for _, c := range s.courses {
		if c.ID != id {
			nextCourses = append(nextCourses, c)
		}
	}
	nextNotes := make([]models.Note, 0, len(s.notes))
	for _, n := range s.notes {
		if n.CourseID != id {
			nextNotes = append(nextNotes, n)
		}
	}
	nextMaterials := make([]models.Material, 0, len(s.materials))
	for _, m := range s.materials {
		if m.CourseID != id {
			nextMaterials = append(nextMaterials, m)
		}
	}

	if err := s.persister.Save(nextCourses, nextNotes, nextMaterials); err != nil {
		s.mu.Unlock()
		return err
	}
	s.courses = nextCourses
	s.notes = nextNotes
	s.materials = nextMaterials
	s.mu.Unlock()

	s.notify(EventCourseDeleted, map[string]interface{}{"course_id": id})
	return nil
}

// =====================================================
// Note Operations
// =====================================================

// AddNote creates a note attached to an existing course and appends it to
// the end of the global note sequence.
func (s *Store) AddNote(cmd models.AddNoteCommand) (*models.Note, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if findCourse(s.courses, cmd.CourseID) < 0 {
		s.mu.Unlock()
		return nil, apperrors.New(apperrors.ErrInvalidReference, "course not found: "+cmd.CourseID)
	}

	note := models.Note{
		ID:        uuid.New(),
		CourseID:  cmd.CourseID,
		Title:     cmd.Title,
		Content:   cmd.Content,
		UpdatedAt: time.Now().UnixMilli(),
	}

	next := append(copyNotes(s.notes), note)
	if err := s.persister.Save(s.courses, next, s.materials); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.notes = next
	s.mu.Unlock()

	s.notify(EventNoteCreated, map[string]interface{}{"note_id": note.ID, "course_id": note.CourseID})
	return &note, nil
}

// UpdateNote replaces a note's title and content in place and refreshes
// its UpdatedAt timestamp. The note's position in the sequence is kept.
func (s *Store) UpdateNote(cmd models.UpdateNoteCommand) (*models.Note, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	idx := findNote(s.notes, cmd.ID)
	if idx < 0 {
		s.mu.Unlock()
		return nil, apperrors.New(apperrors.ErrNotFound, "note not found: "+cmd.ID)
	}

	next := copyNotes(s.notes)
	next[idx].Title = cmd.Title
	next[idx].Content = cmd.Content
	next[idx].Touch()
	updated := next[idx]

	if err := s.persister.Save(s.courses, next, s.materials); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.notes = next
	s.mu.Unlock()

	s.notify(EventNoteUpdated, map[string]interface{}{"note_id": updated.ID, "course_id": updated.CourseID})
	return &updated, nil
}

// DeleteNote removes a note from the sequence. Materials referencing it via
// NoteID are left untouched.
func (s *Store) DeleteNote(id string) error {
	s.mu.Lock()
	idx := findNote(s.notes, id)
	if idx < 0 {
		s.mu.Unlock()
		return apperrors.New(apperrors.ErrNotFound, "note not found: "+id)
	}
	courseID := s.notes[idx].CourseID

	next := make([]models.Note, 0, len(s.notes)-1)
	next = append(next, s.notes[:idx]...)
	next = append(next, s.notes[idx+1:]...)

	if err := s.persister.Save(s.courses, next, s.materials); err != nil {
		s.mu.Unlock()
		return err
	}
	s.notes = next
	s.mu.Unlock()

	s.notify(EventNoteDeleted, map[string]interface{}{"note_id": id, "course_id": courseID})
	return nil
}

// MoveNote swaps a note with its neighbor within the same course. Moving
// the first note up or the last note down is a no-op. Notes of other
// courses interleaved in the global sequence are never disturbed.
func (s *Store) MoveNote(cmd models.MoveNoteCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	i, j, ok, err := reorderSwap(s.notes, cmd.CourseID, cmd.Index, cmd.Direction)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if !ok {
		s.mu.Unlock()
		return nil
	}

	next := copyNotes(s.notes)
	next[i], next[j] = next[j], next[i]

	if err := s.persister.Save(s.courses, next, s.materials); err != nil {
		s.mu.Unlock()
		return err
	}
	s.notes = next
	movedID := next[j].ID
	s.mu.Unlock()

	s.notify(EventNoteMoved, map[string]interface{}{
		"note_id":   movedID,
		"course_id": cmd.CourseID,
		"direction": string(cmd.Direction),
	})
	return nil
}

// =====================================================
// Material Operations
// =====================================================

// AddMaterial creates a material attached to an existing course, and
// optionally to an existing note, appending it to the end of the material
// sequence.
func (s *Store) AddMaterial(cmd models.AddMaterialCommand) (*models.Material, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if findCourse(s.courses, cmd.CourseID) < 0 {
		s.mu.Unlock()
		return nil, apperrors.New(apperrors.ErrInvalidReference, "course not found: "+cmd.CourseID)
	}
	if cmd.NoteID != "" && findNote(s.notes, cmd.NoteID) < 0 {
		s.mu.Unlock()
		return nil, apperrors.New(apperrors.ErrInvalidReference, "note not found: "+cmd.NoteID)
	}

	material := models.Material{
		ID:       uuid.New(),
		CourseID: cmd.CourseID,
		NoteID:   cmd.NoteID,
		Name:     cmd.Name,
		URL:      cmd.URL,
		Type:     cmd.Type,
		AddedAt:  time.Now().UnixMilli(),
	}

	next := append(copyMaterials(s.materials), material)
	if err := s.persister.Save(s.courses, s.notes, next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.materials = next
	s.mu.Unlock()

	s.notify(EventMaterialCreated, map[string]interface{}{"material_id": material.ID, "course_id": material.CourseID})
	return &material, nil
}

// DeleteMaterial removes a material by id. Materials have no dependents,
// so there is no cascade.
func (s *Store) DeleteMaterial(id string) error {
	s.mu.Lock()
	idx := -1
	for i := range s.materials {
		if s.materials[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return apperrors.New(apperrors.ErrNotFound, "material not found: "+id)
	}

	next := make([]models.Material, 0, len(s.materials)-1)
	next = append(next, s.materials[:idx]...)
	next = append(next, s.materials[idx+1:]...)

	if err := s.persister.Save(s.courses, s.notes, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.materials = next
	s.mu.Unlock()

	s.notify(EventMaterialDeleted, map[string]interface{}{"material_id": id})
	return nil
}

// =====================================================
// Snapshots
// =====================================================

// Courses returns a copy of the course collection in insertion order.
func (s *Store) Courses() []models.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCourses(s.courses)
}

// Notes returns a copy of the global note sequence.
func (s *Store) Notes() []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyNotes(s.notes)
}

// Materials returns a copy of the material collection.
func (s *Store) Materials() []models.Material {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMaterials(s.materials)
}

// Replace swaps in entirely new collections, used by backup restore. The
// collections are persisted before being adopted.
func (s *Store) Replace(courses []models.Course, notes []models.Note, materials []models.Material) error {
	s.mu.Lock()
	if err := s.persister.Save(courses, notes, materials); err != nil {
		s.mu.Unlock()
		return err
	}
	s.courses = copyCourses(courses)
	s.notes = copyNotes(notes)
	s.materials = copyMaterials(materials)
	s.mu.Unlock()
	return nil
}

// =====================================================
// Helpers
// =====================================================

func findCourse(courses []models.Course, id string) int {
	for i := range courses {
		if courses[i].ID == id {
			return i
		}
	}
	return -1
}

func findNote(notes []models.Note, id string) int {
	for i := range notes {
		if notes[i].ID == id {
			return i
		}
	}
	return -1
}

func copyCourses(in []models.Course) []models.Course {
	out := make([]models.Course, len(in))
	copy(out, in)
	return out
}

func copyNotes(in []models.Note) []models.Note {
	out := make([]models.Note, len(in))
	copy(out, in)
	return out
}

func copyMaterials(in []models.Material) []models.Material {
	out := make([]models.Material, len(in))
	copy(out, in)
	return out
}
