package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mzhen/unisphere/backend/internal/models"
	"github.com/mzhen/unisphere/backend/internal/store"
)

// CourseHandler handles course operations.
type CourseHandler struct {
	store *store.Store
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(st *store.Store) *CourseHandler {
	return &CourseHandler{store: st}
}

// ListCourses handles GET /api/courses
// The optional q parameter filters by name or description substring.
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	courses := h.store.FilteredCourses(r.URL.Query().Get("q"))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"courses": courses,
		"total":   len(courses),
	})
}

// CreateCourse handles POST /api/courses
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var cmd models.AddCourseCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	course, err := h.store.AddCourse(cmd)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, course)
}

// GetCourse handles GET /api/courses/{id}
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	course := h.store.SelectedCourse(r.PathValue("id"))
	if course == nil {
		http.Error(w, "Course not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, course)
}

// DeleteCourse handles DELETE /api/courses/{id}?confirm=true
// Deleting a course also removes its notes and materials; the cascade is
// irreversible, so the request must carry an explicit confirmation.
func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.URL.Query().Get("confirm") != "true" {
		http.Error(w, "confirm=true is required to delete a course", http.StatusConflict)
		return
	}

	if err := h.store.DeleteCourse(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
