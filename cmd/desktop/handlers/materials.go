package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mzhen/unisphere/backend/internal/models"
	"github.com/mzhen/unisphere/backend/internal/store"
)

// MaterialHandler handles material operations.
type MaterialHandler struct {
	store *store.Store
}

// NewMaterialHandler creates a new MaterialHandler.
func NewMaterialHandler(st *store.Store) *MaterialHandler {
	return &MaterialHandler{store: st}
}

// ListCourseMaterials handles GET /api/courses/{id}/materials
func (h *MaterialHandler) ListCourseMaterials(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	materials := h.store.MaterialsForCourse(r.PathValue("id"))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"materials": materials,
		"total":     len(materials),
	})
}

// ListNoteMaterials handles GET /api/notes/{id}/materials
// Only materials attached to the note itself are returned, never
// course-level ones.
func (h *MaterialHandler) ListNoteMaterials(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	materials := h.store.MaterialsForNote(r.PathValue("id"))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"materials": materials,
		"total":     len(materials),
	})
}

// CreateMaterial handles POST /api/materials
func (h *MaterialHandler) CreateMaterial(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var cmd models.AddMaterialCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	material, err := h.store.AddMaterial(cmd)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, material)
}

// DeleteMaterial handles DELETE /api/materials/{id}
func (h *MaterialHandler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.store.DeleteMaterial(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
