package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mzhen/unisphere/backend/internal/models"
	"github.com/mzhen/unisphere/backend/internal/preview"
	"github.com/mzhen/unisphere/backend/internal/store"
)

// excerptLength is the rendered preview length for note listings.
const excerptLength = 120

// NoteHandler handles note operations.
type NoteHandler struct {
	store *store.Store
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(st *store.Store) *NoteHandler {
	return &NoteHandler{store: st}
}

// noteListItem is a note plus its rendered markdown excerpt.
type noteListItem struct {
	models.Note
	Excerpt string `json:"excerpt"`
}

// ListNotes handles GET /api/courses/{id}/notes
// Notes are returned in stored order with a plain-text excerpt.
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	notes := h.store.NotesForCourse(r.PathValue("id"))

	items := make([]noteListItem, 0, len(notes))
	for _, n := range notes {
		items = append(items, noteListItem{
			Note:    n,
			Excerpt: preview.Excerpt(n.Content, excerptLength),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notes": items,
		"total": len(items),
	})
}

// CreateNote handles POST /api/notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var cmd models.AddNoteCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	note, err := h.store.AddNote(cmd)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PUT /api/notes/{id}
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var cmd models.UpdateNoteCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	cmd.ID = r.PathValue("id")

	note, err := h.store.UpdateNote(cmd)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/{id}?confirm=true
// Deletion is irreversible, so the request must carry an explicit
// confirmation.
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.URL.Query().Get("confirm") != "true" {
		http.Error(w, "confirm=true is required to delete a note", http.StatusConflict)
		return
	}

	if err := h.store.DeleteNote(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MoveNote handles POST /api/notes/move
// The index addresses the note's position within its course; a move past
// either end is accepted and changes nothing.
func (h *NoteHandler) MoveNote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var cmd models.MoveNoteCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.store.MoveNote(cmd); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notes": h.store.NotesForCourse(cmd.CourseID),
	})
}
