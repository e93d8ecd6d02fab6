package handlers

import (
	"context"
	"net/http"

	"github.com/mzhen/unisphere/backend/internal/insight"
	"github.com/mzhen/unisphere/backend/internal/store"
)

// InsightHandler triggers AI summary/question generation for notes.
type InsightHandler struct {
	store   *store.Store
	insight *insight.Service
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(st *store.Store, svc *insight.Service) *InsightHandler {
	return &InsightHandler{store: st, insight: svc}
}

// Generate handles POST /api/notes/{id}/insights
// Both calls are launched concurrently; the state endpoint reflects their
// progress. Previously displayed results for the slots are cleared at once.
func (h *InsightHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	var content string
	found := false
	for _, n := range h.store.Notes() {
		if n.ID == id {
			content = n.Content
			found = true
			break
		}
	}
	if !found {
		http.Error(w, "Note not found", http.StatusNotFound)
		return
	}

	// The calls outlive this request.
	h.insight.Request(context.Background(), id, content)

	writeJSON(w, http.StatusAccepted, h.insight.CurrentState())
}

// GetState handles GET /api/insights
func (h *InsightHandler) GetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, h.insight.CurrentState())
}
