package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mzhen/unisphere/backend/internal/backup"
)

// BackupHandler handles backup export/import operations.
type BackupHandler struct {
	backup *backup.Service
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(svc *backup.Service) *BackupHandler {
	return &BackupHandler{backup: svc}
}

// ImportRequest represents the import request body.
type ImportRequest struct {
	FilePath string `json:"file_path"`
}

// Export handles POST /api/backup/export
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := h.backup.Export()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Import handles POST /api/backup/import
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.FilePath == "" {
		http.Error(w, "file_path is required", http.StatusBadRequest)
		return
	}

	result, err := h.backup.Import(req.FilePath)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
