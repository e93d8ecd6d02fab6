// Package handlers provides REST API handlers for the study organizer.
package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/mzhen/unisphere/backend/internal/errors"
)

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps an application error to an HTTP status.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.CodeOf(err) {
	case apperrors.ErrValidation:
		status = http.StatusBadRequest
	case apperrors.ErrNotFound:
		status = http.StatusNotFound
	case apperrors.ErrInvalidReference:
		status = http.StatusUnprocessableEntity
	case apperrors.ErrAINotConfigured:
		status = http.StatusPreconditionFailed
	}
	http.Error(w, err.Error(), status)
}
