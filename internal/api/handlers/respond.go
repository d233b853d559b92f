package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lunoai/luno/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor maps the pipeline error taxonomy onto HTTP status codes.
// Client-side input problems get 4xx, index failures 500, and upstream
// model failures 502.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrEmptyQuestion):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrUnsupportedFormat),
		errors.Is(err, core.ErrEmptyDocument),
		errors.Is(err, core.ErrExtraction):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrAnswerGeneration):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
