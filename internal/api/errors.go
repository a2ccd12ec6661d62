package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/theLastOfCats/animewatcher-server/internal/app"
	"github.com/theLastOfCats/animewatcher-server/internal/auth"
	"github.com/theLastOfCats/animewatcher-server/internal/catalog"
	"github.com/theLastOfCats/animewatcher-server/internal/library"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSONError writes a JSON error response
func JSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// writeError maps service errors to statuses. Anything unrecognized is a
// storage failure and is logged.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrValidation),
		errors.Is(err, auth.ErrPasswordMismatch),
		errors.Is(err, library.ErrEmptyComment),
		errors.Is(err, catalog.ErrUnknownProvider),
		errors.Is(err, catalog.ErrUnknownSection):
		JSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, app.ErrSignedOut),
		errors.Is(err, library.ErrUserRequired):
		JSONError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, auth.ErrDuplicateEmail):
		JSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, auth.ErrUserNotFound):
		JSONError(w, err.Error(), http.StatusNotFound)
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		JSONError(w, "Storage error", http.StatusInternalServerError)
	}
}
