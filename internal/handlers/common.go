package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"ragonquest/internal/contextutil"
	"ragonquest/internal/service"
	"ragonquest/internal/storage"
)

// ErrorResponse represents an error response.
//
// swagger:model ErrorResponse
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v as the JSON body of a response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an ErrorResponse with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// handleServiceError maps domain errors to HTTP status codes and responses.
// Configuration errors carry their own message; gateway and server errors
// hide the cause behind a generic one.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	ctx := r.Context()
	contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "request failed", "error", err)

	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, "Validation error: "+validationErr.Error())
		return
	}

	switch status := service.HTTPStatus(err); status {
	case http.StatusBadRequest, http.StatusNotFound:
		writeError(w, status, err.Error())
	case http.StatusBadGateway:
		writeError(w, status, "External service error")
	default:
		writeError(w, status, defaultMsg)
	}
}

// fetchCorpus loads the corpus named by the corpusID URL parameter. On
// failure it writes the response and returns nil.
func fetchCorpus(w http.ResponseWriter, r *http.Request, repo storage.CorpusStore) *storage.CorpusRecord {
	ctx := r.Context()
	id := chi.URLParam(r, "corpusID")

	corpus, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Corpus not found")
		} else {
			contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to load corpus", "corpus_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to load corpus")
		}
		return nil
	}
	return corpus
}

// queryInt parses an integer query parameter, using def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &service.ValidationError{Field: name, Message: "must be an integer"}
	}
	return v, nil
}

// formatTime renders timestamps for responses.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
