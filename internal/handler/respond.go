package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/fittrack/fittrack/internal/ctxkeys"
	"github.com/fittrack/fittrack/internal/repository"
	"github.com/fittrack/fittrack/internal/validation"
)

const maxBodyBytes = 1 << 20

var errInvalidJSON = errors.New("invalid JSON body")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// decodeJSON reads a single JSON document of at most 1MB into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidJSON, err)
	}
	return decodeBytes(body, v)
}

func decodeBytes(body []byte, v any) error {
	err := json.Unmarshal(body, v)
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidJSON, err)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrWorkoutNotFound) ||
		errors.Is(err, repository.ErrNutritionEntryNotFound) ||
		errors.Is(err, repository.ErrProgressEntryNotFound) ||
		errors.Is(err, repository.ErrGoalNotFound) ||
		errors.Is(err, repository.ErrProfileNotFound) ||
		errors.Is(err, repository.ErrFileNotFound)
}

// writeServiceError maps validation failures to 400, owner-scoped misses to
// 404 with notFound, and everything else to a logged 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var verr *validation.Error
	switch {
	case errors.Is(err, errInvalidJSON):
		writeError(w, http.StatusBadRequest, "Invalid request body")
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message)
	case isNotFound(err):
		writeError(w, http.StatusNotFound, notFound)
	default:
		slog.Error("request failed",
			"error", err,
			"path", r.URL.Path,
			"user_id", ctxkeys.UserID(r.Context()),
			"request_id", ctxkeys.RequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}
