package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fittrack/fittrack/internal/ctxkeys"
	"github.com/fittrack/fittrack/internal/nutritionix"
)

// FoodSearcher looks up nutrition facts for a free-text query.
type FoodSearcher interface {
	Search(ctx context.Context, query string) (json.RawMessage, error)
}

type SearchHandler struct {
	searcher FoodSearcher
}

func NewSearchHandler(searcher FoodSearcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// Search proxies the query and returns the upstream foods array unchanged.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	foods, err := h.searcher.Search(r.Context(), req.Query)
	if err != nil {
		if errors.Is(err, nutritionix.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, "Query is required")
			return
		}
		slog.Error("nutrition search failed", "error", err, "user_id", ctxkeys.UserID(r.Context()))
		writeError(w, http.StatusInternalServerError, "Failed to search nutrition data")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(foods)
}
