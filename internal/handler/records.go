package handler

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/fittrack/fittrack/internal/ctxkeys"
	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/service"
)

// RecordService is the owner-scoped CRUD surface shared by workouts,
// nutrition entries, progress entries and goals.
type RecordService[T, In any] interface {
	Create(ctx context.Context, userID string, input In) (*T, error)
	List(ctx context.Context, userID string) ([]*T, error)
	Update(ctx context.Context, userID, id string, input In) error
	Delete(ctx context.Context, userID, id string) error
}

type RecordHandler[T, In any] struct {
	service RecordService[T, In]
	noun    string
}

func NewWorkoutHandler(s *service.WorkoutService) *RecordHandler[model.Workout, service.WorkoutInput] {
	return &RecordHandler[model.Workout, service.WorkoutInput]{service: s, noun: "Workout"}
}

func NewNutritionHandler(s *service.NutritionService) *RecordHandler[model.NutritionEntry, service.NutritionInput] {
	return &RecordHandler[model.NutritionEntry, service.NutritionInput]{service: s, noun: "Nutrition entry"}
}

func NewProgressHandler(s *service.ProgressService) *RecordHandler[model.ProgressEntry, service.ProgressInput] {
	return &RecordHandler[model.ProgressEntry, service.ProgressInput]{service: s, noun: "Progress entry"}
}

func NewGoalHandler(s *service.GoalService) *RecordHandler[model.Goal, service.GoalInput] {
	return &RecordHandler[model.Goal, service.GoalInput]{service: s, noun: "Goal"}
}

func (h *RecordHandler[T, In]) notFound() string {
	return h.noun + " not found or unauthorized"
}

func (h *RecordHandler[T, In]) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var input In
	err := decodeJSON(w, r, &input)
	if err != nil {
		writeServiceError(w, r, err, h.notFound())
		return
	}

	record, err := h.service.Create(r.Context(), user.ID, input)
	if err != nil {
		writeServiceError(w, r, err, h.notFound())
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

func (h *RecordHandler[T, In]) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	records, err := h.service.List(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err, h.notFound())
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// Update takes the id from the path, or from the body's "id" field on the
// collection route.
func (h *RecordHandler[T, In]) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var ref struct {
		ID string `json:"id"`
	}
	var input In
	err = decodeBytes(body, &ref)
	if err == nil {
		err = decodeBytes(body, &input)
	}
	if err != nil {
		writeServiceError(w, r, err, h.notFound())
		return
	}

	id := r.PathValue("id")
	if id == "" {
		id = strings.TrimSpace(ref.ID)
	}
	if id == "" {
		writeError(w, http.StatusBadRequest, h.noun+" ID is required")
		return
	}

	err = h.service.Update(r.Context(), user.ID, id, input)
	if err != nil {
		writeServiceError(w, r, err, h.notFound())
		return
	}

	writeMessage(w, http.StatusOK, h.noun+" updated successfully")
}

// Delete takes the id from the path or the ?id= query parameter.
func (h *RecordHandler[T, In]) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	id := r.PathValue("id")
	if id == "" {
		id = strings.TrimSpace(r.URL.Query().Get("id"))
	}
	if id == "" {
		writeError(w, http.StatusBadRequest, h.noun+" ID is required")
		return
	}

	err := h.service.Delete(r.Context(), user.ID, id)
	if err != nil {
		writeServiceError(w, r, err, h.notFound())
		return
	}

	writeMessage(w, http.StatusOK, h.noun+" deleted successfully")
}
