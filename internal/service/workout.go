package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/repository"
	"github.com/fittrack/fittrack/internal/validation"
	"github.com/google/uuid"
)

type WorkoutInput struct {
	Title     string           `json:"title" validate:"required"`
	Date      string           `json:"date" validate:"required,day"`
	Exercises []model.Exercise `json:"exercises" validate:"required,min=1,dive"`
	Notes     string           `json:"notes"`
}

func (in WorkoutInput) workout(id, userID string) (*model.Workout, error) {
	err := validation.Struct(in)
	if err != nil {
		return nil, err
	}

	date, err := validation.Day("date", in.Date)
	if err != nil {
		return nil, err
	}

	return &model.Workout{
		ID:        id,
		UserID:    userID,
		Title:     in.Title,
		Date:      date,
		Exercises: in.Exercises,
		Notes:     in.Notes,
	}, nil
}

type WorkoutService struct {
	repo repository.WorkoutRepository
}

func NewWorkoutService(repo repository.WorkoutRepository) *WorkoutService {
	return &WorkoutService{repo: repo}
}

func (s *WorkoutService) Create(ctx context.Context, userID string, input WorkoutInput) (*model.Workout, error) {
	workout, err := input.workout(uuid.New().String(), userID)
	if err != nil {
		return nil, err
	}

	workout.CreatedAt = time.Now().UTC()
	workout.UpdatedAt = workout.CreatedAt

	err = s.repo.Create(ctx, workout)
	if err != nil {
		return nil, fmt.Errorf("failed to create workout: %w", err)
	}

	return workout, nil
}

func (s *WorkoutService) List(ctx context.Context, userID string) ([]*model.Workout, error) {
	return s.repo.Workouts(ctx, userID)
}

// Update replaces the workout. ErrWorkoutNotFound covers both a missing id
// and a workout owned by someone else.
func (s *WorkoutService) Update(ctx context.Context, userID, id string, input WorkoutInput) error {
	workout, err := input.workout(id, userID)
	if err != nil {
		return err
	}

	workout.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, workout)
}

func (s *WorkoutService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *WorkoutService) Count(ctx context.Context, userID string) (int, error) {
	return s.repo.Count(ctx, userID)
}
