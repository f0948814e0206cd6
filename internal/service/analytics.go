package service

import (
	"context"
	"fmt"

	"github.com/fittrack/fittrack/internal/analytics"
	"github.com/fittrack/fittrack/internal/repository"
)

type AnalyticsService struct {
	workoutRepo   repository.WorkoutRepository
	nutritionRepo repository.NutritionRepository
}

func NewAnalyticsService(workoutRepo repository.WorkoutRepository, nutritionRepo repository.NutritionRepository) *AnalyticsService {
	return &AnalyticsService{
		workoutRepo:   workoutRepo,
		nutritionRepo: nutritionRepo,
	}
}

// Monthly loads the user's workouts and nutrition entries and folds them
// into per-month statistics.
func (s *AnalyticsService) Monthly(ctx context.Context, userID string) (analytics.Report, error) {
	workouts, err := s.workoutRepo.Workouts(ctx, userID)
	if err != nil {
		return analytics.Report{}, fmt.Errorf("failed to load workouts: %w", err)
	}

	entries, err := s.nutritionRepo.Entries(ctx, userID)
	if err != nil {
		return analytics.Report{}, fmt.Errorf("failed to load nutrition entries: %w", err)
	}

	return analytics.Build(workouts, entries), nil
}
