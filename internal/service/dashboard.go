package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fittrack/fittrack/internal/repository"
)

type DashboardSummary struct {
	Name             string `json:"name"`
	Workouts         int    `json:"workouts"`
	NutritionEntries int    `json:"nutritionEntries"`
	ProgressEntries  int    `json:"progressEntries"`
	ActiveGoals      int    `json:"activeGoals"`
	CompletedGoals   int    `json:"completedGoals"`
}

type DashboardService struct {
	profiles  repository.ProfileRepository
	workouts  *WorkoutService
	nutrition *NutritionService
	progress  *ProgressService
	goals     *GoalService
}

func NewDashboardService(
	profiles repository.ProfileRepository,
	workouts *WorkoutService,
	nutrition *NutritionService,
	progress *ProgressService,
	goals *GoalService,
) *DashboardService {
	return &DashboardService{
		profiles:  profiles,
		workouts:  workouts,
		nutrition: nutrition,
		progress:  progress,
		goals:     goals,
	}
}

func (s *DashboardService) Summary(ctx context.Context, userID string) (*DashboardSummary, error) {
	summary := &DashboardSummary{}

	profile, err := s.profiles.ByUserID(ctx, userID)
	switch {
	case err == nil:
		summary.Name = profile.Name
	case !errors.Is(err, repository.ErrProfileNotFound):
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	summary.Workouts, err = s.workouts.Count(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count workouts: %w", err)
	}

	summary.NutritionEntries, err = s.nutrition.Count(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count nutrition entries: %w", err)
	}

	summary.ProgressEntries, err = s.progress.Count(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count progress entries: %w", err)
	}

	summary.ActiveGoals, summary.CompletedGoals, err = s.goals.Counts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count goals: %w", err)
	}

	return summary, nil
}
