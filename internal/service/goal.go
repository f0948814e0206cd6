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

type GoalInput struct {
	Title        string  `json:"title" validate:"required"`
	Category     string  `json:"category" validate:"required,goalcategory"`
	TargetDate   string  `json:"targetDate" validate:"required,day"`
	TargetValue  float64 `json:"targetValue" validate:"gt=0"`
	CurrentValue float64 `json:"currentValue" validate:"gte=0"`
	Unit         string  `json:"unit" validate:"required,goalunit"`
	Notes        string  `json:"notes"`
	Completed    bool    `json:"completed"`
}

func (in GoalInput) goal(id, userID string) (*model.Goal, error) {
	err := validation.Struct(in)
	if err != nil {
		return nil, err
	}

	targetDate, err := validation.Day("targetDate", in.TargetDate)
	if err != nil {
		return nil, err
	}

	return &model.Goal{
		ID:           id,
		UserID:       userID,
		Title:        in.Title,
		Category:     in.Category,
		TargetDate:   targetDate,
		TargetValue:  in.TargetValue,
		CurrentValue: in.CurrentValue,
		Unit:         in.Unit,
		Notes:        in.Notes,
		Completed:    in.Completed,
	}, nil
}

type GoalService struct {
	repo repository.GoalRepository
}

func NewGoalService(repo repository.GoalRepository) *GoalService {
	return &GoalService{repo: repo}
}

// Create stores a new goal. Progress always starts at zero; currentValue
// and completed are only honoured by Update.
func (s *GoalService) Create(ctx context.Context, userID string, input GoalInput) (*model.Goal, error) {
	goal, err := input.goal(uuid.New().String(), userID)
	if err != nil {
		return nil, err
	}

	goal.CurrentValue = 0
	goal.Completed = false
	goal.CreatedAt = time.Now().UTC()
	goal.UpdatedAt = goal.CreatedAt

	err = s.repo.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) List(ctx context.Context, userID string) ([]*model.Goal, error) {
	return s.repo.Goals(ctx, userID)
}

func (s *GoalService) Update(ctx context.Context, userID, id string, input GoalInput) error {
	goal, err := input.goal(id, userID)
	if err != nil {
		return err
	}

	goal.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, goal)
}

func (s *GoalService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

// Counts returns how many of the user's goals are active and completed.
func (s *GoalService) Counts(ctx context.Context, userID string) (active, completed int, err error) {
	active, err = s.repo.CountByStatus(ctx, userID, false)
	if err != nil {
		return 0, 0, err
	}

	completed, err = s.repo.CountByStatus(ctx, userID, true)
	if err != nil {
		return 0, 0, err
	}

	return active, completed, nil
}
