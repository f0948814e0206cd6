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

// NutritionInput carries client-computed totals. A nil total is filled from
// the meals; a present one is stored as given.
type NutritionInput struct {
	Date          string       `json:"date" validate:"required,day"`
	Meals         []model.Meal `json:"meals" validate:"required,min=1"`
	TotalCalories *float64     `json:"totalCalories"`
	TotalProtein  *float64     `json:"totalProtein"`
	TotalCarbs    *float64     `json:"totalCarbs"`
	TotalFat      *float64     `json:"totalFat"`
}

func (in NutritionInput) entry(id, userID string) (*model.NutritionEntry, error) {
	err := validation.Struct(in)
	if err != nil {
		return nil, err
	}

	date, err := validation.Day("date", in.Date)
	if err != nil {
		return nil, err
	}

	meals := model.Meals(in.Meals)
	calories, protein, carbs, fat := meals.Sum()

	return &model.NutritionEntry{
		ID:            id,
		UserID:        userID,
		Date:          date,
		Meals:         meals,
		TotalCalories: valueOr(in.TotalCalories, calories),
		TotalProtein:  valueOr(in.TotalProtein, protein),
		TotalCarbs:    valueOr(in.TotalCarbs, carbs),
		TotalFat:      valueOr(in.TotalFat, fat),
	}, nil
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

type NutritionService struct {
	repo repository.NutritionRepository
}

func NewNutritionService(repo repository.NutritionRepository) *NutritionService {
	return &NutritionService{repo: repo}
}

func (s *NutritionService) Create(ctx context.Context, userID string, input NutritionInput) (*model.NutritionEntry, error) {
	entry, err := input.entry(uuid.New().String(), userID)
	if err != nil {
		return nil, err
	}

	entry.CreatedAt = time.Now().UTC()
	entry.UpdatedAt = entry.CreatedAt

	err = s.repo.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to create nutrition entry: %w", err)
	}

	return entry, nil
}

func (s *NutritionService) List(ctx context.Context, userID string) ([]*model.NutritionEntry, error) {
	return s.repo.Entries(ctx, userID)
}

func (s *NutritionService) Update(ctx context.Context, userID, id string, input NutritionInput) error {
	entry, err := input.entry(id, userID)
	if err != nil {
		return err
	}

	entry.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, entry)
}

func (s *NutritionService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *NutritionService) Count(ctx context.Context, userID string) (int, error) {
	return s.repo.Count(ctx, userID)
}
