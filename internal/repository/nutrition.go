package repository

import (
	"context"
	"errors"

	"github.com/fittrack/fittrack/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrNutritionEntryNotFound = errors.New("nutrition entry not found")
)

type NutritionRepository interface {
	Create(ctx context.Context, entry *model.NutritionEntry) error
	Entries(ctx context.Context, userID string) ([]*model.NutritionEntry, error)
	Count(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, entry *model.NutritionEntry) error
	Delete(ctx context.Context, userID, entryID string) error
}

type nutritionRepository struct {
	db *sqlx.DB
}

func NewNutritionRepository(db *sqlx.DB) NutritionRepository {
	return &nutritionRepository{db: db}
}

func (r *nutritionRepository) Create(ctx context.Context, entry *model.NutritionEntry) error {
	query := `INSERT INTO nutrition_entries (id, user_id, date, meals, total_calories, total_protein, total_carbs, total_fat, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Date,
		entry.Meals,
		entry.TotalCalories,
		entry.TotalProtein,
		entry.TotalCarbs,
		entry.TotalFat,
		entry.CreatedAt,
		entry.UpdatedAt,
	)

	return err
}

func (r *nutritionRepository) Entries(ctx context.Context, userID string) ([]*model.NutritionEntry, error) {
	entries := []*model.NutritionEntry{}
	query := `SELECT * FROM nutrition_entries WHERE user_id = $1 ORDER BY date DESC, created_at DESC`

	err := r.db.SelectContext(ctx, &entries, query, userID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *nutritionRepository) Count(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM nutrition_entries WHERE user_id = $1`, userID)
	return count, err
}

func (r *nutritionRepository) Update(ctx context.Context, entry *model.NutritionEntry) error {
	query := `UPDATE nutrition_entries
	          SET date = $1, meals = $2, total_calories = $3, total_protein = $4, total_carbs = $5, total_fat = $6, updated_at = $7
	          WHERE id = $8 AND user_id = $9`

	result, err := r.db.ExecContext(ctx, query,
		entry.Date,
		entry.Meals,
		entry.TotalCalories,
		entry.TotalProtein,
		entry.TotalCarbs,
		entry.TotalFat,
		entry.UpdatedAt,
		entry.ID,
		entry.UserID,
	)
	if err != nil {
		return err
	}

	return expectOne(result, ErrNutritionEntryNotFound)
}

func (r *nutritionRepository) Delete(ctx context.Context, userID, entryID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM nutrition_entries WHERE id = $1 AND user_id = $2`, entryID, userID)
	if err != nil {
		return err
	}

	return expectOne(result, ErrNutritionEntryNotFound)
}
