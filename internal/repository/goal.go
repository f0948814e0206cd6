package repository

import (
	"context"
	"errors"

	"github.com/fittrack/fittrack/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	Goals(ctx context.Context, userID string) ([]*model.Goal, error)
	CountByStatus(ctx context.Context, userID string, completed bool) (int, error)
	Update(ctx context.Context, goal *model.Goal) error
	Delete(ctx context.Context, userID, goalID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	query := `INSERT INTO goals (id, user_id, title, category, target_date, target_value, current_value, unit, notes, completed, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Category,
		goal.TargetDate,
		goal.TargetValue,
		goal.CurrentValue,
		goal.Unit,
		goal.Notes,
		goal.Completed,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

// Goals returns the user's goals, nearest target date first.
func (r *goalRepository) Goals(ctx context.Context, userID string) ([]*model.Goal, error) {
	goals := []*model.Goal{}
	query := `SELECT * FROM goals WHERE user_id = $1 ORDER BY target_date ASC, created_at ASC`

	err := r.db.SelectContext(ctx, &goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) CountByStatus(ctx context.Context, userID string, completed bool) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM goals WHERE user_id = $1 AND completed = $2`
	err := r.db.GetContext(ctx, &count, query, userID, completed)
	return count, err
}

func (r *goalRepository) Update(ctx context.Context, goal *model.Goal) error {
	query := `UPDATE goals
	          SET title = $1, category = $2, target_date = $3, target_value = $4, current_value = $5,
	              unit = $6, notes = $7, completed = $8, updated_at = $9
	          WHERE id = $10 AND user_id = $11`

	result, err := r.db.ExecContext(ctx, query,
		goal.Title,
		goal.Category,
		goal.TargetDate,
		goal.TargetValue,
		goal.CurrentValue,
		goal.Unit,
		goal.Notes,
		goal.Completed,
		goal.UpdatedAt,
		goal.ID,
		goal.UserID,
	)
	if err != nil {
		return err
	}

	return expectOne(result, ErrGoalNotFound)
}

func (r *goalRepository) Delete(ctx context.Context, userID, goalID string) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, goalID, userID)
	if err != nil {
		return err
	}

	return expectOne(result, ErrGoalNotFound)
}
