package repository

import (
	"context"
	"errors"

	"github.com/fittrack/fittrack/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrWorkoutNotFound = errors.New("workout not found")
)

type WorkoutRepository interface {
	Create(ctx context.Context, workout *model.Workout) error
	Workouts(ctx context.Context, userID string) ([]*model.Workout, error)
	Count(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, workout *model.Workout) error
	Delete(ctx context.Context, userID, workoutID string) error
}

type workoutRepository struct {
	db *sqlx.DB
}

func NewWorkoutRepository(db *sqlx.DB) WorkoutRepository {
	return &workoutRepository{db: db}
}

func (r *workoutRepository) Create(ctx context.Context, workout *model.Workout) error {
	query := `INSERT INTO workouts (id, user_id, title, date, exercises, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		workout.ID,
		workout.UserID,
		workout.Title,
		workout.Date,
		workout.Exercises,
		workout.Notes,
		workout.CreatedAt,
		workout.UpdatedAt,
	)

	return err
}

// Workouts returns the user's workouts, most recent date first.
func (r *workoutRepository) Workouts(ctx context.Context, userID string) ([]*model.Workout, error) {
	workouts := []*model.Workout{}
	query := `SELECT * FROM workouts WHERE user_id = $1 ORDER BY date DESC, created_at DESC`

	err := r.db.SelectContext(ctx, &workouts, query, userID)
	if err != nil {
		return nil, err
	}

	return workouts, nil
}

func (r *workoutRepository) Count(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM workouts WHERE user_id = $1`, userID)
	return count, err
}

// Update overwrites the workout only when both id and owner match.
func (r *workoutRepository) Update(ctx context.Context, workout *model.Workout) error {
	query := `UPDATE workouts
	          SET title = $1, date = $2, exercises = $3, notes = $4, updated_at = $5
	          WHERE id = $6 AND user_id = $7`

	result, err := r.db.ExecContext(ctx, query,
		workout.Title,
		workout.Date,
		workout.Exercises,
		workout.Notes,
		workout.UpdatedAt,
		workout.ID,
		workout.UserID,
	)
	if err != nil {
		return err
	}

	return expectOne(result, ErrWorkoutNotFound)
}

func (r *workoutRepository) Delete(ctx context.Context, userID, workoutID string) error {
	query := `DELETE FROM workouts WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, workoutID, userID)
	if err != nil {
		return err
	}

	return expectOne(result, ErrWorkoutNotFound)
}
