package repository

import (
	"context"
	"errors"

	"github.com/fittrack/fittrack/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrProgressEntryNotFound = errors.New("progress entry not found")
)

type ProgressRepository interface {
	Create(ctx context.Context, entry *model.ProgressEntry) error
	Entries(ctx context.Context, userID string) ([]*model.ProgressEntry, error)
	Count(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, entry *model.ProgressEntry) error
	Delete(ctx context.Context, userID, entryID string) error
}

type progressRepository struct {
	db *sqlx.DB
}

func NewProgressRepository(db *sqlx.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Create(ctx context.Context, entry *model.ProgressEntry) error {
	query := `INSERT INTO progress_entries (id, user_id, date, weight, body_fat, muscle_mass, measurements, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Date,
		entry.Weight,
		entry.BodyFat,
		entry.MuscleMass,
		entry.Measurements,
		entry.Notes,
		entry.CreatedAt,
		entry.UpdatedAt,
	)

	return err
}

func (r *progressRepository) Entries(ctx context.Context, userID string) ([]*model.ProgressEntry, error) {
	entries := []*model.ProgressEntry{}
	query := `SELECT * FROM progress_entries WHERE user_id = $1 ORDER BY date DESC, created_at DESC`

	err := r.db.SelectContext(ctx, &entries, query, userID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *progressRepository) Count(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM progress_entries WHERE user_id = $1`, userID)
	return count, err
}

func (r *progressRepository) Update(ctx context.Context, entry *model.ProgressEntry) error {
	query := `UPDATE progress_entries
	          SET date = $1, weight = $2, body_fat = $3, muscle_mass = $4, measurements = $5, notes = $6, updated_at = $7
	          WHERE id = $8 AND user_id = $9`

	result, err := r.db.ExecContext(ctx, query,
		entry.Date,
		entry.Weight,
		entry.BodyFat,
		entry.MuscleMass,
		entry.Measurements,
		entry.Notes,
		entry.UpdatedAt,
		entry.ID,
		entry.UserID,
	)
	if err != nil {
		return err
	}

	return expectOne(result, ErrProgressEntryNotFound)
}

func (r *progressRepository) Delete(ctx context.Context, userID, entryID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM progress_entries WHERE id = $1 AND user_id = $2`, entryID, userID)
	if err != nil {
		return err
	}

	return expectOne(result, ErrProgressEntryNotFound)
}
