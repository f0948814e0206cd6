package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fittrack/fittrack/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ProfileRepository interface {
	ByUserID(ctx context.Context, userID string) (*model.Profile, error)
	Create(ctx context.Context, profile *model.Profile) error
	Update(ctx context.Context, profile *model.Profile) error
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) ByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, `SELECT * FROM profiles WHERE user_id = $1`, userID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = profile.CreatedAt
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, user_id, name, height_cm, weight_kg, targets, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, profile.ID, profile.UserID, profile.Name, profile.HeightCm, profile.WeightKg, profile.Targets, profile.CreatedAt, profile.UpdatedAt)

	return err
}

func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET name = $1, height_cm = $2, weight_kg = $3, targets = $4, updated_at = $5
		WHERE user_id = $6
	`, profile.Name, profile.HeightCm, profile.WeightKg, profile.Targets, profile.UpdatedAt, profile.UserID)
	if err != nil {
		return err
	}

	return expectOne(result, ErrProfileNotFound)
}
