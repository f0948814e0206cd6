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

var errMeasurementRequired = &validation.Error{
	Field:   "measurements",
	Message: "at least one measurement is required",
}

type ProgressInput struct {
	Date         string              `json:"date" validate:"required,day"`
	Weight       *float64            `json:"weight"`
	BodyFat      *float64            `json:"bodyFat"`
	MuscleMass   *float64            `json:"muscleMass"`
	Measurements *model.Measurements `json:"measurements"`
	Notes        string              `json:"notes"`
}

func (in ProgressInput) entry(id, userID string) (*model.ProgressEntry, error) {
	err := validation.Struct(in)
	if err != nil {
		return nil, err
	}

	date, err := validation.Day("date", in.Date)
	if err != nil {
		return nil, err
	}

	measurements := in.Measurements
	if measurements.Empty() {
		measurements = nil
	}

	entry := &model.ProgressEntry{
		ID:           id,
		UserID:       userID,
		Date:         date,
		Weight:       in.Weight,
		BodyFat:      in.BodyFat,
		MuscleMass:   in.MuscleMass,
		Measurements: measurements,
		Notes:        in.Notes,
	}

	if !entry.HasMeasurement() {
		return nil, errMeasurementRequired
	}

	return entry, nil
}

type ProgressService struct {
	repo repository.ProgressRepository
}

func NewProgressService(repo repository.ProgressRepository) *ProgressService {
	return &ProgressService{repo: repo}
}

func (s *ProgressService) Create(ctx context.Context, userID string, input ProgressInput) (*model.ProgressEntry, error) {
	entry, err := input.entry(uuid.New().String(), userID)
	if err != nil {
		return nil, err
	}

	entry.CreatedAt = time.Now().UTC()
	entry.UpdatedAt = entry.CreatedAt

	err = s.repo.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to create progress entry: %w", err)
	}

	return entry, nil
}

func (s *ProgressService) List(ctx context.Context, userID string) ([]*model.ProgressEntry, error) {
	return s.repo.Entries(ctx, userID)
}

func (s *ProgressService) Update(ctx context.Context, userID, id string, input ProgressInput) error {
	entry, err := input.entry(id, userID)
	if err != nil {
		return err
	}

	entry.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, entry)
}

func (s *ProgressService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *ProgressService) Count(ctx context.Context, userID string) (int, error) {
	return s.repo.Count(ctx, userID)
}
