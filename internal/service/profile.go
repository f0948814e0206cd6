package service

import (
	"context"
	"strings"
	"time"

	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/repository"
	"github.com/fittrack/fittrack/internal/validation"
)

type ProfileInput struct {
	Name     string        `json:"name"`
	HeightCm *float64      `json:"heightCm" validate:"omitempty,gt=0"`
	WeightKg *float64      `json:"weightKg" validate:"omitempty,gt=0"`
	Goals    model.Targets `json:"goals"`
}

type ProfileService struct {
	profileRepo repository.ProfileRepository
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
	}
}

func (s *ProfileService) ByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	return s.profileRepo.ByUserID(ctx, userID)
}

// Update replaces the profile's name, body metrics and personal targets.
func (s *ProfileService) Update(ctx context.Context, userID string, input ProfileInput) (*model.Profile, error) {
	name := strings.TrimSpace(input.Name)

	err := validation.ValidateName(name)
	if err != nil {
		return nil, &validation.Error{Field: "name", Message: err.Error()}
	}

	err = validation.Struct(input)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.ByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.Name = name
	profile.HeightCm = input.HeightCm
	profile.WeightKg = input.WeightKg
	profile.Targets = input.Goals
	profile.UpdatedAt = time.Now().UTC()

	err = s.profileRepo.Update(ctx, profile)
	if err != nil {
		return nil, err
	}

	return profile, nil
}
