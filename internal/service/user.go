package service

import (
	"context"
	"fmt"

	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/repository"
	"github.com/fittrack/fittrack/internal/validation"
)

type UserService struct {
	userRepository repository.UserRepository
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{
		userRepository: userRepository,
	}
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	return s.userRepository.ByID(ctx, id)
}

func (s *UserService) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.userRepository.ByEmail(ctx, validation.NormalizeEmail(email))
}

// Delete removes the account; profile, tokens, files and all tracking
// records go with it through ON DELETE CASCADE.
func (s *UserService) Delete(ctx context.Context, id string) error {
	err := s.userRepository.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
