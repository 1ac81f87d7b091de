package services

import (
	"context"
	"fmt"

	"foodgram/internal/logging"
	"foodgram/internal/models"
	"foodgram/internal/repositories"
)

// UserService handles reads and deletion of user accounts.
type UserService struct {
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

// List returns a page of users ordered by id.
func (s *UserService) List(ctx context.Context, page Page) ([]models.User, int64, error) {
	users, total, err := s.users.List(ctx, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}

// Delete removes the account. Recipes, favorites, cart entries and
// subscriptions in both directions go with it.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return newError(ErrNotFound, "User not found")
		}
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	logging.Info().Uint("user_id", id).Msg("user deleted")
	return nil
}
