package services

import (
	"context"
	"errors"
	"fmt"

	"foodgram/internal/logging"
	"foodgram/internal/metrics"
	"foodgram/internal/models"
	"foodgram/internal/repositories"
)

// MembershipService adds recipes to and removes them from a user's favorites
// or shopping cart. Uniqueness is left to the storage constraint, so each
// transition is a single INSERT or DELETE.
type MembershipService struct {
	recipes     repositories.RecipeRepository
	memberships repositories.MembershipRepository
	events      EventPublisher
}

// NewMembershipService creates a new MembershipService. events may be nil.
func NewMembershipService(recipes repositories.RecipeRepository, memberships repositories.MembershipRepository, events EventPublisher) *MembershipService {
	return &MembershipService{
		recipes:     recipes,
		memberships: memberships,
		events:      events,
	}
}

// Add puts the recipe into the user's set and returns it.
func (s *MembershipService) Add(ctx context.Context, kind models.MembershipKind, userID, recipeID uint) (*models.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		if isNotFound(err) {
			return nil, newError(ErrNotFound, "Recipe not found")
		}
		return nil, fmt.Errorf("failed to load recipe %d: %w", recipeID, err)
	}

	if err := s.memberships.Add(ctx, kind, userID, recipeID); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			metrics.MembershipChanges.WithLabelValues(string(kind), "add", "duplicate").Inc()
			return nil, newError(ErrDuplicateMembership, "Recipe is already in the %s", kindLabel(kind))
		}
		if isNotFound(err) {
			// recipe or user deleted since the lookup above
			metrics.MembershipChanges.WithLabelValues(string(kind), "add", "missing").Inc()
			return nil, newError(ErrNotFound, "Recipe not found")
		}
		return nil, fmt.Errorf("failed to add recipe to %s: %w", kind, err)
	}

	metrics.MembershipChanges.WithLabelValues(string(kind), "add", "ok").Inc()
	logging.Debug().Str("kind", string(kind)).Uint("user_id", userID).Uint("recipe_id", recipeID).Msg("membership added")
	publish(s.events, string(kind)+".added", MembershipEvent{UserID: userID, RecipeID: recipeID})
	return recipe, nil
}

// Remove takes the recipe out of the user's set.
func (s *MembershipService) Remove(ctx context.Context, kind models.MembershipKind, userID, recipeID uint) error {
	if _, err := s.recipes.GetByID(ctx, recipeID); err != nil {
		if isNotFound(err) {
			return newError(ErrNotFound, "Recipe not found")
		}
		return fmt.Errorf("failed to load recipe %d: %w", recipeID, err)
	}

	if err := s.memberships.Remove(ctx, kind, userID, recipeID); err != nil {
		if isNotFound(err) {
			metrics.MembershipChanges.WithLabelValues(string(kind), "remove", "absent").Inc()
			return newError(ErrNotMember, "Recipe is not in the %s", kindLabel(kind))
		}
		return fmt.Errorf("failed to remove recipe from %s: %w", kind, err)
	}

	metrics.MembershipChanges.WithLabelValues(string(kind), "remove", "ok").Inc()
	logging.Debug().Str("kind", string(kind)).Uint("user_id", userID).Uint("recipe_id", recipeID).Msg("membership removed")
	publish(s.events, string(kind)+".removed", MembershipEvent{UserID: userID, RecipeID: recipeID})
	return nil
}

func kindLabel(kind models.MembershipKind) string {
	if kind == models.KindShoppingCart {
		return "shopping cart"
	}
	return "favorites"
}
