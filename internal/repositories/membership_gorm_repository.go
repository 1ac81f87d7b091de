package repositories

import (
	"context"
	"fmt"

	"foodgram/internal/models"

	"gorm.io/gorm"
)

// GORMMembershipRepository is a GORM implementation of MembershipRepository.
// Uniqueness of (user, recipe) is left to the composite unique index, so a
// concurrent duplicate insert fails with ErrDuplicate instead of racing.
type GORMMembershipRepository struct {
	db *gorm.DB
}

// NewGORMMembershipRepository creates a new instance of GORMMembershipRepository.
func NewGORMMembershipRepository(db *gorm.DB) *GORMMembershipRepository {
	return &GORMMembershipRepository{
		db: db,
	}
}

func entryFor(kind models.MembershipKind, userID, recipeID uint) (interface{}, error) {
	switch kind {
	case models.KindFavorite:
		return &models.Favorite{UserID: userID, RecipeID: recipeID}, nil
	case models.KindShoppingCart:
		return &models.ShoppingCartEntry{UserID: userID, RecipeID: recipeID}, nil
	default:
		return nil, fmt.Errorf("unknown membership kind %q", kind)
	}
}

// Add inserts a membership row.
func (r *GORMMembershipRepository) Add(ctx context.Context, kind models.MembershipKind, userID, recipeID uint) error {
	entry, err := entryFor(kind, userID, recipeID)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Omit("User", "Recipe").Create(entry).Error; err != nil {
		return fmt.Errorf("failed to add recipe %d to %s of user %d: %w", recipeID, kind, userID, translate(err))
	}
	return nil
}

// Remove deletes a membership row in one statement.
func (r *GORMMembershipRepository) Remove(ctx context.Context, kind models.MembershipKind, userID, recipeID uint) error {
	entry, err := entryFor(kind, 0, 0)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(entry)
	if res.Error != nil {
		return fmt.Errorf("failed to remove recipe %d from %s of user %d: %w", recipeID, kind, userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("recipe %d is not in %s of user %d: %w", recipeID, kind, userID, ErrNotFound)
	}
	return nil
}

// RecipeIDsAmong returns the subset of recipeIDs present in the user's set.
func (r *GORMMembershipRepository) RecipeIDsAmong(ctx context.Context, kind models.MembershipKind, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	present := make(map[uint]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return present, nil
	}
	entry, err := entryFor(kind, 0, 0)
	if err != nil {
		return nil, err
	}
	var ids []uint
	err = r.db.WithContext(ctx).
		Model(entry).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check %s of user %d: %w", kind, userID, err)
	}
	for _, id := range ids {
		present[id] = true
	}
	return present, nil
}

// RecipeIDs returns every recipe id of the user's set, oldest entry first.
func (r *GORMMembershipRepository) RecipeIDs(ctx context.Context, kind models.MembershipKind, userID uint) ([]uint, error) {
	entry, err := entryFor(kind, 0, 0)
	if err != nil {
		return nil, err
	}
	var ids []uint
	err = r.db.WithContext(ctx).
		Model(entry).
		Where("user_id = ?", userID).
		Order("id").
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s of user %d: %w", kind, userID, err)
	}
	return ids, nil
}
