package repositories

import (
	"context"

	"foodgram/internal/models"
)

// MembershipRepository stores favorites and shopping cart entries.
type MembershipRepository interface {
	// Add inserts the (user, recipe) pair; ErrDuplicate when it already exists.
	Add(ctx context.Context, kind models.MembershipKind, userID, recipeID uint) error
	// Remove deletes the pair; ErrNotFound when it did not exist.
	Remove(ctx context.Context, kind models.MembershipKind, userID, recipeID uint) error
	// RecipeIDsAmong reports which of recipeIDs belong to the user's set.
	RecipeIDsAmong(ctx context.Context, kind models.MembershipKind, userID uint, recipeIDs []uint) (map[uint]bool, error)
	// RecipeIDs lists the user's set in insertion order.
	RecipeIDs(ctx context.Context, kind models.MembershipKind, userID uint) ([]uint, error)
}
