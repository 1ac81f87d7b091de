package repositories

import (
	"context"

	"foodgram/internal/models"
)

// RecipeFilter narrows a recipe listing. Every non-empty field is ANDed with
// the others; TagSlugs match when a recipe carries at least one of the slugs.
type RecipeFilter struct {
	TagSlugs    []string
	AuthorID    *uint
	FavoritedBy *uint
	InCartOf    *uint
}

// RecipeRepository defines the interface for recipe data access.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	Update(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.Recipe, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Recipe, error)
	List(ctx context.Context, filter RecipeFilter, offset, limit int) ([]models.Recipe, int64, error)
	ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error)
	CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error)
}
