package repositories

import (
	"context"

	"foodgram/internal/models"
)

// CatalogRepository gives access to the reference data: tags and ingredients.
type CatalogRepository interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	TagsByIDs(ctx context.Context, ids []uint) ([]models.Tag, error)
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error)
	IngredientsByIDs(ctx context.Context, ids []uint) ([]models.Ingredient, error)
	// UpsertIngredients inserts the ingredients that do not exist yet and
	// returns how many were inserted.
	UpsertIngredients(ctx context.Context, ingredients []models.Ingredient) (int64, error)
	UpsertTags(ctx context.Context, tags []models.Tag) (int64, error)
}
