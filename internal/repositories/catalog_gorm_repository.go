package repositories

import (
	"context"
	"fmt"

	"foodgram/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const upsertBatchSize = 500

// GORMCatalogRepository is a GORM implementation of CatalogRepository.
type GORMCatalogRepository struct {
	db *gorm.DB
}

// NewGORMCatalogRepository creates a new instance of GORMCatalogRepository.
func NewGORMCatalogRepository(db *gorm.DB) *GORMCatalogRepository {
	return &GORMCatalogRepository{
		db: db,
	}
}

// ListTags returns every tag ordered by id.
func (r *GORMCatalogRepository) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// GetTag retrieves a tag by its ID.
func (r *GORMCatalogRepository) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get tag by ID %d: %w", id, translate(err))
	}
	return &tag, nil
}

// TagsByIDs returns the tags among ids that exist.
func (r *GORMCatalogRepository) TagsByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to get tags by IDs: %w", err)
	}
	return tags, nil
}

// ListIngredients returns every ingredient ordered by name.
func (r *GORMCatalogRepository) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := r.db.WithContext(ctx).Order("name, id").Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

// GetIngredient retrieves an ingredient by its ID.
func (r *GORMCatalogRepository) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get ingredient by ID %d: %w", id, translate(err))
	}
	return &ingredient, nil
}

// IngredientsByIDs returns the ingredients among ids that exist.
func (r *GORMCatalogRepository) IngredientsByIDs(ctx context.Context, ids []uint) ([]models.Ingredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var ingredients []models.Ingredient
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to get ingredients by IDs: %w", err)
	}
	return ingredients, nil
}

// UpsertIngredients inserts ingredients, skipping (name, unit) pairs that
// already exist.
func (r *GORMCatalogRepository) UpsertIngredients(ctx context.Context, ingredients []models.Ingredient) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&ingredients, upsertBatchSize)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to import ingredients: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// UpsertTags inserts tags, skipping those whose name, slug or color exist.
func (r *GORMCatalogRepository) UpsertTags(ctx context.Context, tags []models.Tag) (int64, error) {
	if len(tags) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&tags, upsertBatchSize)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to import tags: %w", res.Error)
	}
	return res.RowsAffected, nil
}
