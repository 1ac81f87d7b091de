package repositories

import (
	"context"
	"fmt"

	"foodgram/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMRecipeRepository is a GORM implementation of RecipeRepository.
type GORMRecipeRepository struct {
	db *gorm.DB
}

// NewGORMRecipeRepository creates a new instance of GORMRecipeRepository.
func NewGORMRecipeRepository(db *gorm.DB) *GORMRecipeRepository {
	return &GORMRecipeRepository{
		db: db,
	}
}

// Create stores the recipe with its ingredient amounts and tags in a single
// transaction. recipe.Ingredients and recipe.Tags only need their ids set.
func (r *GORMRecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return writeLinks(tx, recipe)
	})
	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", translate(err))
	}
	return nil
}

// Update replaces the recipe fields, ingredient amounts and tags atomically.
func (r *GORMRecipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]interface{}{
			"name":         recipe.Name,
			"text":         recipe.Text,
			"image":        recipe.Image,
			"cooking_time": recipe.CookingTime,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipe.ID).Error; err != nil {
			return err
		}
		return writeLinks(tx, recipe)
	})
	if err != nil {
		return fmt.Errorf("failed to update recipe %d: %w", recipe.ID, translate(err))
	}
	return nil
}

func writeLinks(tx *gorm.DB, recipe *models.Recipe) error {
	if len(recipe.Ingredients) > 0 {
		links := make([]models.RecipeIngredient, len(recipe.Ingredients))
		for i, ri := range recipe.Ingredients {
			links[i] = models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: ri.IngredientID, Amount: ri.Amount}
		}
		if err := tx.Omit("Ingredient").Create(&links).Error; err != nil {
			return err
		}
		recipe.Ingredients = links
	}
	if len(recipe.Tags) > 0 {
		rows := make([]map[string]interface{}, len(recipe.Tags))
		for i, tag := range recipe.Tags {
			rows[i] = map[string]interface{}{"recipe_id": recipe.ID, "tag_id": tag.ID}
		}
		if err := tx.Table("recipe_tags").Create(rows).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a recipe. Ingredient links, tag links, favorites and cart
// entries go with it through ON DELETE CASCADE.
func (r *GORMRecipeRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Recipe{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete recipe: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("recipe with ID %d not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}

// GetByID retrieves a recipe with author, ingredients and tags loaded.
func (r *GORMRecipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.withDetails(ctx).First(&recipe, "recipes.id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get recipe by ID %d: %w", id, translate(err))
	}
	return &recipe, nil
}

// GetByIDs retrieves the recipes with the given ids, in no particular order.
// Missing ids are simply absent from the result.
func (r *GORMRecipeRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var recipes []models.Recipe
	if err := r.withDetails(ctx).Where("recipes.id IN ?", ids).Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to get recipes by IDs: %w", err)
	}
	return recipes, nil
}

// List returns one page of recipes matching filter, newest first, plus the
// number of matching recipes.
func (r *GORMRecipeRepository) List(ctx context.Context, filter RecipeFilter, offset, limit int) ([]models.Recipe, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Recipe{}).Scopes(r.filtered(filter)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []models.Recipe
	err := r.withDetails(ctx).
		Scopes(r.filtered(filter)).
		Order("recipes.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, total, nil
}

// ListByAuthor returns up to limit of the author's recipes, newest first.
// A negative limit returns all of them.
func (r *GORMRecipeRepository) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("id DESC").
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes of author %d: %w", authorID, err)
	}
	return recipes, nil
}

// CountByAuthors returns the recipe count per author; authors without
// recipes are absent from the map.
func (r *GORMRecipeRepository) CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		AuthorID uint
		Total    int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count recipes by author: %w", err)
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

func (r *GORMRecipeRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") })
}

// filtered builds the WHERE clause of a listing. Membership and tag
// predicates use sub-queries so a recipe never appears twice.
func (r *GORMRecipeRepository) filtered(filter RecipeFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(filter.TagSlugs) > 0 {
			tagged := r.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs)
			db = db.Where("recipes.id IN (?)", tagged)
		}
		if filter.AuthorID != nil {
			db = db.Where("recipes.author_id = ?", *filter.AuthorID)
		}
		if filter.FavoritedBy != nil {
			favorited := r.db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", *filter.FavoritedBy)
			db = db.Where("recipes.id IN (?)", favorited)
		}
		if filter.InCartOf != nil {
			inCart := r.db.Model(&models.ShoppingCartEntry{}).Select("recipe_id").Where("user_id = ?", *filter.InCartOf)
			db = db.Where("recipes.id IN (?)", inCart)
		}
		return db
	}
}
