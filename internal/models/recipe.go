package models

import "time"

const (
	MinCookingTime = 1
	MaxCookingTime = 400
	MinAmount      = 1
	MaxAmount      = 5000
)

// Recipe is owned by its author. Ingredient links and tag links are removed
// together with the recipe.
type Recipe struct {
	ID          uint               `gorm:"primaryKey"`
	AuthorID    uint               `gorm:"not null;index"`
	Author      User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Name        string             `gorm:"type:varchar(200);not null"`
	Image       string             `gorm:"type:varchar(500);not null"`
	Text        string             `gorm:"type:text;not null"`
	CookingTime int                `gorm:"not null;check:cooking_time >= 1 AND cooking_time <= 400"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecipeIngredient is one (ingredient, amount) pair of a recipe.
type RecipeIngredient struct {
	ID           uint       `gorm:"primaryKey"`
	RecipeID     uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
	Amount       int        `gorm:"not null;check:amount >= 1 AND amount <= 5000"`
}
