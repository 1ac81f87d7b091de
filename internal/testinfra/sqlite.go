// Package testinfra provides test fixtures shared by package tests.
package testinfra

import (
	"fmt"
	"testing"

	"foodgram/internal/database"
	"foodgram/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewSQLite opens a private, migrated in-memory database for one test.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(database.Config{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user whose password is "password123".
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: username,
		LastName:  "Tester",
		Password:  string(hash),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateIngredient inserts an ingredient.
func CreateIngredient(t testing.TB, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()

	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

// CreateTag inserts a tag; slug doubles as name.
func CreateTag(t testing.TB, db *gorm.DB, slug, color string) *models.Tag {
	t.Helper()

	tag := &models.Tag{Name: slug, Slug: slug, Color: color}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

// Amount pairs an ingredient with the amount a recipe uses.
type Amount struct {
	Ingredient *models.Ingredient
	Amount     int
}

// CreateRecipe inserts a recipe with its ingredient and tag links.
func CreateRecipe(t testing.TB, db *gorm.DB, author *models.User, name string, amounts []Amount, tags ...*models.Tag) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Image:       "/media/recipes/" + name + ".png",
		Text:        "Cook " + name,
		CookingTime: 10,
	}
	for _, a := range amounts {
		recipe.Ingredients = append(recipe.Ingredients, models.RecipeIngredient{IngredientID: a.Ingredient.ID, Amount: a.Amount})
	}
	for _, tag := range tags {
		recipe.Tags = append(recipe.Tags, *tag)
	}
	require.NoError(t, db.Omit("Author", "Tags.*").Create(recipe).Error)
	return recipe
}
