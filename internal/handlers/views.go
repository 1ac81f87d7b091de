package handlers

import (
	"context"

	"foodgram/internal/models"
	"foodgram/internal/services"
)

// Each endpoint picks one of these shapes explicitly; models are never
// serialized directly.

type TagView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type IngredientView struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type RecipeIngredientView struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type UserView struct {
	Email        string `json:"email"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type RecipeView struct {
	ID               uint                   `json:"id"`
	Tags             []TagView              `json:"tags"`
	Author           UserView               `json:"author"`
	Ingredients      []RecipeIngredientView `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
}

// RecipeShortView is used inside subscriptions and as the response of
// favorite and shopping cart additions.
type RecipeShortView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type SubscriptionView struct {
	UserView
	Recipes      []RecipeShortView `json:"recipes"`
	RecipesCount int64             `json:"recipes_count"`
}

func newTagView(t models.Tag) TagView {
	return TagView{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func newTagViews(tags []models.Tag) []TagView {
	views := make([]TagView, len(tags))
	for i, t := range tags {
		views[i] = newTagView(t)
	}
	return views
}

func newIngredientView(i models.Ingredient) IngredientView {
	return IngredientView{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func newIngredientViews(ingredients []models.Ingredient) []IngredientView {
	views := make([]IngredientView, len(ingredients))
	for i, ing := range ingredients {
		views[i] = newIngredientView(ing)
	}
	return views
}

func newUserView(u models.User, subscribed bool) UserView {
	return UserView{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func newRecipeShortView(r models.Recipe) RecipeShortView {
	return RecipeShortView{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

func newRecipeView(r models.Recipe, flags services.RecipeFlags, authorSubscribed bool) RecipeView {
	ingredients := make([]RecipeIngredientView, len(r.Ingredients))
	for i, ri := range r.Ingredients {
		ingredients[i] = RecipeIngredientView{
			ID:              ri.IngredientID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		}
	}
	return RecipeView{
		ID:               r.ID,
		Tags:             newTagViews(r.Tags),
		Author:           newUserView(r.Author, authorSubscribed),
		Ingredients:      ingredients,
		IsFavorited:      flags.Favorited,
		IsInShoppingCart: flags.InCart,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

func newSubscriptionView(s services.AuthorSubscription) SubscriptionView {
	recipes := make([]RecipeShortView, len(s.Recipes))
	for i, r := range s.Recipes {
		recipes[i] = newRecipeShortView(r)
	}
	return SubscriptionView{
		// listed authors are followed by definition
		UserView:     newUserView(s.Author, true),
		Recipes:      recipes,
		RecipesCount: s.RecipeCount,
	}
}

// presenter computes the viewer-specific flags that views carry.
type presenter struct {
	recipes       *services.RecipeService
	subscriptions *services.SubscriptionService
}

func (p presenter) recipeViews(ctx context.Context, viewerID uint, recipes []models.Recipe) ([]RecipeView, error) {
	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	seen := make(map[uint]bool, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		if !seen[r.AuthorID] {
			seen[r.AuthorID] = true
			authorIDs = append(authorIDs, r.AuthorID)
		}
	}

	flags, err := p.recipes.Flags(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	following, err := p.subscriptions.IsFollowing(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]RecipeView, len(recipes))
	for i, r := range recipes {
		views[i] = newRecipeView(r, flags[r.ID], following[r.AuthorID])
	}
	return views, nil
}

func (p presenter) recipeView(ctx context.Context, viewerID uint, recipe *models.Recipe) (*RecipeView, error) {
	views, err := p.recipeViews(ctx, viewerID, []models.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (p presenter) userViews(ctx context.Context, viewerID uint, users []models.User) ([]UserView, error) {
	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	following, err := p.subscriptions.IsFollowing(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	views := make([]UserView, len(users))
	for i, u := range users {
		views[i] = newUserView(u, following[u.ID])
	}
	return views, nil
}
