package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"foodgram/internal/logging"
	"foodgram/internal/models"
	"foodgram/internal/repositories"
	"foodgram/internal/storage"
)

// IngredientAmount is one ingredient line of a recipe request.
type IngredientAmount struct {
	ID     uint `json:"id" validate:"required"`
	Amount int  `json:"amount" validate:"required,min=1,max=5000"`
}

// RecipeInput is the body of recipe create and update requests. Image is a
// base64 data URI; it may be left empty on update to keep the current image.
type RecipeInput struct {
	Ingredients []IngredientAmount `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
	Tags        []uint             `json:"tags" validate:"required,min=1,unique,dive,required"`
	Image       string             `json:"image"`
	Name        string             `json:"name" validate:"required,max=200"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int                `json:"cooking_time" validate:"required,min=1,max=400"`
}

// RecipeQuery holds the listing filters of a request. FavoritedOnly and
// InCartOnly only apply when the viewer is authenticated.
type RecipeQuery struct {
	Tags          []string
	AuthorID      *uint
	FavoritedOnly bool
	InCartOnly    bool
}

// RecipeFlags is the viewer-specific state of one recipe.
type RecipeFlags struct {
	Favorited bool
	InCart    bool
}

// RecipeService handles business logic related to recipes.
type RecipeService struct {
	recipes     repositories.RecipeRepository
	catalog     repositories.CatalogRepository
	memberships repositories.MembershipRepository
	images      storage.ImageStore
	events      EventPublisher
}

// NewRecipeService creates a new RecipeService. events may be nil.
func NewRecipeService(recipes repositories.RecipeRepository, catalog repositories.CatalogRepository, memberships repositories.MembershipRepository, images storage.ImageStore, events EventPublisher) *RecipeService {
	return &RecipeService{
		recipes:     recipes,
		catalog:     catalog,
		memberships: memberships,
		images:      images,
		events:      events,
	}
}

// Create stores a new recipe of authorID together with its ingredient and
// tag links.
func (s *RecipeService) Create(ctx context.Context, authorID uint, in RecipeInput) (*models.Recipe, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.Image == "" {
		return nil, fieldError("image", "This field is required.")
	}
	recipe := &models.Recipe{AuthorID: authorID}
	if err := s.apply(ctx, recipe, in); err != nil {
		return nil, err
	}

	if err := s.recipes.Create(ctx, recipe); err != nil {
		s.discardImage(recipe.Image)
		if isNotFound(err) {
			return nil, newError(ErrNotFound, "A referenced user, ingredient or tag no longer exists")
		}
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	logging.Info().Uint("recipe_id", recipe.ID).Uint("author_id", authorID).Msg("recipe created")
	publish(s.events, EventRecipeCreated, RecipeEvent{RecipeID: recipe.ID, AuthorID: authorID, Name: recipe.Name})
	return s.Get(ctx, recipe.ID)
}

// Update replaces the recipe's fields and links. Only the author may update.
func (s *RecipeService) Update(ctx context.Context, userID, recipeID uint, in RecipeInput) (*models.Recipe, error) {
	recipe, err := s.owned(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	previousImage := recipe.Image
	if err := s.apply(ctx, recipe, in); err != nil {
		return nil, err
	}
	if err := s.recipes.Update(ctx, recipe); err != nil {
		if recipe.Image != previousImage {
			s.discardImage(recipe.Image)
		}
		if isNotFound(err) {
			return nil, newError(ErrNotFound, "Recipe not found")
		}
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	if recipe.Image != previousImage {
		s.discardImage(previousImage)
	}
	logging.Info().Uint("recipe_id", recipe.ID).Msg("recipe updated")
	publish(s.events, EventRecipeUpdated, RecipeEvent{RecipeID: recipe.ID, AuthorID: recipe.AuthorID, Name: recipe.Name})
	return s.Get(ctx, recipe.ID)
}

// Delete removes the recipe. Only the author may delete.
func (s *RecipeService) Delete(ctx context.Context, userID, recipeID uint) error {
	recipe, err := s.owned(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if err := s.recipes.Delete(ctx, recipeID); err != nil {
		if isNotFound(err) {
			return newError(ErrNotFound, "Recipe not found")
		}
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	s.discardImage(recipe.Image)
	logging.Info().Uint("recipe_id", recipeID).Msg("recipe deleted")
	publish(s.events, EventRecipeDeleted, RecipeEvent{RecipeID: recipeID, AuthorID: recipe.AuthorID})
	return nil
}

// Get retrieves a recipe with its author, ingredients and tags.
func (s *RecipeService) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, newError(ErrNotFound, "Recipe not found")
		}
		return nil, fmt.Errorf("failed to get recipe %d: %w", id, err)
	}
	return recipe, nil
}

// List returns a filtered page of recipes, newest first. Membership filters
// are ignored for anonymous viewers (viewerID 0).
func (s *RecipeService) List(ctx context.Context, viewerID uint, query RecipeQuery, page Page) ([]models.Recipe, int64, error) {
	filter := repositories.RecipeFilter{
		TagSlugs: query.Tags,
		AuthorID: query.AuthorID,
	}
	if viewerID != 0 {
		if query.FavoritedOnly {
			filter.FavoritedBy = &viewerID
		}
		if query.InCartOnly {
			filter.InCartOf = &viewerID
		}
	}
	recipes, total, err := s.recipes.List(ctx, filter, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, total, nil
}

// Flags computes, per recipe id, whether the viewer favorited the recipe or
// has it in the shopping cart. Anonymous viewers get no flags set.
func (s *RecipeService) Flags(ctx context.Context, viewerID uint, recipeIDs []uint) (map[uint]RecipeFlags, error) {
	flags := make(map[uint]RecipeFlags, len(recipeIDs))
	if viewerID == 0 || len(recipeIDs) == 0 {
		return flags, nil
	}
	favorited, err := s.memberships.RecipeIDsAmong(ctx, models.KindFavorite, viewerID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	inCart, err := s.memberships.RecipeIDsAmong(ctx, models.KindShoppingCart, viewerID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping cart: %w", err)
	}
	for _, id := range recipeIDs {
		flags[id] = RecipeFlags{Favorited: favorited[id], InCart: inCart[id]}
	}
	return flags, nil
}

func (s *RecipeService) owned(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, newError(ErrForbidden, "Only the author can change this recipe")
	}
	return recipe, nil
}

// apply copies validated input onto recipe. Ingredient and tag ids must
// exist. A new image is stored last so a rejected request leaves nothing
// behind.
func (s *RecipeService) apply(ctx context.Context, recipe *models.Recipe, in RecipeInput) error {
	ingredientIDs := make([]uint, len(in.Ingredients))
	for i, line := range in.Ingredients {
		ingredientIDs[i] = line.ID
	}
	known, err := s.catalog.IngredientsByIDs(ctx, ingredientIDs)
	if err != nil {
		return fmt.Errorf("failed to load ingredients: %w", err)
	}
	if missing := missingIDs(ingredientIDs, ingredientSet(known)); len(missing) > 0 {
		return fieldError("ingredients", "Unknown ingredient ids: "+joinIDs(missing))
	}

	tags, err := s.catalog.TagsByIDs(ctx, in.Tags)
	if err != nil {
		return fmt.Errorf("failed to load tags: %w", err)
	}
	if missing := missingIDs(in.Tags, tagSet(tags)); len(missing) > 0 {
		return fieldError("tags", "Unknown tag ids: "+joinIDs(missing))
	}

	if in.Image != "" {
		contentType, ext, data, err := storage.DecodeDataURI(in.Image)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidDataURI) {
				return fieldError("image", err.Error())
			}
			return err
		}
		url, err := s.images.Save(ctx, storage.NewImageKey(ext), contentType, data)
		if err != nil {
			return fmt.Errorf("failed to store recipe image: %w", err)
		}
		recipe.Image = url
	}

	recipe.Name = in.Name
	recipe.Text = in.Text
	recipe.CookingTime = in.CookingTime
	recipe.Ingredients = make([]models.RecipeIngredient, len(in.Ingredients))
	for i, line := range in.Ingredients {
		recipe.Ingredients[i] = models.RecipeIngredient{IngredientID: line.ID, Amount: line.Amount}
	}
	recipe.Tags = make([]models.Tag, len(in.Tags))
	for i, id := range in.Tags {
		recipe.Tags[i] = models.Tag{ID: id}
	}
	return nil
}

func (s *RecipeService) discardImage(url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(context.Background(), url); err != nil {
		logging.Warn().Err(err).Str("image", url).Msg("failed to remove recipe image")
	}
}

func ingredientSet(ingredients []models.Ingredient) map[uint]bool {
	set := make(map[uint]bool, len(ingredients))
	for _, ing := range ingredients {
		set[ing.ID] = true
	}
	return set
}

func tagSet(tags []models.Tag) map[uint]bool {
	set := make(map[uint]bool, len(tags))
	for _, tag := range tags {
		set[tag.ID] = true
	}
	return set
}

func missingIDs(ids []uint, known map[uint]bool) []uint {
	var missing []uint
	for _, id := range ids {
		if !known[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

func joinIDs(ids []uint) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ", "
		}
		out += strconv.FormatUint(uint64(id), 10)
	}
	return out
}
