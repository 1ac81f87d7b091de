package handlers

import (
	"strconv"

	"foodgram/internal/middleware"
	"foodgram/internal/models"
	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RecipeHandler handles HTTP requests for recipes, favorites and the
// shopping cart.
type RecipeHandler struct {
	auth        *services.AuthService
	recipes     *services.RecipeService
	memberships *services.MembershipService
	cart        *services.ShoppingCartService
	present     presenter
	paging      Paging
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(auth *services.AuthService, recipes *services.RecipeService, memberships *services.MembershipService, cart *services.ShoppingCartService, subscriptions *services.SubscriptionService, paging Paging) *RecipeHandler {
	return &RecipeHandler{
		auth:        auth,
		recipes:     recipes,
		memberships: memberships,
		cart:        cart,
		present:     presenter{recipes: recipes, subscriptions: subscriptions},
		paging:      paging,
	}
}

// RegisterRoutes registers the recipe routes.
func (h *RecipeHandler) RegisterRoutes(router fiber.Router) {
	optional := middleware.OptionalAuth(h.auth)
	required := middleware.AuthRequired(h.auth)

	recipes := router.Group("/recipes")
	recipes.Get("/", optional, h.HandleList)
	recipes.Post("/", required, h.HandleCreate)
	recipes.Get("/download_shopping_cart", required, h.HandleDownloadShoppingCart)
	recipes.Get("/:id<int>", optional, h.HandleGet)
	recipes.Patch("/:id<int>", required, h.HandleUpdate)
	recipes.Delete("/:id<int>", required, h.HandleDelete)

	recipes.Post("/:id<int>/favorite", required, h.handleAdd(models.KindFavorite))
	recipes.Delete("/:id<int>/favorite", required, h.handleRemove(models.KindFavorite))
	recipes.Post("/:id<int>/shopping_cart", required, h.handleAdd(models.KindShoppingCart))
	recipes.Delete("/:id<int>/shopping_cart", required, h.handleRemove(models.KindShoppingCart))
}

// HandleList returns a filtered page of recipes, newest first.
//
// Query parameters: tags (repeatable slug, any match), author (user id),
// is_favorited and is_in_shopping_cart (1 or true, ignored for anonymous
// viewers), page and limit.
func (h *RecipeHandler) HandleList(c *fiber.Ctx) error {
	query := services.RecipeQuery{
		FavoritedOnly: queryBool(c, "is_favorited"),
		InCartOnly:    queryBool(c, "is_in_shopping_cart"),
	}
	for _, slug := range c.Context().QueryArgs().PeekMulti("tags") {
		if len(slug) > 0 {
			query.Tags = append(query.Tags, string(slug))
		}
	}
	if raw := c.Query("author"); raw != "" {
		authorID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"detail": "author must be a user id",
			})
		}
		id := uint(authorID)
		query.AuthorID = &id
	}

	viewerID := middleware.CurrentUserID(c)
	page := h.paging.page(c)
	recipes, total, err := h.recipes.List(c.UserContext(), viewerID, query, page)
	if err != nil {
		return respondError(c, err)
	}
	views, err := h.present.recipeViews(c.UserContext(), viewerID, recipes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(paginated(c, page, total, views))
}

// HandleGet returns one recipe.
func (h *RecipeHandler) HandleGet(c *fiber.Ctx) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	recipe, err := h.recipes.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return h.respondRecipe(c, fiber.StatusOK, recipe)
}

// HandleCreate publishes a new recipe authored by the current user.
func (h *RecipeHandler) HandleCreate(c *fiber.Ctx) error {
	var in services.RecipeInput
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	recipe, err := h.recipes.Create(c.UserContext(), middleware.CurrentUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return h.respondRecipe(c, fiber.StatusCreated, recipe)
}

// HandleUpdate replaces the content of a recipe. Only the author may do it.
func (h *RecipeHandler) HandleUpdate(c *fiber.Ctx) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	var in services.RecipeInput
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	recipe, err := h.recipes.Update(c.UserContext(), middleware.CurrentUserID(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return h.respondRecipe(c, fiber.StatusOK, recipe)
}

// HandleDelete removes a recipe. Only the author may do it.
func (h *RecipeHandler) HandleDelete(c *fiber.Ctx) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	if err := h.recipes.Delete(c.UserContext(), middleware.CurrentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RecipeHandler) handleAdd(kind models.MembershipKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		recipe, err := h.memberships.Add(c.UserContext(), kind, middleware.CurrentUserID(c), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(newRecipeShortView(*recipe))
	}
}

func (h *RecipeHandler) handleRemove(kind models.MembershipKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		if err := h.memberships.Remove(c.UserContext(), kind, middleware.CurrentUserID(c), id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// HandleDownloadShoppingCart sends the aggregated ingredient list of the
// current user's cart as a text attachment.
func (h *RecipeHandler) HandleDownloadShoppingCart(c *fiber.Ctx) error {
	list, err := h.cart.Download(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Attachment(services.ShoppingListFilename)
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.Send(list.Render())
}

func (h *RecipeHandler) respondRecipe(c *fiber.Ctx, status int, recipe *models.Recipe) error {
	view, err := h.present.recipeView(c.UserContext(), middleware.CurrentUserID(c), recipe)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(status).JSON(view)
}

func queryBool(c *fiber.Ctx, key string) bool {
	switch c.Query(key) {
	case "1", "true", "True":
		return true
	default:
		return false
	}
}
