package handlers

import (
	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the read-only tag and ingredient catalogs.
// Neither listing is paginated.
type CatalogHandler struct {
	catalog *services.CatalogService
}

func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/tags", h.HandleListTags)
	router.Get("/tags/:id<int>", h.HandleGetTag)
	router.Get("/ingredients", h.HandleListIngredients)
	router.Get("/ingredients/:id<int>", h.HandleGetIngredient)
}

func (h *CatalogHandler) HandleListTags(c *fiber.Ctx) error {
	tags, err := h.catalog.ListTags(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newTagViews(tags))
}

func (h *CatalogHandler) HandleGetTag(c *fiber.Ctx) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	tag, err := h.catalog.GetTag(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newTagView(*tag))
}

// HandleListIngredients searches by the name query parameter.
func (h *CatalogHandler) HandleListIngredients(c *fiber.Ctx) error {
	ingredients, err := h.catalog.SearchIngredients(c.UserContext(), c.Query("name"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newIngredientViews(ingredients))
}

func (h *CatalogHandler) HandleGetIngredient(c *fiber.Ctx) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	ingredient, err := h.catalog.GetIngredient(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newIngredientView(*ingredient))
}
