package handlers

import (
	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Auth          *services.AuthService
	Users         *services.UserService
	Recipes       *services.RecipeService
	Memberships   *services.MembershipService
	ShoppingCart  *services.ShoppingCartService
	Subscriptions *services.SubscriptionService
	Catalog       *services.CatalogService
}

// Register mounts every API handler on router.
func Register(router fiber.Router, svc Services, paging Paging) {
	NewAuthHandler(svc.Auth).RegisterRoutes(router)
	NewUserHandler(svc.Auth, svc.Users, svc.Recipes, svc.Subscriptions, paging).RegisterRoutes(router)
	NewRecipeHandler(svc.Auth, svc.Recipes, svc.Memberships, svc.ShoppingCart, svc.Subscriptions, paging).RegisterRoutes(router)
	NewCatalogHandler(svc.Catalog).RegisterRoutes(router)
}
