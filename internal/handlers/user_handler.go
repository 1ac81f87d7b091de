package handlers

import (
	"foodgram/internal/middleware"
	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler serves accounts and subscriptions.
type UserHandler struct {
	auth          *services.AuthService
	users         *services.UserService
	subscriptions *services.SubscriptionService
	present       presenter
	paging        Paging
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(auth *services.AuthService, users *services.UserService, recipes *services.RecipeService, subscriptions *services.SubscriptionService, paging Paging) *UserHandler {
	return &UserHandler{
		auth:          auth,
		users:         users,
		subscriptions: subscriptions,
		present:       presenter{recipes: recipes, subscriptions: subscriptions},
		paging:        paging,
	}
}

// RegisterRoutes registers the user routes.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	optional := middleware.OptionalAuth(h.auth)
	required := middleware.AuthRequired(h.auth)

	users := router.Group("/users")
	users.Get("/", optional, h.HandleList)
	users.Post("/", h.HandleRegister)
	users.Get("/me", required, h.HandleMe)
	users.Delete("/me", required, h.HandleDeleteMe)
	users.Post("/set_password", required, h.HandleSetPassword)
	users.Get("/subscriptions", required, h.HandleSubscriptions)
	users.Get("/:id<int>", optional, h.HandleGet)
	users.Post("/:id<int>/subscribe", required, h.HandleSubscribe)
	users.Delete("/:id<int>/subscribe", required, h.HandleUnsubscribe)
}

// HandleRegister creates an account.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var in services.RegisterInput
	if ok, err := parseBody(c, &in); !ok {
		return err
	}

	user, err := h.auth.RegisterUser(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"email":      user.Email,
		"id":         user.ID,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

// HandleList returns a page of users.
func (h *UserHandler) HandleList(c *fiber.Ctx) error {
	page := h.paging.page(c)
	users, total, err := h.users.List(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	views, err := h.present.userViews(c.UserContext(), middleware.CurrentUserID(c), users)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(paginated(c, page, total, views))
}

// HandleGet returns one user profile.
func (h *UserHandler) HandleGet(c *fiber.Ctx) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	user, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	following, err := h.subscriptions.IsFollowing(c.UserContext(), middleware.CurrentUserID(c), []uint{user.ID})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newUserView(*user, following[user.ID]))
}

// HandleMe returns the profile of the current user.
func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newUserView(*user, false))
}

// HandleDeleteMe removes the current account.
func (h *UserHandler) HandleDeleteMe(c *fiber.Ctx) error {
	if err := h.users.Delete(c.UserContext(), middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSetPassword changes the password of the current user.
func (h *UserHandler) HandleSetPassword(c *fiber.Ctx) error {
	var in services.SetPasswordInput
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	if err := h.auth.ChangePassword(c.UserContext(), middleware.CurrentUserID(c), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSubscriptions lists the authors the current user follows, each
// with a preview of their newest recipes.
func (h *UserHandler) HandleSubscriptions(c *fiber.Ctx) error {
	page := h.paging.page(c)
	entries, total, err := h.subscriptions.List(c.UserContext(), middleware.CurrentUserID(c), page, c.QueryInt("recipes_limit", -1))
	if err != nil {
		return respondError(c, err)
	}
	views := make([]SubscriptionView, len(entries))
	for i, entry := range entries {
		views[i] = newSubscriptionView(entry)
	}
	return c.JSON(paginated(c, page, total, views))
}

// HandleSubscribe follows the author in the path.
func (h *UserHandler) HandleSubscribe(c *fiber.Ctx) error {
	authorID, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	entry, err := h.subscriptions.Subscribe(c.UserContext(), middleware.CurrentUserID(c), authorID, c.QueryInt("recipes_limit", -1))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newSubscriptionView(*entry))
}

// HandleUnsubscribe stops following the author in the path.
func (h *UserHandler) HandleUnsubscribe(c *fiber.Ctx) error {
	authorID, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	if err := h.subscriptions.Unsubscribe(c.UserContext(), middleware.CurrentUserID(c), authorID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
