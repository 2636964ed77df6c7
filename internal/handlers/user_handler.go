package handlers

import (
	"log"

	"shopapi/internal/middleware"
	"shopapi/internal/models"
	"shopapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user profiles.
type UserHandler struct {
	userService *services.UserService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the profile routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/profile", auth, h.HandleGetProfile)
	userRoutes.Put("/profile", auth, h.HandleUpdateProfile)
}

// HandleGetProfile returns the current user's profile.
func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	identity := middleware.IdentityFrom(c)
	user, err := h.userService.GetProfile(identity.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// HandleUpdateProfile partially updates the current user's profile. A
// "name" field is split into first and last name.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req models.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing profile update body: %v", err)
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	identity := middleware.IdentityFrom(c)
	user, err := h.userService.UpdateProfile(identity.UserID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
