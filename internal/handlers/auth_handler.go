package handlers

import (
	"errors"
	"log"

	"shopapi/internal/models"
	"shopapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/token/refresh", h.HandleRefresh)
	authRoutes.Post("/logout", h.HandleLogout)
}

// HandleRegister handles new user registration and issues a token pair.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	user, pair, err := h.authService.RegisterUser(req)
	if err != nil {
		log.Printf("Error registering user: %v", err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":    user,
		"access":  pair.Access,
		"refresh": pair.Refresh,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a token pair.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	user, pair, err := h.authService.LoginUser(req.Username, req.Password)
	if err != nil {
		log.Printf("Error during login for user %s: %v", req.Username, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"user":    user,
		"access":  pair.Access,
		"refresh": pair.Refresh,
	})
}

// RefreshRequest represents the request body for token refresh and logout.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// HandleRefresh exchanges a refresh token for a new access token.
func (h *AuthHandler) HandleRefresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	pair, err := h.authService.RefreshToken(req.Refresh)
	if err != nil {
		return h.respondTokenError(c, err)
	}
	return c.JSON(fiber.Map{"access": pair.Access})
}

// HandleLogout blacklists a refresh token. Failures report what actually
// went wrong instead of a blanket 400.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	if err := h.authService.Logout(req.Refresh); err != nil {
		return h.respondTokenError(c, err)
	}
	return c.SendStatus(fiber.StatusResetContent)
}

func (h *AuthHandler) respondTokenError(c *fiber.Ctx, err error) error {
	log.Printf("Token operation failed: %v", err)
	switch {
	case errors.Is(err, services.ErrMalformedToken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Malformed refresh token",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrTokenBlacklisted):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Refresh token already blacklisted",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrInvalidToken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid or expired refresh token",
			"error":   err.Error(),
		})
	default:
		return respondError(c, err)
	}
}
