package handlers

import (
	"log"

	"shopapi/internal/middleware"
	"shopapi/internal/models"
	"shopapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	catalogService *services.CatalogService
	validate       *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(catalogService *services.CatalogService) *CategoryHandler {
	return &CategoryHandler{
		catalogService: catalogService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the category routes with the Fiber app.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleList)
	categoryRoutes.Post("/", auth, h.HandleCreate)
}

// HandleList lists all categories.
func (h *CategoryHandler) HandleList(c *fiber.Ctx) error {
	categories, err := h.catalogService.ListCategories()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

// HandleCreate creates a category. Admin only.
func (h *CategoryHandler) HandleCreate(c *fiber.Ctx) error {
	identity := middleware.IdentityFrom(c)
	if !identity.IsAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Only admins may create categories",
		})
	}

	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		log.Printf("Error parsing category body: %v", err)
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(category); err != nil {
		return respondValidation(c, err)
	}

	if err := h.catalogService.CreateCategory(&category); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}
