package handlers

import (
	"log"

	"shopapi/internal/middleware"
	"shopapi/internal/models"
	"shopapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	productService *services.ProductService
	validate       *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app. Reads are
// public; writes require authentication.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleList)
	productRoutes.Post("/", auth, h.HandleCreate)
	productRoutes.Get("/:id", h.HandleGet)
	productRoutes.Put("/:id", auth, h.HandleUpdate)
	productRoutes.Delete("/:id", auth, h.HandleDelete)
	productRoutes.Post("/:id/increment-views", h.HandleIncrementViews)
}

// HandleList lists products. The "search" query supports free text with
// "under N"/"above N" price bounds; "category" filters by category name or
// slug including the whole subtree.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	products, err := h.productService.SearchProducts(c.Query("search"), c.Query("category"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGet retrieves a single product.
func (h *ProductHandler) HandleGet(c *fiber.Ctx) error {
	product, err := h.productService.GetProductByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleCreate creates a product owned by the authenticated seller.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing product body: %v", err)
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(product); err != nil {
		return respondValidation(c, err)
	}

	identity := middleware.IdentityFrom(c)
	if err := h.productService.CreateProduct(identity, &product); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdate partially updates a product.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	var req models.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing product update body: %v", err)
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	identity := middleware.IdentityFrom(c)
	product, err := h.productService.UpdateProduct(identity, c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleDelete removes a product.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	identity := middleware.IdentityFrom(c)
	if err := h.productService.DeleteProduct(identity, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleIncrementViews bumps a product's views counter by exactly one.
func (h *ProductHandler) HandleIncrementViews(c *fiber.Ctx) error {
	if err := h.productService.IncrementViews(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "View count incremented"})
}
