package handlers

import (
	"log"

	"shopapi/internal/middleware"
	"shopapi/internal/models"
	"shopapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the shopping cart.
type CartHandler struct {
	cartService *services.CartService
	validate    *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app. All cart
// routes require authentication. "/cart/clear" is registered before
// "/cart/:item_id" so it is not swallowed by the parameter route.
func (h *CartHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/mycart", auth, h.HandleGetCart)
	cartRoutes := router.Group("/cart", auth)
	cartRoutes.Post("/", h.HandleAddItem)
	cartRoutes.Delete("/clear", h.HandleClear)
	cartRoutes.Patch("/:item_id", h.HandleUpdateItem)
	cartRoutes.Put("/:item_id", h.HandleUpdateItem)
	cartRoutes.Delete("/:item_id", h.HandleRemoveItem)
}

// HandleGetCart returns the user's active cart with live totals.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	identity := middleware.IdentityFrom(c)
	cart, err := h.cartService.GetCart(identity.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}

// HandleAddItem puts a product into the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req models.AddCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing cart item body: %v", err)
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	identity := middleware.IdentityFrom(c)
	item, err := h.cartService.AddItem(identity.UserID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdateItem sets the quantity of a cart line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req models.UpdateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	identity := middleware.IdentityFrom(c)
	item, err := h.cartService.UpdateItem(identity.UserID, c.Params("item_id"), req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// HandleRemoveItem deletes one cart line.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	identity := middleware.IdentityFrom(c)
	if err := h.cartService.RemoveItem(identity.UserID, c.Params("item_id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleClear empties the active cart.
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	identity := middleware.IdentityFrom(c)
	if err := h.cartService.Clear(identity.UserID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
