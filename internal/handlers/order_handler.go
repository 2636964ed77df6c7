package handlers

import (
	"log"

	"shopapi/internal/middleware"
	"shopapi/internal/models"
	"shopapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders and their nested items.
type OrderHandler struct {
	orderService *services.OrderService
	validate     *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	orderRoutes := router.Group("/orders", auth)
	orderRoutes.Get("/", h.HandleList)
	orderRoutes.Post("/", h.HandleCreate)
	orderRoutes.Get("/:id", h.HandleGet)
	orderRoutes.Put("/:id", h.HandleUpdateStatus)
	orderRoutes.Patch("/:id/cancel", h.HandleCancel)
	orderRoutes.Delete("/:id", h.HandleDelete)

	orderRoutes.Get("/:order_id/items", h.HandleListItems)
	orderRoutes.Post("/:order_id/items", h.HandleAddItem)
	orderRoutes.Put("/:order_id/items/:item_id", h.HandleUpdateItem)
	orderRoutes.Delete("/:order_id/items/:item_id", h.HandleRemoveItem)
}

// HandleList retrieves the caller's orders.
func (h *OrderHandler) HandleList(c *fiber.Ctx) error {
	orders, err := h.orderService.ListOrders(middleware.IdentityFrom(c))
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGet retrieves a single order owned by the caller.
func (h *OrderHandler) HandleGet(c *fiber.Ctx) error {
	order, err := h.orderService.GetOrder(middleware.IdentityFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleCreate places an order from a single product or a set of cart
// items.
func (h *OrderHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order body: %v", err)
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	order, err := h.orderService.CreateOrder(middleware.IdentityFrom(c), req)
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleUpdateStatus advances an order along its linear lifecycle.
func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req models.UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	order, err := h.orderService.UpdateOrderStatus(middleware.IdentityFrom(c), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleCancel cancels a pending order, restocking its items.
func (h *OrderHandler) HandleCancel(c *fiber.Ctx) error {
	order, err := h.orderService.CancelOrder(middleware.IdentityFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleDelete removes a pending order, restocking its items.
func (h *OrderHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.orderService.DeleteOrder(middleware.IdentityFrom(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListItems lists the items of one order.
func (h *OrderHandler) HandleListItems(c *fiber.Ctx) error {
	items, err := h.orderService.ListOrderItems(middleware.IdentityFrom(c), c.Params("order_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// HandleAddItem appends a product to a pending order.
func (h *OrderHandler) HandleAddItem(c *fiber.Ctx) error {
	var req models.OrderItemRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	item, err := h.orderService.AddOrderItem(middleware.IdentityFrom(c), c.Params("order_id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdateItem changes an item's quantity on a pending order.
func (h *OrderHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req models.UpdateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	item, err := h.orderService.UpdateOrderItem(middleware.IdentityFrom(c), c.Params("order_id"), c.Params("item_id"), req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// HandleRemoveItem removes an item from a pending order.
func (h *OrderHandler) HandleRemoveItem(c *fiber.Ctx) error {
	if err := h.orderService.RemoveOrderItem(middleware.IdentityFrom(c), c.Params("order_id"), c.Params("item_id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
