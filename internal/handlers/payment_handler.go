package handlers

import (
	"log"

	"shopapi/internal/middleware"
	"shopapi/internal/models"
	"shopapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentService *services.PaymentService
	validate       *validator.Validate
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the payment routes with the Fiber app.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/payments/initialize", auth, h.HandleInitialize)
}

// HandleInitialize charges an order through the payment gateway and records
// the outcome.
func (h *PaymentHandler) HandleInitialize(c *fiber.Ctx) error {
	var req models.InitializePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing payment body: %v", err)
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	identity := middleware.IdentityFrom(c)
	payment, err := h.paymentService.InitializePayment(c.Context(), identity, req)
	if err != nil {
		log.Printf("Error initializing payment: %v", err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(payment)
}
