package handlers

import (
	"log"

	"shopapi/internal/middleware"
	"shopapi/internal/models"
	"shopapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles HTTP requests for product reviews.
type ReviewHandler struct {
	reviewService *services.ReviewService
	validate      *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the review routes with the Fiber app. Listing is
// public; posting requires authentication.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/products/:product_id/reviews", h.HandleList)
	router.Post("/products/:product_id/reviews", auth, h.HandleCreate)
}

// HandleList lists all reviews for a product.
func (h *ReviewHandler) HandleList(c *fiber.Ctx) error {
	reviews, err := h.reviewService.ListReviews(c.Params("product_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reviews)
}

// HandleCreate posts a review. Each user may review a product once.
func (h *ReviewHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing review body: %v", err)
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	identity := middleware.IdentityFrom(c)
	review, err := h.reviewService.CreateReview(identity.UserID, c.Params("product_id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}
