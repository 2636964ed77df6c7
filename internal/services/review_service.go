package services

import (
	"errors"
	"fmt"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
)

// ReviewService handles business logic for product reviews.
type ReviewService struct {
	reviewRepo  repositories.ReviewRepository
	productRepo repositories.ProductRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviewRepo repositories.ReviewRepository, productRepo repositories.ProductRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// ListReviews retrieves all reviews of a product.
func (s *ReviewService) ListReviews(productID string) ([]models.Review, error) {
	if _, err := s.productRepo.GetByID(productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		return nil, err
	}
	return s.reviewRepo.ListByProduct(productID)
}

// CreateReview records a user's review of a product. A user may review a
// product only once.
func (s *ReviewService) CreateReview(userID, productID string, req models.CreateReviewRequest) (*models.Review, error) {
	if _, err := s.productRepo.GetByID(productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		return nil, err
	}

	if _, err := s.reviewRepo.GetByProductAndUser(productID, userID); err == nil {
		return nil, NewValidationError("product_id", "you have already reviewed this product")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    req.Rating,
		Text:      req.Text,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, NewValidationError("product_id", "you have already reviewed this product")
		}
		return nil, err
	}
	return review, nil
}
