package services_test

import (
	"fmt"
	"testing"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// memReviewRepo is an in-memory ReviewRepository for service tests.
type memReviewRepo struct {
	reviews map[string]*models.Review
}

func newMemReviewRepo() *memReviewRepo {
	return &memReviewRepo{reviews: make(map[string]*models.Review)}
}

func (r *memReviewRepo) ListByProduct(productID string) ([]models.Review, error) {
	var list []models.Review
	for _, review := range r.reviews {
		if review.ProductID == productID {
			list = append(list, *review)
		}
	}
	return list, nil
}

func (r *memReviewRepo) GetByProductAndUser(productID, userID string) (*models.Review, error) {
	for _, review := range r.reviews {
		if review.ProductID == productID && review.UserID == userID {
			copied := *review
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("review: %w", repositories.ErrNotFound)
}

func (r *memReviewRepo) Create(review *models.Review) error {
	if _, err := r.GetByProductAndUser(review.ProductID, review.UserID); err == nil {
		return repositories.ErrDuplicate
	}
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	copied := *review
	r.reviews[review.ID] = &copied
	return nil
}

func TestReviewService_CreateReview(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	reviewRepo := newMemReviewRepo()
	reviewService := services.NewReviewService(reviewRepo, productRepo)

	product := &models.Product{Name: "Widget", Stock: 1}
	assert.NoError(t, productRepo.Create(product))

	review, err := reviewService.CreateReview("user-1", product.ID, models.CreateReviewRequest{
		Rating: 4,
		Text:   "Does what it says",
	})
	assert.NoError(t, err)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, "user-1", review.UserID)

	// One review per user per product
	_, err = reviewService.CreateReview("user-1", product.ID, models.CreateReviewRequest{Rating: 5})
	var vErr *services.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields["product_id"], "already reviewed")

	// A different user may still review it
	_, err = reviewService.CreateReview("user-2", product.ID, models.CreateReviewRequest{Rating: 2})
	assert.NoError(t, err)

	reviews, err := reviewService.ListReviews(product.ID)
	assert.NoError(t, err)
	assert.Len(t, reviews, 2)

	// Unknown product
	_, err = reviewService.CreateReview("user-1", "missing", models.CreateReviewRequest{Rating: 3})
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = reviewService.ListReviews("missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
