package repositories

import (
	"errors"
	"fmt"

	"shopapi/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{db: db}
}

// ListByProduct retrieves all reviews of a product.
func (r *GORMReviewRepository) ListByProduct(productID string) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Where("product_id = ?", productID).Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews for product %s: %w", productID, err)
	}
	return reviews, nil
}

// GetByProductAndUser retrieves a user's review of a product, if any.
func (r *GORMReviewRepository) GetByProductAndUser(productID, userID string) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("product_id = ? AND user_id = ?", productID, userID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review by user %s for product %s: %w", userID, productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &review, nil
}

// Create inserts a new review.
func (r *GORMReviewRepository) Create(review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if err := r.db.Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user %s already reviewed product %s: %w", review.UserID, review.ProductID, ErrDuplicate)
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}
