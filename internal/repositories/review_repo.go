package repositories

import "shopapi/internal/models"

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	ListByProduct(productID string) ([]models.Review, error)
	GetByProductAndUser(productID, userID string) (*models.Review, error)
	Create(review *models.Review) error
}
