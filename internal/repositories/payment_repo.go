package repositories

import "shopapi/internal/models"

// PaymentRepository defines the interface for payment data access.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	Update(payment *models.Payment) error
	GetByID(id string) (*models.Payment, error)
	ListByOrder(orderID string) ([]models.Payment, error)
}
