package repositories

import (
	"errors"
	"fmt"

	"shopapi/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPaymentRepository is a GORM implementation of PaymentRepository.
type GORMPaymentRepository struct {
	db *gorm.DB
}

// NewGORMPaymentRepository creates a new instance of GORMPaymentRepository.
func NewGORMPaymentRepository(db *gorm.DB) *GORMPaymentRepository {
	return &GORMPaymentRepository{db: db}
}

// Create inserts a new payment record.
func (r *GORMPaymentRepository) Create(payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if err := r.db.Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// Update persists changes to a payment record.
func (r *GORMPaymentRepository) Update(payment *models.Payment) error {
	res := r.db.Save(payment)
	if res.Error != nil {
		return fmt.Errorf("failed to update payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("payment with ID %s: %w", payment.ID, ErrNotFound)
	}
	return nil
}

// GetByID retrieves a single payment by its ID.
func (r *GORMPaymentRepository) GetByID(id string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get payment %s: %w", id, err)
	}
	return &payment, nil
}

// ListByOrder retrieves every payment attempt recorded against an order.
func (r *GORMPaymentRepository) ListByOrder(orderID string) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.Where("order_id = ?", orderID).Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments for order %s: %w", orderID, err)
	}
	return payments, nil
}
