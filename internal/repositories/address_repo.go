package repositories

import "shopapi/internal/models"

// AddressRepository defines the interface for address-book data access.
// Save enforces the single-default invariant: when the address being written
// has IsDefault=true, every other default of the same user is cleared in the
// same transaction as the write.
type AddressRepository interface {
	ListByUser(userID string) ([]models.Address, error)
	GetByID(id string) (*models.Address, error)
	GetDefault(userID string) (*models.Address, error)
	Create(address *models.Address) error
	Update(address *models.Address) error
	Delete(id string) error
}
