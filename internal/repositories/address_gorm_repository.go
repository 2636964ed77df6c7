package repositories

import (
	"errors"
	"fmt"

	"shopapi/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMAddressRepository is a GORM implementation of AddressRepository.
type GORMAddressRepository struct {
	db *gorm.DB
}

// NewGORMAddressRepository creates a new instance of GORMAddressRepository.
func NewGORMAddressRepository(db *gorm.DB) *GORMAddressRepository {
	return &GORMAddressRepository{db: db}
}

// ListByUser retrieves every address owned by a user.
func (r *GORMAddressRepository) ListByUser(userID string) ([]models.Address, error) {
	var addresses []models.Address
	if err := r.db.Where("user_id = ?", userID).Find(&addresses).Error; err != nil {
		return nil, fmt.Errorf("failed to list addresses for user %s: %w", userID, err)
	}
	return addresses, nil
}

// GetByID retrieves a single address by its ID.
func (r *GORMAddressRepository) GetByID(id string) (*models.Address, error) {
	var address models.Address
	if err := r.db.First(&address, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("address with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get address %s: %w", id, err)
	}
	return &address, nil
}

// GetDefault retrieves the user's default address, if any.
func (r *GORMAddressRepository) GetDefault(userID string) (*models.Address, error) {
	var address models.Address
	err := r.db.Where("user_id = ? AND is_default = ?", userID, true).First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("default address for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get default address for user %s: %w", userID, err)
	}
	return &address, nil
}

// Create inserts a new address. A default address clears every other default
// of the same user inside the same transaction, so two concurrent default
// writes cannot leave zero or two defaults.
func (r *GORMAddressRepository) Create(address *models.Address) error {
	if address.ID == "" {
		address.ID = uuid.New().String()
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := clearOtherDefaults(tx, address.UserID, address.ID); err != nil {
				return err
			}
		}
		if err := tx.Create(address).Error; err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}
		return nil
	})
}

// Update persists changes to an address under the same default-swap rule as
// Create.
func (r *GORMAddressRepository) Update(address *models.Address) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := clearOtherDefaults(tx, address.UserID, address.ID); err != nil {
				return err
			}
		}
		res := tx.Save(address)
		if res.Error != nil {
			return fmt.Errorf("failed to update address: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("address with ID %s: %w", address.ID, ErrNotFound)
		}
		return nil
	})
}

// Delete removes an address by its ID.
func (r *GORMAddressRepository) Delete(id string) error {
	res := r.db.Delete(&models.Address{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete address %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("address with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

func clearOtherDefaults(tx *gorm.DB, userID, keepID string) error {
	err := tx.Model(&models.Address{}).
		Where("user_id = ? AND id <> ?", userID, keepID).
		Update("is_default", false).Error
	if err != nil {
		return fmt.Errorf("failed to clear previous default addresses: %w", err)
	}
	return nil
}
