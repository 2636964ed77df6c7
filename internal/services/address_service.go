package services

import (
	"errors"
	"fmt"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
)

// AddressService handles business logic for address books. The single-
// default invariant itself lives in the repository, which clears competing
// defaults in the same transaction as the write.
type AddressService struct {
	addressRepo repositories.AddressRepository
}

// NewAddressService creates a new AddressService.
func NewAddressService(addressRepo repositories.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// ListAddresses retrieves the user's address book.
func (s *AddressService) ListAddresses(userID string) ([]models.Address, error) {
	return s.addressRepo.ListByUser(userID)
}

// CreateAddress adds an address to the user's book. The first address a user
// creates becomes their default automatically.
func (s *AddressService) CreateAddress(userID string, address *models.Address) error {
	address.UserID = userID
	existing, err := s.addressRepo.ListByUser(userID)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		address.IsDefault = true
	}
	return s.addressRepo.Create(address)
}

// UpdateAddress modifies an address owned by the user.
func (s *AddressService) UpdateAddress(userID, id string, updated *models.Address) (*models.Address, error) {
	address, err := s.ownedAddress(userID, id)
	if err != nil {
		return nil, err
	}

	address.AddressLine1 = updated.AddressLine1
	address.City = updated.City
	address.State = updated.State
	address.ZipCode = updated.ZipCode
	address.IsDefault = updated.IsDefault

	if err := s.addressRepo.Update(address); err != nil {
		return nil, err
	}
	return address, nil
}

// DeleteAddress removes an address owned by the user.
func (s *AddressService) DeleteAddress(userID, id string) error {
	if _, err := s.ownedAddress(userID, id); err != nil {
		return err
	}
	return s.addressRepo.Delete(id)
}

func (s *AddressService) ownedAddress(userID, id string) (*models.Address, error) {
	address, err := s.addressRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("address %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if address.UserID != userID {
		return nil, fmt.Errorf("address %s belongs to another user: %w", id, ErrPermissionDenied)
	}
	return address, nil
}
