package services

import (
	"errors"
	"fmt"
	"strings"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
)

// UserService handles business logic for user profiles.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetProfile retrieves the current user's profile.
func (s *UserService) GetProfile(userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile partially updates the current user's profile. A "name" field
// is split on the first space: the first part becomes the first name, the
// remainder (if any) the last name.
func (s *UserService) UpdateProfile(userID string, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		parts := strings.SplitN(*req.Name, " ", 2)
		user.FirstName = strings.TrimSpace(parts[0])
		if len(parts) > 1 {
			user.LastName = strings.TrimSpace(parts[1])
		} else {
			user.LastName = ""
		}
	}
	if req.Email != nil {
		if existing, err := s.userRepo.GetByEmail(*req.Email); err == nil && existing != nil && existing.ID != userID {
			return nil, NewValidationError("email", fmt.Sprintf("email '%s' already registered", *req.Email))
		}
		user.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}
