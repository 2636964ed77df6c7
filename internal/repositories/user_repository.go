package repositories

import "shopapi/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	Update(user *models.User) error
}

// TokenRepository tracks blacklisted refresh tokens.
type TokenRepository interface {
	Blacklist(token *models.BlacklistedToken) error
	IsBlacklisted(token string) (bool, error)
}
