package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account. Buyers and sellers share the same
// table; IsSeller gates product ownership, IsAdmin gates moderation.
type User struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username    string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email       string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password    string `json:"-" gorm:"type:varchar(255)"`
	FirstName   string `json:"first_name" gorm:"type:varchar(100)"`
	LastName    string `json:"last_name" gorm:"type:varchar(100)"`
	PhoneNumber string `json:"phone_number" gorm:"type:varchar(10)" validate:"omitempty,len=10,numeric"`
	IsSeller    bool   `json:"is_seller"`
	IsAdmin     bool   `json:"-"`
	gorm.Model
}

// BlacklistedToken records a refresh token revoked by logout. Rows past
// ExpiresAt hold tokens that are expired anyway.
type BlacklistedToken struct {
	ID        uint      `gorm:"primaryKey"`
	Token     string    `gorm:"uniqueIndex;type:varchar(512)"`
	ExpiresAt time.Time
}

// RegisterRequest is the write shape for POST /auth/register.
type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Password2   string `json:"password2" validate:"required,eqfield=Password"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,len=10,numeric"`
	IsSeller    bool   `json:"is_seller"`
}

// UpdateProfileRequest is the write shape for PUT /users/profile. Name, when
// present, is split on the first space into first and last name.
type UpdateProfileRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,len=10,numeric"`
}

// TokenPair is returned by register, login and refresh.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}
