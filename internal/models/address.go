package models

import "gorm.io/gorm"

// Address is a shipping/billing entry in a user's address book. At most one
// address per user carries IsDefault=true; the repository enforces the swap
// inside a single transaction.
type Address struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID       string `json:"user_id" gorm:"type:varchar(36);index"`
	AddressLine1 string `json:"address_line_1" validate:"required,min=3,max=255"`
	City         string `json:"city" gorm:"type:varchar(100)" validate:"required,max=100"`
	State        string `json:"state" gorm:"type:varchar(100)" validate:"required,max=100"`
	ZipCode      string `json:"zip_code" gorm:"type:varchar(20)" validate:"required,max=20"`
	IsDefault    bool   `json:"is_default"`
	gorm.Model
}
