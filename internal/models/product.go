package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a product in the store. Price is exact decimal money.
// Views only ever moves through the increment-views action.
type Product struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name          string          `json:"name" gorm:"type:varchar(255)" validate:"required,min=3,max=255"`
	Description   string          `json:"description" validate:"omitempty,max=2000"`
	Author        string          `json:"author,omitempty" gorm:"type:varchar(100)"`
	Specification json.RawMessage `json:"specification,omitempty" gorm:"type:text"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	Stock         int             `json:"stock" validate:"gte=0"`
	Views         int64           `json:"views"`
	CategoryID    string          `json:"category_id" gorm:"type:varchar(36);index" validate:"required,uuid"`
	SellerID      string          `json:"seller_id" gorm:"type:varchar(36);index"`
	gorm.Model
}

// UpdateProductRequest is the write shape for PUT /products/:id. Every field
// is optional; absent fields keep their current value.
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=3,max=255"`
	Description   *string          `json:"description" validate:"omitempty,max=2000"`
	Author        *string          `json:"author"`
	Specification json.RawMessage  `json:"specification"`
	Price         *decimal.Decimal `json:"price"`
	Stock         *int             `json:"stock" validate:"omitempty,gte=0"`
	CategoryID    *string          `json:"category_id" validate:"omitempty,uuid"`
}
