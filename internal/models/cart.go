package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart statuses.
const (
	CartActive    = "active"
	CartAbandoned = "abandoned"
	CartOrdered   = "ordered"
)

// Cart holds a buyer's pre-order selections. A user has at most one active
// cart, materialized lazily by get-or-create.
type Cart struct {
	ID     string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID string     `json:"user_id" gorm:"type:varchar(36);index"`
	Status string     `json:"status" gorm:"type:varchar(20);default:active"`
	Items  []CartItem `json:"items" gorm:"foreignKey:CartID"`
	gorm.Model
}

// CartItem is one (cart, product) line. Cost is not snapshotted; totals are
// recomputed from the live product price on every read. Items are hard
// deleted so the (cart, product) unique index survives remove-then-re-add.
type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string    `json:"cart_id" gorm:"type:varchar(36);uniqueIndex:idx_cart_product"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);uniqueIndex:idx_cart_product"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
	Product   Product   `json:"product" gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddCartItemRequest is the write shape for POST /cart.
type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// UpdateCartItemRequest is the write shape for PATCH/PUT /cart/:item_id.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// CartItemView is a cart line with its live cost.
type CartItemView struct {
	CartItem
	TotalCost decimal.Decimal `json:"total_cost"`
}

// CartView is the read shape for GET /mycart.
type CartView struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Status    string          `json:"status"`
	Items     []CartItemView  `json:"items"`
	TotalCost decimal.Decimal `json:"total_cost"`
}
