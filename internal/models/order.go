package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order statuses. Transitions are linear (pending -> shipped -> delivered);
// cancellation is only reachable from pending.
const (
	OrderPending   = "pending"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// Order is an immutable-once-shipped purchase. Address refs are nullable so
// deleting an address does not orphan historical orders.
type Order struct {
	ID                string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BuyerID           string          `json:"buyer_id" gorm:"type:varchar(36);index"`
	BillingAddressID  *string         `json:"billing_address_id" gorm:"type:varchar(36)"`
	ShippingAddressID *string         `json:"shipping_address_id" gorm:"type:varchar(36)"`
	Status            string          `json:"status" gorm:"type:varchar(20);default:pending"`
	TotalCost         decimal.Decimal `json:"total_cost" gorm:"type:decimal(12,2)"`
	Items             []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	gorm.Model
}

// OrderItem snapshots the unit price at purchase time so later catalog price
// changes never re-price history. Items are hard deleted (pending orders
// only) so the (order, product) unique index stays clean.
type OrderItem struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string          `json:"order_id" gorm:"type:varchar(36);uniqueIndex:idx_order_product"`
	ProductID string          `json:"product_id" gorm:"type:varchar(36);uniqueIndex:idx_order_product"`
	Quantity  int             `json:"quantity" validate:"gte=1"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Cost is the line total for this item.
func (i OrderItem) Cost() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderItemRequest is one requested line in CreateOrderRequest.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"omitempty,gte=1"`
}

// CreateOrderRequest is the write shape for POST /orders. Exactly one of
// ProductID (single-product purchase) or CartItems must be supplied.
type CreateOrderRequest struct {
	ProductID         string             `json:"product_id" validate:"omitempty,uuid"`
	Quantity          int                `json:"quantity" validate:"omitempty,gte=1"`
	CartItems         []OrderItemRequest `json:"cart_items" validate:"omitempty,dive"`
	BillingAddressID  string             `json:"billing_address_id" validate:"omitempty,uuid"`
	ShippingAddressID string             `json:"shipping_address_id" validate:"omitempty,uuid"`
}

// UpdateOrderStatusRequest is the write shape for PUT /orders/:id.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending shipped delivered"`
}
