package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment statuses, as reported back by the gateway.
const (
	PaymentPending = "Pending"
	PaymentFailed  = "Failed"
	PaymentSuccess = "Success"
)

// Payment records one payment attempt against an order. The gateway call
// itself is external; Reference holds the gateway's transaction id.
type Payment struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string          `json:"order_id" gorm:"type:varchar(36);index"`
	Method    string          `json:"method" gorm:"type:varchar(20)" validate:"required,oneof=card netbanking upi cod"`
	Status    string          `json:"status" gorm:"type:varchar(20);default:Pending"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(12,2)"`
	Reference string          `json:"reference" gorm:"type:varchar(255)"`
	gorm.Model
}

// InitializePaymentRequest is the write shape for POST /payments/initialize.
type InitializePaymentRequest struct {
	OrderID string `json:"order_id" validate:"required,uuid"`
	Method  string `json:"method" validate:"required,oneof=card netbanking upi cod"`
}
