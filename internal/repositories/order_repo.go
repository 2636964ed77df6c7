package repositories

import "shopapi/internal/models"

// OrderRepository defines the interface for order data access. Every write
// that touches stock runs the stock movement and the order rows in one
// transaction; the decrement is conditional (stock >= quantity) so
// concurrent orders cannot oversell.
type OrderRepository interface {
	CreateWithItems(order *models.Order) error
	ListByBuyer(buyerID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	UpdateStatus(id, status string) error
	CancelAndRestock(id string) error
	DeleteAndRestock(id string) error
	GetItem(itemID string) (*models.OrderItem, error)
	AddItem(orderID string, item *models.OrderItem) error
	UpdateItemQuantity(itemID string, quantity int) error
	DeleteItem(itemID string) error
}
