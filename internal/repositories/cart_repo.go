package repositories

import "shopapi/internal/models"

// CartRepository defines the interface for cart data access. A user owns at
// most one active cart, materialized by GetOrCreateActive.
type CartRepository interface {
	GetOrCreateActive(userID string) (*models.Cart, error)
	GetActiveWithItems(userID string) (*models.Cart, error)
	GetItem(itemID string) (*models.CartItem, error)
	GetItemByProduct(cartID, productID string) (*models.CartItem, error)
	AddItem(item *models.CartItem) error
	UpdateItemQuantity(itemID string, quantity int) error
	DeleteItem(itemID string) error
	ClearItems(cartID string) error
	SetStatus(cartID, status string) error
}
