package repositories

import (
	"errors"
	"fmt"

	"shopapi/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// GetOrCreateActive returns the user's active cart, creating one if absent.
func (r *GORMCartRepository) GetOrCreateActive(userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Where("user_id = ? AND status = ?", userID, models.CartActive).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get active cart for user %s: %w", userID, err)
	}

	cart = models.Cart{
		ID:     uuid.New().String(),
		UserID: userID,
		Status: models.CartActive,
	}
	if err := r.db.Create(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart for user %s: %w", userID, err)
	}
	return &cart, nil
}

// GetActiveWithItems returns the active cart with items and their products
// preloaded, so totals can be computed from live prices.
func (r *GORMCartRepository) GetActiveWithItems(userID string) (*models.Cart, error) {
	cart, err := r.GetOrCreateActive(userID)
	if err != nil {
		return nil, err
	}
	if err := r.db.Preload("Items.Product").First(cart, "id = ?", cart.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart items for cart %s: %w", cart.ID, err)
	}
	return cart, nil
}

// GetItem retrieves a cart item by its ID.
func (r *GORMCartRepository) GetItem(itemID string) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item with ID %s: %w", itemID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart item %s: %w", itemID, err)
	}
	return &item, nil
}

// GetItemByProduct retrieves the line for a product already in the cart.
func (r *GORMCartRepository) GetItemByProduct(cartID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart %s has no item for product %s: %w", cartID, productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart item by product: %w", err)
	}
	return &item, nil
}

// AddItem inserts a new cart line.
func (r *GORMCartRepository) AddItem(item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

// UpdateItemQuantity sets the quantity of an existing cart line.
func (r *GORMCartRepository) UpdateItemQuantity(itemID string, quantity int) error {
	res := r.db.Model(&models.CartItem{}).Where("id = ?", itemID).Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item %s: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item with ID %s: %w", itemID, ErrNotFound)
	}
	return nil
}

// DeleteItem removes one line from a cart.
func (r *GORMCartRepository) DeleteItem(itemID string) error {
	res := r.db.Delete(&models.CartItem{}, "id = ?", itemID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item %s: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item with ID %s: %w", itemID, ErrNotFound)
	}
	return nil
}

// ClearItems removes every line from a cart.
func (r *GORMCartRepository) ClearItems(cartID string) error {
	if err := r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart %s: %w", cartID, err)
	}
	return nil
}

// SetStatus moves a cart between active/abandoned/ordered.
func (r *GORMCartRepository) SetStatus(cartID, status string) error {
	res := r.db.Model(&models.Cart{}).Where("id = ?", cartID).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to set cart %s status: %w", cartID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart with ID %s: %w", cartID, ErrNotFound)
	}
	return nil
}
