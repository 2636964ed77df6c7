package repositories

import (
	"errors"
	"fmt"

	"shopapi/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// CreateWithItems persists an order and its items, decrementing stock for
// every item in the same transaction. Any failed decrement aborts the whole
// order, leaving no Order/OrderItem rows behind.
func (r *GORMOrderRepository) CreateWithItems(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			if err := decrementStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
}

// ListByBuyer retrieves all orders placed by a buyer, items included.
func (r *GORMOrderRepository) ListByBuyer(buyerID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Where("buyer_id = ?", buyerID).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders for buyer %s: %w", buyerID, err)
	}
	return orders, nil
}

// GetByID retrieves a single order with its items.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &order, nil
}

// UpdateStatus sets the status of an order.
func (r *GORMOrderRepository) UpdateStatus(id, status string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update order %s status: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// CancelAndRestock marks an order cancelled and returns every item's
// quantity to product stock, all in one transaction.
func (r *GORMOrderRepository) CancelAndRestock(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		order, err := getOrderInTx(tx, id)
		if err != nil {
			return err
		}
		if err := restockItems(tx, order.Items); err != nil {
			return err
		}
		if err := tx.Model(order).Update("status", models.OrderCancelled).Error; err != nil {
			return fmt.Errorf("failed to cancel order %s: %w", id, err)
		}
		return nil
	})
}

// DeleteAndRestock removes a pending order entirely, restocking its items.
func (r *GORMOrderRepository) DeleteAndRestock(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		order, err := getOrderInTx(tx, id)
		if err != nil {
			return err
		}
		if err := restockItems(tx, order.Items); err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete items of order %s: %w", id, err)
		}
		if err := tx.Delete(&models.Order{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete order %s: %w", id, err)
		}
		return nil
	})
}

// GetItem retrieves a single order item.
func (r *GORMOrderRepository) GetItem(itemID string) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.db.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order item with ID %s: %w", itemID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order item %s: %w", itemID, err)
	}
	return &item, nil
}

// AddItem appends an item to a pending order, decrementing stock and
// recomputing the order total in one transaction.
func (r *GORMOrderRepository) AddItem(orderID string, item *models.OrderItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.OrderID = orderID
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := decrementStock(tx, item.ProductID, item.Quantity); err != nil {
			return err
		}
		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("failed to add order item: %w", err)
		}
		return recomputeTotal(tx, orderID)
	})
}

// UpdateItemQuantity changes an item's quantity, moving the stock delta and
// recomputing the order total in one transaction.
func (r *GORMOrderRepository) UpdateItemQuantity(itemID string, quantity int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var item models.OrderItem
		if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order item with ID %s: %w", itemID, ErrNotFound)
			}
			return fmt.Errorf("failed to get order item %s: %w", itemID, err)
		}

		delta := quantity - item.Quantity
		if delta > 0 {
			if err := decrementStock(tx, item.ProductID, delta); err != nil {
				return err
			}
		} else if delta < 0 {
			if err := incrementStock(tx, item.ProductID, -delta); err != nil {
				return err
			}
		}

		if err := tx.Model(&item).Update("quantity", quantity).Error; err != nil {
			return fmt.Errorf("failed to update order item %s: %w", itemID, err)
		}
		return recomputeTotal(tx, item.OrderID)
	})
}

// DeleteItem removes an item from a pending order, restocking it.
func (r *GORMOrderRepository) DeleteItem(itemID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var item models.OrderItem
		if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order item with ID %s: %w", itemID, ErrNotFound)
			}
			return fmt.Errorf("failed to get order item %s: %w", itemID, err)
		}
		if err := incrementStock(tx, item.ProductID, item.Quantity); err != nil {
			return err
		}
		if err := tx.Delete(&models.OrderItem{}, "id = ?", itemID).Error; err != nil {
			return fmt.Errorf("failed to delete order item %s: %w", itemID, err)
		}
		return recomputeTotal(tx, item.OrderID)
	})
}

// decrementStock takes quantity units off a product's stock only when enough
// stock remains. Zero rows affected means the product is gone or the stock
// would go negative.
func decrementStock(tx *gorm.DB, productID string, quantity int) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock for product %s: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", productID, ErrInsufficientStock)
	}
	return nil
}

func incrementStock(tx *gorm.DB, productID string, quantity int) error {
	err := tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity)).Error
	if err != nil {
		return fmt.Errorf("failed to restock product %s: %w", productID, err)
	}
	return nil
}

func restockItems(tx *gorm.DB, items []models.OrderItem) error {
	for _, item := range items {
		if err := incrementStock(tx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// recomputeTotal derives the order total from its item snapshots.
func recomputeTotal(tx *gorm.DB, orderID string) error {
	var items []models.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return fmt.Errorf("failed to load items of order %s: %w", orderID, err)
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Cost())
	}
	err := tx.Model(&models.Order{}).Where("id = ?", orderID).Update("total_cost", total).Error
	if err != nil {
		return fmt.Errorf("failed to update total of order %s: %w", orderID, err)
	}
	return nil
}

func getOrderInTx(tx *gorm.DB, id string) (*models.Order, error) {
	var order models.Order
	if err := tx.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &order, nil
}
