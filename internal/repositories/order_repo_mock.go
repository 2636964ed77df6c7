package repositories

import (
	"fmt"
	"sync"

	"shopapi/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockOrderRepository is an in-memory implementation of OrderRepository. It
// moves stock through the supplied MockProductRepository so order unit tests
// observe the same all-or-nothing semantics as the GORM transaction.
type MockOrderRepository struct {
	orders   map[string]models.Order
	products *MockProductRepository
	mu       sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository(products *MockProductRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:   make(map[string]models.Order),
		products: products,
	}
}

// CreateWithItems stores an order after decrementing stock for every item.
// On a failed decrement, previously decremented items are rolled back.
func (r *MockOrderRepository) CreateWithItems(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}

	var done []models.OrderItem
	for _, item := range order.Items {
		if err := r.products.adjustStock(item.ProductID, -item.Quantity); err != nil {
			for _, d := range done {
				_ = r.products.adjustStock(d.ProductID, d.Quantity)
			}
			return err
		}
		done = append(done, item)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = *order
	return nil
}

// ListByBuyer returns all orders of one buyer.
func (r *MockOrderRepository) ListByBuyer(buyerID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if order.BuyerID == buyerID {
			orderList = append(orderList, order)
		}
	}
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	return &order, nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	order.Status = status
	r.orders[id] = order
	return nil
}

// CancelAndRestock cancels an order and returns its items to stock.
func (r *MockOrderRepository) CancelAndRestock(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	for _, item := range order.Items {
		_ = r.products.adjustStock(item.ProductID, item.Quantity)
	}
	order.Status = models.OrderCancelled
	r.orders[id] = order
	return nil
}

// DeleteAndRestock removes an order entirely, restocking its items.
func (r *MockOrderRepository) DeleteAndRestock(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	for _, item := range order.Items {
		_ = r.products.adjustStock(item.ProductID, item.Quantity)
	}
	delete(r.orders, id)
	return nil
}

// GetItem returns an order item by its ID.
func (r *MockOrderRepository) GetItem(itemID string) (*models.OrderItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		for _, item := range order.Items {
			if item.ID == itemID {
				return &item, nil
			}
		}
	}
	return nil, fmt.Errorf("order item with ID %s: %w", itemID, ErrNotFound)
}

// AddItem appends an item to an order, decrementing stock.
func (r *MockOrderRepository) AddItem(orderID string, item *models.OrderItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.OrderID = orderID

	if err := r.products.adjustStock(item.ProductID, -item.Quantity); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		_ = r.products.adjustStock(item.ProductID, item.Quantity)
		return fmt.Errorf("order with ID %s: %w", orderID, ErrNotFound)
	}
	order.Items = append(order.Items, *item)
	order.TotalCost = sumItems(order.Items)
	r.orders[orderID] = order
	return nil
}

// UpdateItemQuantity changes an item's quantity, moving the stock delta.
func (r *MockOrderRepository) UpdateItemQuantity(itemID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for orderID, order := range r.orders {
		for i, item := range order.Items {
			if item.ID != itemID {
				continue
			}
			if err := r.products.adjustStock(item.ProductID, item.Quantity-quantity); err != nil {
				return err
			}
			order.Items[i].Quantity = quantity
			order.TotalCost = sumItems(order.Items)
			r.orders[orderID] = order
			return nil
		}
	}
	return fmt.Errorf("order item with ID %s: %w", itemID, ErrNotFound)
}

// DeleteItem removes an item from an order, restocking it.
func (r *MockOrderRepository) DeleteItem(itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for orderID, order := range r.orders {
		for i, item := range order.Items {
			if item.ID != itemID {
				continue
			}
			_ = r.products.adjustStock(item.ProductID, item.Quantity)
			order.Items = append(order.Items[:i], order.Items[i+1:]...)
			order.TotalCost = sumItems(order.Items)
			r.orders[orderID] = order
			return nil
		}
	}
	return fmt.Errorf("order item with ID %s: %w", itemID, ErrNotFound)
}

func sumItems(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Cost())
	}
	return total
}
