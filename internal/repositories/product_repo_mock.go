package repositories

import (
	"fmt"
	"strings"
	"sync"

	"shopapi/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// It mirrors the SQL filter semantics of the GORM implementation so unit
// tests can exercise search and stock behaviour without a database.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// List returns all products matching the filter.
func (r *MockProductRepository) List(filter ProductFilter) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categorySet := map[string]bool{}
	for _, id := range filter.CategoryIDs {
		categorySet[id] = true
	}

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.CategoryIDs != nil && !categorySet[p.CategoryID] {
			continue
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		matched := true
		for _, term := range filter.Terms {
			if !strings.Contains(strings.ToLower(p.Name), term) {
				matched = false
				break
			}
		}
		if matched {
			productList = append(productList, p)
		}
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	return &product, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrNotFound)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	delete(r.products, id)
	return nil
}

// IncrementViews bumps only the views counter.
func (r *MockProductRepository) IncrementViews(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	product.Views++
	r.products[id] = product
	return nil
}

// adjustStock applies a stock delta with the same conditional semantics as
// the SQL decrement. Used by MockOrderRepository.
func (r *MockProductRepository) adjustStock(productID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[productID]
	if !ok || product.Stock+delta < 0 {
		return fmt.Errorf("product %s: %w", productID, ErrInsufficientStock)
	}
	product.Stock += delta
	r.products[productID] = product
	return nil
}
