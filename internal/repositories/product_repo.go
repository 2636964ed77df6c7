package repositories

import (
	"shopapi/internal/models"

	"github.com/shopspring/decimal"
)

// ProductFilter narrows List results. Zero value means "everything".
// CategoryIDs, when non-nil, already includes descendant category ids as
// resolved by the catalog service.
type ProductFilter struct {
	Terms       []string
	CategoryIDs []string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(filter ProductFilter) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	IncrementViews(id string) error
}
