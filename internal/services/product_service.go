package services

import (
	"errors"
	"fmt"
	"strings"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo         repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	catalog      *CatalogService
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, categoryRepo repositories.CategoryRepository, catalog *CatalogService) *ProductService {
	return &ProductService{
		repo:         repo,
		categoryRepo: categoryRepo,
		catalog:      catalog,
	}
}

// SearchProducts lists products, applying the free-text search query and the
// explicit category selector (name or slug, subtree included).
func (s *ProductService) SearchProducts(query, category string) ([]models.Product, error) {
	filter, err := s.catalog.BuildProductFilter(ParseSearchQuery(query), category)
	if err != nil {
		return nil, err
	}
	return s.repo.List(filter)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

// CreateProduct creates a new product owned by the given seller. Only
// sellers may create products; book categories require an author.
func (s *ProductService) CreateProduct(seller Identity, product *models.Product) error {
	if !seller.IsSeller && !seller.IsAdmin {
		return fmt.Errorf("only sellers may create products: %w", ErrPermissionDenied)
	}
	if product.Price.IsNegative() {
		return NewValidationError("price", "price must not be negative")
	}
	if product.Stock < 0 {
		return NewValidationError("stock", "stock must not be negative")
	}

	category, err := s.categoryRepo.GetByID(product.CategoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return NewValidationError("category_id", fmt.Sprintf("category %s does not exist", product.CategoryID))
		}
		return err
	}
	if err := requireAuthorForBooks(category.Name, product.Author); err != nil {
		return err
	}

	product.SellerID = seller.UserID
	product.Views = 0
	return s.repo.Create(product)
}

// UpdateProduct partially updates a product. Only the owning seller or an
// admin may modify it.
func (s *ProductService) UpdateProduct(actor Identity, id string, req models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}
	if product.SellerID != actor.UserID && !actor.IsAdmin {
		return nil, fmt.Errorf("product %s is not owned by user %s: %w", id, actor.UserID, ErrPermissionDenied)
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Author != nil {
		product.Author = *req.Author
	}
	if req.Specification != nil {
		product.Specification = req.Specification
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, NewValidationError("price", "price must not be negative")
		}
		product.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, NewValidationError("stock", "stock must not be negative")
		}
		product.Stock = *req.Stock
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}

	category, err := s.categoryRepo.GetByID(product.CategoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewValidationError("category_id", fmt.Sprintf("category %s does not exist", product.CategoryID))
		}
		return nil, err
	}
	if err := requireAuthorForBooks(category.Name, product.Author); err != nil {
		return nil, err
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct deletes a product. Only the owning seller or an admin may.
func (s *ProductService) DeleteProduct(actor Identity, id string) error {
	product, err := s.GetProductByID(id)
	if err != nil {
		return err
	}
	if product.SellerID != actor.UserID && !actor.IsAdmin {
		return fmt.Errorf("product %s is not owned by user %s: %w", id, actor.UserID, ErrPermissionDenied)
	}
	return s.repo.Delete(id)
}

// IncrementViews bumps a product's views counter by exactly one.
func (s *ProductService) IncrementViews(id string) error {
	if err := s.repo.IncrementViews(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}

func requireAuthorForBooks(categoryName, author string) error {
	name := strings.ToLower(categoryName)
	if (name == "book" || name == "books") && strings.TrimSpace(author) == "" {
		return NewValidationError("author", "author is required for book products")
	}
	return nil
}
