package services

import (
	"errors"
	"fmt"

	"shopapi/internal/models"
	"shopapi/internal/repositories"

	"github.com/shopspring/decimal"
)

// CartService handles business logic for shopping carts.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the user's active cart with line and cart totals computed
// from live product prices; a later product price change shows up on the
// next read.
func (s *CartService) GetCart(userID string) (*models.CartView, error) {
	cart, err := s.cartRepo.GetActiveWithItems(userID)
	if err != nil {
		return nil, err
	}

	view := &models.CartView{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Status:    cart.Status,
		Items:     make([]models.CartItemView, 0, len(cart.Items)),
		TotalCost: decimal.Zero,
	}
	for _, item := range cart.Items {
		cost := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Items = append(view.Items, models.CartItemView{CartItem: item, TotalCost: cost})
		view.TotalCost = view.TotalCost.Add(cost)
	}
	return view, nil
}

// AddItem puts a product into the user's active cart. Adding a product
// already in the cart increases the line quantity instead of duplicating it.
func (s *CartService) AddItem(userID string, req models.AddCartItemRequest) (*models.CartItem, error) {
	product, err := s.productRepo.GetByID(req.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewValidationError("product_id", fmt.Sprintf("product %s does not exist", req.ProductID))
		}
		return nil, err
	}
	if req.Quantity > product.Stock {
		return nil, NewValidationError("quantity", fmt.Sprintf("requested %d but only %d in stock", req.Quantity, product.Stock))
	}

	cart, err := s.cartRepo.GetOrCreateActive(userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.cartRepo.GetItemByProduct(cart.ID, req.ProductID)
	if err == nil {
		newQuantity := existing.Quantity + req.Quantity
		if newQuantity > product.Stock {
			return nil, NewValidationError("quantity", fmt.Sprintf("cart would hold %d but only %d in stock", newQuantity, product.Stock))
		}
		if err := s.cartRepo.UpdateItemQuantity(existing.ID, newQuantity); err != nil {
			return nil, err
		}
		existing.Quantity = newQuantity
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	item := &models.CartItem{
		CartID:    cart.ID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}
	if err := s.cartRepo.AddItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem sets the quantity of a cart line owned by the user.
func (s *CartService) UpdateItem(userID, itemID string, quantity int) (*models.CartItem, error) {
	item, err := s.ownedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(item.ProductID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, NewValidationError("quantity", fmt.Sprintf("requested %d but only %d in stock", quantity, product.Stock))
	}

	if err := s.cartRepo.UpdateItemQuantity(itemID, quantity); err != nil {
		return nil, err
	}
	item.Quantity = quantity
	return item, nil
}

// RemoveItem deletes a cart line owned by the user.
func (s *CartService) RemoveItem(userID, itemID string) error {
	if _, err := s.ownedItem(userID, itemID); err != nil {
		return err
	}
	return s.cartRepo.DeleteItem(itemID)
}

// Clear removes every line from the user's active cart.
func (s *CartService) Clear(userID string) error {
	cart, err := s.cartRepo.GetOrCreateActive(userID)
	if err != nil {
		return err
	}
	return s.cartRepo.ClearItems(cart.ID)
}

// ownedItem fetches a cart item and verifies it belongs to the user's
// active cart.
func (s *CartService) ownedItem(userID, itemID string) (*models.CartItem, error) {
	item, err := s.cartRepo.GetItem(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
		}
		return nil, err
	}
	cart, err := s.cartRepo.GetOrCreateActive(userID)
	if err != nil {
		return nil, err
	}
	if item.CartID != cart.ID {
		return nil, fmt.Errorf("cart item %s belongs to another cart: %w", itemID, ErrPermissionDenied)
	}
	return item, nil
}
