package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/pkg/rabbitmq"

	"github.com/shopspring/decimal"
)

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	cartRepo    repositories.CartRepository
	addressRepo repositories.AddressRepository
	mqClient    *rabbitmq.Client
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	cartRepo repositories.CartRepository,
	addressRepo repositories.AddressRepository,
	mqClient *rabbitmq.Client,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		addressRepo: addressRepo,
		mqClient:    mqClient,
	}
}

// allowed status transitions; the order lifecycle is linear.
var orderTransitions = map[string]string{
	models.OrderPending: models.OrderShipped,
	models.OrderShipped: models.OrderDelivered,
}

// CreateOrder builds an order from either a single product+quantity or a set
// of cart items. Stock is checked and decremented, and the order plus its
// items written, inside one repository transaction; unit prices are
// snapshotted at purchase time.
func (s *OrderService) CreateOrder(buyer Identity, req models.CreateOrderRequest) (*models.Order, error) {
	lines, fromCart, err := requestedLines(req)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		if seen[line.ProductID] {
			return nil, NewValidationError("product_id", fmt.Sprintf("product %s appears more than once", line.ProductID))
		}
		seen[line.ProductID] = true

		product, err := s.productRepo.GetByID(line.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, NewValidationError("product_id", fmt.Sprintf("product %s does not exist", line.ProductID))
			}
			return nil, err
		}
		if product.SellerID == buyer.UserID {
			return nil, fmt.Errorf("sellers cannot order their own product %s: %w", product.ID, ErrPermissionDenied)
		}
		if line.Quantity > product.Stock {
			return nil, NewValidationError("quantity",
				fmt.Sprintf("requested %d of %s but only %d in stock", line.Quantity, product.Name, product.Stock))
		}

		item := models.OrderItem{
			ProductID: product.ID,
			Quantity:  line.Quantity,
			Price:     product.Price, // snapshot; later price changes keep history intact
		}
		items = append(items, item)
		total = total.Add(item.Cost())
	}

	billingID, shippingID, err := s.resolveAddresses(buyer.UserID, req.BillingAddressID, req.ShippingAddressID)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		BuyerID:           buyer.UserID,
		BillingAddressID:  billingID,
		ShippingAddressID: shippingID,
		Status:            models.OrderPending,
		TotalCost:         total,
		Items:             items,
	}
	if err := s.orderRepo.CreateWithItems(order); err != nil {
		if errors.Is(err, repositories.ErrInsufficientStock) {
			return nil, NewValidationError("quantity", "insufficient stock")
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if fromCart {
		if cart, cartErr := s.cartRepo.GetOrCreateActive(buyer.UserID); cartErr == nil {
			if cartErr = s.cartRepo.SetStatus(cart.ID, models.CartOrdered); cartErr != nil {
				log.Printf("Warning: failed to mark cart %s ordered: %v", cart.ID, cartErr)
			}
		}
	}

	s.publishEvent("order.created", map[string]interface{}{
		"order_id": order.ID,
		"buyer_id": order.BuyerID,
		"status":   order.Status,
		"total":    order.TotalCost,
	})
	return order, nil
}

// ListOrders retrieves the buyer's orders.
func (s *OrderService) ListOrders(buyer Identity) ([]models.Order, error) {
	return s.orderRepo.ListByBuyer(buyer.UserID)
}

// GetOrder retrieves one order; only the buyer or an admin may read it.
func (s *OrderService) GetOrder(actor Identity, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if order.BuyerID != actor.UserID && !actor.IsAdmin {
		return nil, fmt.Errorf("order %s belongs to another buyer: %w", id, ErrPermissionDenied)
	}
	return order, nil
}

// UpdateOrderStatus advances an order along pending -> shipped -> delivered.
func (s *OrderService) UpdateOrderStatus(actor Identity, id, status string) (*models.Order, error) {
	order, err := s.GetOrder(actor, id)
	if err != nil {
		return nil, err
	}
	if orderTransitions[order.Status] != status {
		return nil, NewValidationError("status",
			fmt.Sprintf("cannot move order from %s to %s", order.Status, status))
	}
	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}

// CancelOrder cancels a pending order and restocks its items.
func (s *OrderService) CancelOrder(actor Identity, id string) (*models.Order, error) {
	order, err := s.GetOrder(actor, id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderPending {
		return nil, NewValidationError("status", fmt.Sprintf("only pending orders can be cancelled, order is %s", order.Status))
	}
	if err := s.orderRepo.CancelAndRestock(id); err != nil {
		return nil, err
	}
	order.Status = models.OrderCancelled

	s.publishEvent("order.cancelled", map[string]interface{}{
		"order_id": order.ID,
		"buyer_id": order.BuyerID,
	})
	return order, nil
}

// DeleteOrder removes a pending order entirely, restocking its items.
func (s *OrderService) DeleteOrder(actor Identity, id string) error {
	order, err := s.GetOrder(actor, id)
	if err != nil {
		return err
	}
	if order.Status != models.OrderPending {
		return NewValidationError("status", fmt.Sprintf("only pending orders can be deleted, order is %s", order.Status))
	}
	return s.orderRepo.DeleteAndRestock(id)
}

// ListOrderItems retrieves the items of an order readable by the actor.
func (s *OrderService) ListOrderItems(actor Identity, orderID string) ([]models.OrderItem, error) {
	order, err := s.GetOrder(actor, orderID)
	if err != nil {
		return nil, err
	}
	return order.Items, nil
}

// AddOrderItem appends a product to a pending order.
func (s *OrderService) AddOrderItem(actor Identity, orderID string, req models.OrderItemRequest) (*models.OrderItem, error) {
	order, err := s.pendingOrder(actor, orderID)
	if err != nil {
		return nil, err
	}
	for _, existing := range order.Items {
		if existing.ProductID == req.ProductID {
			return nil, NewValidationError("product_id", fmt.Sprintf("product %s is already on this order", req.ProductID))
		}
	}

	product, err := s.productRepo.GetByID(req.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewValidationError("product_id", fmt.Sprintf("product %s does not exist", req.ProductID))
		}
		return nil, err
	}
	if product.SellerID == actor.UserID {
		return nil, fmt.Errorf("sellers cannot order their own product %s: %w", product.ID, ErrPermissionDenied)
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	item := &models.OrderItem{
		ProductID: product.ID,
		Quantity:  quantity,
		Price:     product.Price,
	}
	if err := s.orderRepo.AddItem(orderID, item); err != nil {
		if errors.Is(err, repositories.ErrInsufficientStock) {
			return nil, NewValidationError("quantity",
				fmt.Sprintf("requested %d of %s but only %d in stock", quantity, product.Name, product.Stock))
		}
		return nil, err
	}
	return item, nil
}

// UpdateOrderItem changes an item's quantity on a pending order.
func (s *OrderService) UpdateOrderItem(actor Identity, orderID, itemID string, quantity int) (*models.OrderItem, error) {
	if _, err := s.pendingOrder(actor, orderID); err != nil {
		return nil, err
	}
	item, err := s.orderRepo.GetItem(itemID)
	if err != nil || item.OrderID != orderID {
		return nil, fmt.Errorf("order item %s: %w", itemID, ErrNotFound)
	}

	if err := s.orderRepo.UpdateItemQuantity(itemID, quantity); err != nil {
		if errors.Is(err, repositories.ErrInsufficientStock) {
			return nil, NewValidationError("quantity", "insufficient stock")
		}
		return nil, err
	}
	item.Quantity = quantity
	return item, nil
}

// RemoveOrderItem removes an item from a pending order, restocking it.
func (s *OrderService) RemoveOrderItem(actor Identity, orderID, itemID string) error {
	if _, err := s.pendingOrder(actor, orderID); err != nil {
		return err
	}
	item, err := s.orderRepo.GetItem(itemID)
	if err != nil || item.OrderID != orderID {
		return fmt.Errorf("order item %s: %w", itemID, ErrNotFound)
	}
	return s.orderRepo.DeleteItem(itemID)
}

func (s *OrderService) pendingOrder(actor Identity, orderID string) (*models.Order, error) {
	order, err := s.GetOrder(actor, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderPending {
		return nil, NewValidationError("status", fmt.Sprintf("items of a %s order cannot be modified", order.Status))
	}
	return order, nil
}

// requestedLines normalizes the two request forms into one item list.
func requestedLines(req models.CreateOrderRequest) ([]models.OrderItemRequest, bool, error) {
	if req.ProductID != "" && len(req.CartItems) > 0 {
		return nil, false, NewValidationError("product_id", "supply either product_id or cart_items, not both")
	}
	if req.ProductID != "" {
		quantity := req.Quantity
		if quantity == 0 {
			quantity = 1
		}
		return []models.OrderItemRequest{{ProductID: req.ProductID, Quantity: quantity}}, false, nil
	}
	if len(req.CartItems) == 0 {
		return nil, false, NewValidationError("cart_items", "product_id or cart_items is required")
	}
	lines := make([]models.OrderItemRequest, 0, len(req.CartItems))
	for _, line := range req.CartItems {
		if line.Quantity == 0 {
			line.Quantity = 1
		}
		lines = append(lines, line)
	}
	return lines, true, nil
}

// resolveAddresses applies the billing/shipping defaulting rules: one
// supplied mirrors to the other; none supplied falls back to the buyer's
// default address; no default fails validation.
func (s *OrderService) resolveAddresses(userID, billingID, shippingID string) (*string, *string, error) {
	if billingID == "" && shippingID == "" {
		def, err := s.addressRepo.GetDefault(userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, nil, NewValidationError("address", "no address supplied and no default address on file")
			}
			return nil, nil, err
		}
		return &def.ID, &def.ID, nil
	}

	if billingID == "" {
		billingID = shippingID
	}
	if shippingID == "" {
		shippingID = billingID
	}
	for _, id := range []string{billingID, shippingID} {
		address, err := s.addressRepo.GetByID(id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, nil, NewValidationError("address", fmt.Sprintf("address %s does not exist", id))
			}
			return nil, nil, err
		}
		if address.UserID != userID {
			return nil, nil, fmt.Errorf("address %s belongs to another user: %w", id, ErrPermissionDenied)
		}
	}
	return &billingID, &shippingID, nil
}

// publishEvent emits a domain event; a nil client (tests, dev mode) skips
// publication.
func (s *OrderService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.mqClient.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
