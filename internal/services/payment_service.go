package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/pkg/gateway"
	"shopapi/pkg/rabbitmq"
)

// PaymentService handles business logic for payments. The money actually
// moves at an external gateway; this service records attempts and outcomes.
type PaymentService struct {
	paymentRepo repositories.PaymentRepository
	orderRepo   repositories.OrderRepository
	gateway     gateway.Gateway
	mqClient    *rabbitmq.Client
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(paymentRepo repositories.PaymentRepository, orderRepo repositories.OrderRepository, gw gateway.Gateway, mqClient *rabbitmq.Client) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		gateway:     gw,
		mqClient:    mqClient,
	}
}

// InitializePayment records a Pending payment for the full order total,
// delegates the charge to the gateway, and records the outcome.
func (s *PaymentService) InitializePayment(ctx context.Context, actor Identity, req models.InitializePaymentRequest) (*models.Payment, error) {
	order, err := s.orderRepo.GetByID(req.OrderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("order %s: %w", req.OrderID, ErrNotFound)
		}
		return nil, err
	}
	if order.BuyerID != actor.UserID && !actor.IsAdmin {
		return nil, fmt.Errorf("order %s belongs to another buyer: %w", req.OrderID, ErrPermissionDenied)
	}
	if order.Status == models.OrderCancelled {
		return nil, NewValidationError("order_id", "cancelled orders cannot be paid")
	}

	payment := &models.Payment{
		OrderID: order.ID,
		Method:  req.Method,
		Status:  models.PaymentPending,
		Amount:  order.TotalCost,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}

	result, err := s.gateway.Charge(ctx, gateway.ChargeRequest{
		OrderID: order.ID,
		Method:  req.Method,
		Amount:  order.TotalCost,
	})
	if err != nil {
		payment.Status = models.PaymentFailed
		if updateErr := s.paymentRepo.Update(payment); updateErr != nil {
			log.Printf("Warning: failed to record failed payment %s: %v", payment.ID, updateErr)
		}
		return nil, fmt.Errorf("payment gateway error: %w", err)
	}

	payment.Reference = result.Reference
	if result.Succeeded {
		payment.Status = models.PaymentSuccess
	} else {
		payment.Status = models.PaymentFailed
	}
	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, err
	}

	s.publishEvent("payment.initialized", map[string]interface{}{
		"payment_id": payment.ID,
		"order_id":   payment.OrderID,
		"status":     payment.Status,
		"amount":     payment.Amount,
	})
	return payment, nil
}

func (s *PaymentService) publishEvent(routingKey string, payload map[string]interface{}) {
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
