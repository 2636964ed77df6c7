package services_test

import (
	"context"
	"fmt"
	"testing"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/internal/services"
	"shopapi/pkg/gateway"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// memPaymentRepo is an in-memory PaymentRepository for service tests.
type memPaymentRepo struct {
	payments map[string]*models.Payment
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{payments: make(map[string]*models.Payment)}
}

func (r *memPaymentRepo) Create(payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	copied := *payment
	r.payments[payment.ID] = &copied
	return nil
}

func (r *memPaymentRepo) Update(payment *models.Payment) error {
	if _, ok := r.payments[payment.ID]; !ok {
		return fmt.Errorf("payment %s: %w", payment.ID, repositories.ErrNotFound)
	}
	copied := *payment
	r.payments[payment.ID] = &copied
	return nil
}

func (r *memPaymentRepo) GetByID(id string) (*models.Payment, error) {
	payment, ok := r.payments[id]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", id, repositories.ErrNotFound)
	}
	copied := *payment
	return &copied, nil
}

func (r *memPaymentRepo) ListByOrder(orderID string) ([]models.Payment, error) {
	var list []models.Payment
	for _, payment := range r.payments {
		if payment.OrderID == orderID {
			list = append(list, *payment)
		}
	}
	return list, nil
}

// stubGateway returns a canned verdict instead of calling a provider.
type stubGateway struct {
	result *gateway.ChargeResult
	err    error
}

func (g *stubGateway) Charge(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

type paymentFixture struct {
	paymentRepo *memPaymentRepo
	gateway     *stubGateway
	order       *models.Order
	buyer       services.Identity
}

func newPaymentFixture(t *testing.T) (*services.PaymentService, *paymentFixture) {
	productRepo := repositories.NewMockProductRepository()
	orderRepo := repositories.NewMockOrderRepository(productRepo)
	paymentRepo := newMemPaymentRepo()
	gw := &stubGateway{result: &gateway.ChargeResult{Reference: "txn-1", Succeeded: true}}

	product := &models.Product{Name: "Widget", Price: decimal.NewFromInt(10), Stock: 10, SellerID: "seller-1"}
	assert.NoError(t, productRepo.Create(product))

	order := &models.Order{
		BuyerID: "buyer-1",
		Status:  models.OrderPending,
		Items:   []models.OrderItem{{ProductID: product.ID, Quantity: 2, Price: product.Price}},
	}
	order.TotalCost = order.Items[0].Cost()
	assert.NoError(t, orderRepo.CreateWithItems(order))

	paymentService := services.NewPaymentService(paymentRepo, orderRepo, gw, nil)
	return paymentService, &paymentFixture{
		paymentRepo: paymentRepo,
		gateway:     gw,
		order:       order,
		buyer:       services.Identity{UserID: "buyer-1"},
	}
}

func TestPaymentService_InitializePayment(t *testing.T) {
	paymentService, f := newPaymentFixture(t)

	payment, err := paymentService.InitializePayment(context.Background(), f.buyer, models.InitializePaymentRequest{
		OrderID: f.order.ID,
		Method:  "card",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentSuccess, payment.Status)
	assert.Equal(t, "txn-1", payment.Reference)
	// The amount is the full order total
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(20)), "expected 20, got %s", payment.Amount)

	stored, err := f.paymentRepo.GetByID(payment.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentSuccess, stored.Status)
}

func TestPaymentService_DeclinedCharge(t *testing.T) {
	paymentService, f := newPaymentFixture(t)
	f.gateway.result = &gateway.ChargeResult{Reference: "txn-2", Succeeded: false, Message: "insufficient funds"}

	payment, err := paymentService.InitializePayment(context.Background(), f.buyer, models.InitializePaymentRequest{
		OrderID: f.order.ID,
		Method:  "card",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, payment.Status)
	assert.Equal(t, "txn-2", payment.Reference)
}

func TestPaymentService_GatewayError(t *testing.T) {
	paymentService, f := newPaymentFixture(t)
	f.gateway.err = assert.AnError

	_, err := paymentService.InitializePayment(context.Background(), f.buyer, models.InitializePaymentRequest{
		OrderID: f.order.ID,
		Method:  "card",
	})
	assert.Error(t, err)

	// The attempt is still recorded, as Failed
	attempts, listErr := f.paymentRepo.ListByOrder(f.order.ID)
	assert.NoError(t, listErr)
	if assert.Len(t, attempts, 1) {
		assert.Equal(t, models.PaymentFailed, attempts[0].Status)
	}
}

func TestPaymentService_Guards(t *testing.T) {
	paymentService, f := newPaymentFixture(t)

	// Another buyer's order
	_, err := paymentService.InitializePayment(context.Background(), services.Identity{UserID: "other"},
		models.InitializePaymentRequest{OrderID: f.order.ID, Method: "card"})
	assert.ErrorIs(t, err, services.ErrPermissionDenied)

	// Unknown order
	_, err = paymentService.InitializePayment(context.Background(), f.buyer,
		models.InitializePaymentRequest{OrderID: "missing", Method: "card"})
	assert.ErrorIs(t, err, services.ErrNotFound)
}
