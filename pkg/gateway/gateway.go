package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// ChargeRequest describes one payment attempt sent to the gateway.
type ChargeRequest struct {
	OrderID string          `json:"order_id"`
	Method  string          `json:"method"`
	Amount  decimal.Decimal `json:"amount"`
}

// ChargeResult is the gateway's verdict on a charge.
type ChargeResult struct {
	Reference string `json:"reference"`
	Succeeded bool   `json:"succeeded"`
	Message   string `json:"message"`
}

// Gateway abstracts the external payment provider so services and tests
// never talk HTTP directly.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// Config holds the provider endpoint and credentials.
type Config struct {
	BaseURL string
	APIKey  string
}

// HTTPGateway calls a JSON-over-HTTP payment provider.
type HTTPGateway struct {
	cfg    Config
	client *http.Client
}

// NewHTTPGateway creates a new HTTPGateway.
func NewHTTPGateway(cfg Config) *HTTPGateway {
	return &HTTPGateway{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Charge posts the charge to the provider and decodes its verdict.
func (g *HTTPGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal charge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var result ChargeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return &result, nil
}
