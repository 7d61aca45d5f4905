// Package payment talks to the payment provider. HTTPGateway is the real
// client; SimulatedGateway stands in when no provider is configured.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/core/ports"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// IdempotencyHeader carries the order number so the provider can drop
// retried charges and refunds.
const IdempotencyHeader = "Idempotency-Key"

type chargeRequest struct {
	OrderNumber string `json:"orderNumber"`
	Amount      string `json:"amount"`
}

type chargeResponse struct {
	Status        string `json:"status"`
	TransactionID string `json:"transactionId"`
}

type refundResponse struct {
	Status   string `json:"status"`
	RefundID string `json:"refundId"`
}

// HTTPGateway posts charges to {baseURL}/charges and refunds to
// {baseURL}/refunds. Deadlines come from the caller's context.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

func NewHTTPGateway(baseURL string, client *http.Client) *HTTPGateway {
	if client == nil {
		client = &http.Client{Transport: &http.Transport{MaxIdleConnsPerHost: 16}}
	}
	return &HTTPGateway{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (g *HTTPGateway) Charge(ctx context.Context, number order.Number, amount kernel.Money) (ports.PaymentResult, error) {
	var resp chargeResponse
	if err := g.post(ctx, "/charges", number, amount, &resp); err != nil {
		return ports.PaymentResult{}, err
	}
	return ports.PaymentResult{
		Paid:          strings.EqualFold(resp.Status, "paid"),
		TransactionID: resp.TransactionID,
	}, nil
}

func (g *HTTPGateway) Refund(ctx context.Context, number order.Number, amount kernel.Money) (ports.RefundResult, error) {
	var resp refundResponse
	if err := g.post(ctx, "/refunds", number, amount, &resp); err != nil {
		return ports.RefundResult{}, err
	}
	return ports.RefundResult{
		OK:       strings.EqualFold(resp.Status, "refunded"),
		RefundID: resp.RefundID,
	}, nil
}

func (g *HTTPGateway) post(ctx context.Context, path string, number order.Number, amount kernel.Money, out any) error {
	body, err := json.Marshal(chargeRequest{OrderNumber: number.String(), Amount: amount.String()})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(IdempotencyHeader, number.String())
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("payment provider returned status %d for %s", resp.StatusCode, path)
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode payment provider response: %w", err)
	}
	return nil
}
