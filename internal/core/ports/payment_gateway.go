package ports

import (
	"context"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
)

type PaymentResult struct {
	Paid          bool
	TransactionID string
}

type RefundResult struct {
	OK       bool
	RefundID string
}

// PaymentGateway is the payment provider. A returned error is a transport
// failure; a declined charge or refused refund comes back as Paid or OK false.
type PaymentGateway interface {
	Charge(ctx context.Context, number order.Number, amount kernel.Money) (PaymentResult, error)
	Refund(ctx context.Context, number order.Number, amount kernel.Money) (RefundResult, error)
}
