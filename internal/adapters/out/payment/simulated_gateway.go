package payment

import (
	"context"
	"log/slog"
	"sync/atomic"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/core/ports"

	"github.com/google/uuid"
)

// SimulatedGateway confirms every charge and refund. It is wired when no
// provider URL is configured.
type SimulatedGateway struct {
	logger  *slog.Logger
	charges atomic.Int64
	refunds atomic.Int64
}

func NewSimulatedGateway(logger *slog.Logger) *SimulatedGateway {
	return &SimulatedGateway{logger: logger.With("component", "simulated_payment_gateway")}
}

func (g *SimulatedGateway) Charge(ctx context.Context, number order.Number, amount kernel.Money) (ports.PaymentResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.PaymentResult{}, err
	}
	g.charges.Add(1)
	g.logger.InfoContext(ctx, "simulated charge", "number", number.String(), "amount", amount.String())
	return ports.PaymentResult{Paid: true, TransactionID: uuid.NewString()}, nil
}

func (g *SimulatedGateway) Refund(ctx context.Context, number order.Number, amount kernel.Money) (ports.RefundResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.RefundResult{}, err
	}
	g.refunds.Add(1)
	g.logger.InfoContext(ctx, "simulated refund", "number", number.String(), "amount", amount.String())
	return ports.RefundResult{OK: true, RefundID: uuid.NewString()}, nil
}

// Counts reports how many charges and refunds went through.
func (g *SimulatedGateway) Counts() (charges, refunds int64) {
	return g.charges.Load(), g.refunds.Load()
}
