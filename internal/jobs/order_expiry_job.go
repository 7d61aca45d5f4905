package jobs

import (
	"log/slog"
	"time"

	"takeout/internal/core/application/usecases/commands"
	"takeout/internal/pkg/metrics"
)

const (
	DefaultExpirySchedule = "0 * * * * *"
	DefaultPaymentGrace   = 15 * time.Minute
)

// OrderExpiryJob cancels orders left unpaid past the payment grace window.
type OrderExpiryJob struct {
	*sweepJob
}

func NewOrderExpiryJob(
	handler sweepRunner,
	schedule string,
	grace time.Duration,
	limit int,
	m *metrics.Metrics,
	logger *slog.Logger,
) *OrderExpiryJob {
	if schedule == "" {
		schedule = DefaultExpirySchedule
	}
	command := func() (commands.SweepOrdersCommand, error) {
		return commands.NewExpireUnpaidOrdersCommand(grace, limit)
	}
	return &OrderExpiryJob{newSweepJob("order_expiry", schedule, command, handler, m, logger)}
}
