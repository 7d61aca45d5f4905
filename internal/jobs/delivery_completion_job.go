package jobs

import (
	"log/slog"
	"time"

	"takeout/internal/core/application/usecases/commands"
	"takeout/internal/pkg/metrics"
)

const (
	DefaultDeliverySchedule = "0 0 * * * *"
	DefaultDeliveryGrace    = time.Hour
)

// DeliveryCompletionJob completes deliveries nobody marked as delivered.
type DeliveryCompletionJob struct {
	*sweepJob
}

func NewDeliveryCompletionJob(
	handler sweepRunner,
	schedule string,
	grace time.Duration,
	limit int,
	m *metrics.Metrics,
	logger *slog.Logger,
) *DeliveryCompletionJob {
	if schedule == "" {
		schedule = DefaultDeliverySchedule
	}
	command := func() (commands.SweepOrdersCommand, error) {
		return commands.NewCompleteStuckDeliveriesCommand(grace, limit)
	}
	return &DeliveryCompletionJob{newSweepJob("delivery_completion", schedule, command, handler, m, logger)}
}
