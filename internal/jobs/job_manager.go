package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"takeout/internal/pkg/metrics"
)

// Schedules configures both reconciliation sweeps.
type Schedules struct {
	ExpirySchedule   string
	PaymentGrace     time.Duration
	DeliverySchedule string
	DeliveryGrace    time.Duration
	// Limit caps the orders one pass visits. Zero means no cap.
	Limit int
}

// JobManager starts and stops the reconciliation sweeps together.
type JobManager struct {
	orderExpiryJob        *OrderExpiryJob
	deliveryCompletionJob *DeliveryCompletionJob
}

func NewJobManager(handler sweepRunner, s Schedules, m *metrics.Metrics, logger *slog.Logger) *JobManager {
	if s.PaymentGrace <= 0 {
		s.PaymentGrace = DefaultPaymentGrace
	}
	if s.DeliveryGrace <= 0 {
		s.DeliveryGrace = DefaultDeliveryGrace
	}
	return &JobManager{
		orderExpiryJob:        NewOrderExpiryJob(handler, s.ExpirySchedule, s.PaymentGrace, s.Limit, m, logger),
		deliveryCompletionJob: NewDeliveryCompletionJob(handler, s.DeliverySchedule, s.DeliveryGrace, s.Limit, m, logger),
	}
}

// StartAll returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.orderExpiryJob.Start(); err != nil {
		return fmt.Errorf("failed to start order expiry job: %w", err)
	}

	if err := jm.deliveryCompletionJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.orderExpiryJob.Stop()
		return fmt.Errorf("failed to start delivery completion job: %w", err)
	}

	return nil
}

// StopAll waits for passes in flight.
func (jm *JobManager) StopAll() {
	jm.deliveryCompletionJob.Stop()
	jm.orderExpiryJob.Stop()
}
