package commands

import (
	"errors"
	"fmt"
	"time"

	"takeout/internal/core/domain/model/order"
	"takeout/internal/pkg/errs"
	"takeout/internal/pkg/guard"
)

var ErrSweepOrdersCommandIsNotConstructed = errors.New(
	"SweepOrdersCommand must be created via NewExpireUnpaidOrdersCommand or NewCompleteStuckDeliveriesCommand",
)

// SweepOrdersCommand is one reconciliation pass over orders that have sat in
// a status for longer than a grace window.
type SweepOrdersCommand struct { //nolint:recvcheck //using for validation
	name   string
	status order.Status
	grace  time.Duration
	event  order.Event
	limit  int

	guard guard.ConstructorGuard
}

// NewExpireUnpaidOrdersCommand cancels PendingPayment orders older than grace.
func NewExpireUnpaidOrdersCommand(grace time.Duration, limit int) (SweepOrdersCommand, error) {
	ev, err := order.NewTimeoutExpire(grace)
	return newSweep("order_expiry", order.PendingPayment, grace, ev, limit, err)
}

// NewCompleteStuckDeliveriesCommand completes InDelivery orders older than grace.
func NewCompleteStuckDeliveriesCommand(grace time.Duration, limit int) (SweepOrdersCommand, error) {
	ev, err := order.NewTimeoutForceComplete(grace)
	return newSweep("delivery_completion", order.InDelivery, grace, ev, limit, err)
}

func newSweep(
	name string,
	status order.Status,
	grace time.Duration,
	ev order.Event,
	limit int,
	evErr error,
) (SweepOrdersCommand, error) {
	if evErr != nil {
		return SweepOrdersCommand{}, evErr
	}
	if limit < 0 {
		return SweepOrdersCommand{}, errs.NewValueIsInvalidErrorWithCause("limit", fmt.Errorf("%d is negative", limit))
	}
	return SweepOrdersCommand{
		name:   name,
		status: status,
		grace:  grace,
		event:  ev,
		limit:  limit,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c SweepOrdersCommand) Validate() error {
	return c.guard.Validate(ErrSweepOrdersCommandIsNotConstructed)
}

// Name labels the sweep in logs and metrics.
func (c SweepOrdersCommand) Name() string         { return c.name }
func (c SweepOrdersCommand) Status() order.Status { return c.status }
func (c SweepOrdersCommand) Grace() time.Duration { return c.grace }
func (c SweepOrdersCommand) Limit() int           { return c.limit }
