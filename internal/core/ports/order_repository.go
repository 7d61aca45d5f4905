// Package ports declares what the core needs from the outside world:
// order and address storage behind a unit of work, the payment gateway, the
// cart store and the status-change publisher.
package ports

import (
	"context"
	"errors"
	"time"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
)

// ErrDuplicateOrderNumber is returned by Add when the generated order number
// is already taken.
var ErrDuplicateOrderNumber = errors.New("order number already exists")

// OrderRepository is the order store.
type OrderRepository interface {
	// Add inserts the order together with its details.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get returns the order with its details or an *errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByNumber looks an order up by its customer-facing number.
	GetByNumber(ctx context.Context, number order.Number) (*order.Order, error)

	// UpdateIfStatus writes the aggregate's state only if the stored row is
	// still in transition.From, and records the transition in the status
	// history. It returns the number of rows updated: zero means another writer
	// got there first and nothing was written.
	UpdateIfStatus(ctx context.Context, aggregate *order.Order, transition order.Transition) (int64, error)

	// FindByStatusOlderThan returns up to limit orders in status whose order
	// time is before cutoff, oldest first. A limit of zero means no limit.
	FindByStatusOlderThan(ctx context.Context, status order.Status, cutoff time.Time, limit int) ([]*order.Order, error)
}
