package ports

import (
	"context"

	"takeout/internal/core/domain/model/order"
)

// OrderEventPublisher announces committed status changes.
type OrderEventPublisher interface {
	PublishStatusChanged(ctx context.Context, aggregate *order.Order, transition order.Transition) error
}
