package ports

import (
	"context"

	"takeout/internal/core/domain/model/customer"
	"takeout/internal/core/domain/model/kernel"
)

// CartStore holds each user's shopping cart.
type CartStore interface {
	List(ctx context.Context, userID kernel.UUID) ([]customer.CartLine, error)

	// Add merges lines into the cart, summing quantities of lines with the same key.
	Add(ctx context.Context, userID kernel.UUID, lines ...customer.CartLine) error

	Clear(ctx context.Context, userID kernel.UUID) error
}
