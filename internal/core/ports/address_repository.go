package ports

import (
	"context"

	"takeout/internal/core/domain/model/customer"
	"takeout/internal/core/domain/model/kernel"
)

// AddressRepository is the address book.
type AddressRepository interface {
	Add(ctx context.Context, address customer.Address) error

	// Get returns the entry or an *errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (customer.Address, error)
}
