package commands

import "errors"

var (
	// ErrRefundFailed means the gateway did not confirm a refund; the
	// cancellation was not persisted.
	ErrRefundFailed = errors.New("refund failed")

	// ErrChargeFailed means the gateway did not confirm payment; the order
	// stays PendingPayment.
	ErrChargeFailed = errors.New("charge failed")

	ErrAddressMissing = errors.New("delivery address is missing")
	ErrCartEmpty      = errors.New("shopping cart is empty")

	// ErrNumberExhausted is returned when every generated order number collided.
	ErrNumberExhausted = errors.New("could not allocate a unique order number")
)
