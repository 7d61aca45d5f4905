package order

import (
	"fmt"

	"takeout/internal/pkg/errs"
)

// PayStatus tracks the money side of an order independently of Status;
// the two are tied together by the invariants checked in Order.Validate.
type PayStatus int

const (
	PayStatusUnknown PayStatus = iota
	Unpaid
	Paid
	Refunded
)

func (p PayStatus) Validate() error {
	if p < Unpaid || p > Refunded {
		return errs.NewValueIsInvalidErrorWithCause("pay status is invalid", fmt.Errorf("%d is not a valid pay status", p))
	}
	return nil
}

func (p PayStatus) String() string {
	switch p {
	case Unpaid:
		return "Unpaid"
	case Paid:
		return "Paid"
	case Refunded:
		return "Refunded"
	default:
		return "Unknown"
	}
}
