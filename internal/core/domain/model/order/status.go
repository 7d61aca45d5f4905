package order

import (
	"fmt"

	"takeout/internal/pkg/errs"
)

// Status is the lifecycle state of an order. The active states are ordered:
//
//	PendingPayment(1) < ToBeConfirmed(2) < Confirmed(3) < InDelivery(4) < Completed(5)
//
// Cancelled is terminal and sits outside that ordering. The numeric values
// are what the persistence layer stores.
type Status int

const (
	// Unknown (0) catches uninitialized values.
	Unknown Status = iota
	PendingPayment
	ToBeConfirmed
	Confirmed
	InDelivery
	Completed
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		PendingPayment: "PendingPayment",
		ToBeConfirmed:  "ToBeConfirmed",
		Confirmed:      "Confirmed",
		InDelivery:     "InDelivery",
		Completed:      "Completed",
		Cancelled:      "Cancelled",
	}
}

// Validate accepts every status except Unknown and out-of-range values.
func (s Status) Validate() error {
	if s < PendingPayment || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// Ordinal returns the position of s in the active ordering. Cancelled and
// invalid statuses have no position.
func (s Status) Ordinal() (int, bool) {
	if s < PendingPayment || s > Completed {
		return 0, false
	}
	return int(s), true
}

// statusesUpTo lists the ordered statuses whose ordinal is at most limit's.
func statusesUpTo(limit Status) []Status {
	last, ok := limit.Ordinal()
	if !ok {
		return nil
	}
	out := make([]Status, 0, last)
	for s := PendingPayment; s <= Completed; s++ {
		if o, _ := s.Ordinal(); o <= last {
			out = append(out, s)
		}
	}
	return out
}
