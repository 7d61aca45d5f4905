package order

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// ErrInvalidTransition is the sentinel behind every InvalidTransitionError.
var ErrInvalidTransition = errors.New("invalid transition")

// InvalidTransitionError reports an event that is not legal from the order's
// current status. Reason is optional detail such as a failed age guard.
type InvalidTransitionError struct {
	From   Status
	Event  EventKind
	Reason string
}

func NewInvalidTransitionError(from Status, event EventKind, reason string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, Event: event, Reason: reason}
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("%s: %s is not allowed from %s", ErrInvalidTransition, e.Event, e.From)
	if e.Reason != "" {
		return msg + ": " + e.Reason
	}
	return msg
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// GatewayAction is the payment call a transition requires before it may be
// persisted.
type GatewayAction int

const (
	GatewayNone GatewayAction = iota
	GatewayCharge
	GatewayRefund
)

func (a GatewayAction) String() string {
	switch a {
	case GatewayCharge:
		return "charge"
	case GatewayRefund:
		return "refund"
	default:
		return "none"
	}
}

// Transition is an approved state change. Apply copies it onto the order and
// the store writes it conditioned on From.
type Transition struct {
	From            Status
	To              Status
	Event           EventKind
	At              time.Time
	PayStatus       PayStatus
	Gateway         GatewayAction
	CancelReason    string
	RejectionReason string
}

// Reason returns whichever cancellation reason the transition records.
func (t Transition) Reason() string {
	if t.RejectionReason != "" {
		return t.RejectionReason
	}
	return t.CancelReason
}

type rule struct {
	from []Status
	to   Status
	// aged rules also require the order to be older than the event threshold
	aged bool
}

// transitions is the complete lifecycle. Anything not listed is rejected.
var transitions = map[EventKind]rule{
	PaymentConfirmed:     {from: []Status{PendingPayment}, to: ToBeConfirmed},
	MerchantConfirm:      {from: []Status{ToBeConfirmed}, to: Confirmed},
	MerchantReject:       {from: []Status{ToBeConfirmed}, to: Cancelled},
	MerchantCancel:       {from: []Status{ToBeConfirmed, Confirmed}, to: Cancelled},
	UserCancel:           {from: statusesUpTo(ToBeConfirmed), to: Cancelled},
	Dispatch:             {from: []Status{Confirmed}, to: InDelivery},
	Deliver:              {from: []Status{InDelivery}, to: Completed},
	TimeoutExpire:        {from: []Status{PendingPayment}, to: Cancelled, aged: true},
	TimeoutForceComplete: {from: []Status{InDelivery}, to: Completed, aged: true},
}

// Decide evaluates ev against the order at time now and returns the
// transition to apply. It performs no I/O and does not modify o.
func Decide(o *Order, ev Event, now time.Time) (Transition, error) {
	if err := o.Validate(); err != nil {
		return Transition{}, err
	}

	r, ok := transitions[ev.Kind()]
	if !ok {
		return Transition{}, NewInvalidTransitionError(o.status, ev.Kind(), "unknown event")
	}
	if !slices.Contains(r.from, o.status) {
		return Transition{}, NewInvalidTransitionError(o.status, ev.Kind(), "")
	}
	if r.aged {
		if age := o.Age(now); age <= ev.Threshold() {
			return Transition{}, NewInvalidTransitionError(o.status, ev.Kind(),
				fmt.Sprintf("order age %s does not exceed %s", age.Truncate(time.Second), ev.Threshold()))
		}
	}

	t := Transition{
		From:      o.status,
		To:        r.to,
		Event:     ev.Kind(),
		At:        now,
		PayStatus: o.payStatus,
	}

	switch ev.Kind() {
	case PaymentConfirmed:
		t.PayStatus = Paid
		t.Gateway = GatewayCharge
	case MerchantReject, MerchantCancel:
		t.RejectionReason = ev.Reason()
	case UserCancel:
		t.CancelReason = ReasonUserCancelled
	case TimeoutExpire:
		t.CancelReason = ReasonPaymentTimeout
	}

	if t.To == Cancelled && o.payStatus == Paid {
		t.PayStatus = Refunded
		t.Gateway = GatewayRefund
	}

	return t, nil
}
