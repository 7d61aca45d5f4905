package order

import (
	"fmt"
	"strings"
	"time"

	"takeout/internal/pkg/errs"
)

// EventKind names something that happened to an order: a customer or
// merchant action, or a timeout noticed by a sweep.
type EventKind int

const (
	EventUnknown EventKind = iota
	PaymentConfirmed
	MerchantConfirm
	MerchantReject
	MerchantCancel
	UserCancel
	Dispatch
	Deliver
	TimeoutExpire
	TimeoutForceComplete
)

func (k EventKind) String() string {
	switch k {
	case PaymentConfirmed:
		return "PaymentConfirmed"
	case MerchantConfirm:
		return "MerchantConfirm"
	case MerchantReject:
		return "MerchantReject"
	case MerchantCancel:
		return "MerchantCancel"
	case UserCancel:
		return "UserCancel"
	case Dispatch:
		return "Dispatch"
	case Deliver:
		return "Deliver"
	case TimeoutExpire:
		return "TimeoutExpire"
	case TimeoutForceComplete:
		return "TimeoutForceComplete"
	default:
		return "Unknown"
	}
}

const (
	ReasonUserCancelled  = "user cancelled"
	ReasonPaymentTimeout = "payment timeout"
)

// Event is the input to Decide. Merchant rejections and cancellations carry
// a reason; timeout events carry the age threshold the order must exceed.
type Event struct {
	kind      EventKind
	reason    string
	threshold time.Duration
}

func NewPaymentConfirmed() Event { return Event{kind: PaymentConfirmed} }
func NewMerchantConfirm() Event  { return Event{kind: MerchantConfirm} }
func NewUserCancel() Event       { return Event{kind: UserCancel} }
func NewDispatch() Event         { return Event{kind: Dispatch} }
func NewDeliver() Event          { return Event{kind: Deliver} }

// NewMerchantReject requires a non-blank reason.
func NewMerchantReject(reason string) (Event, error) {
	return newReasoned(MerchantReject, reason)
}

// NewMerchantCancel requires a non-blank reason.
func NewMerchantCancel(reason string) (Event, error) {
	return newReasoned(MerchantCancel, reason)
}

// NewTimeoutExpire fires against unpaid orders older than threshold.
func NewTimeoutExpire(threshold time.Duration) (Event, error) {
	return newTimed(TimeoutExpire, threshold)
}

// NewTimeoutForceComplete fires against deliveries older than threshold.
func NewTimeoutForceComplete(threshold time.Duration) (Event, error) {
	return newTimed(TimeoutForceComplete, threshold)
}

func newReasoned(kind EventKind, reason string) (Event, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Event{}, errs.NewValueIsRequiredError("reason")
	}
	return Event{kind: kind, reason: reason}, nil
}

func newTimed(kind EventKind, threshold time.Duration) (Event, error) {
	if threshold <= 0 {
		return Event{}, errs.NewValueIsInvalidErrorWithCause("threshold",
			fmt.Errorf("%s is not a positive duration", threshold))
	}
	return Event{kind: kind, threshold: threshold}, nil
}

func (e Event) Kind() EventKind          { return e.kind }
func (e Event) Reason() string           { return e.reason }
func (e Event) Threshold() time.Duration { return e.threshold }

func (e Event) String() string {
	return e.kind.String()
}
