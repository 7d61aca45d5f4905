package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/pkg/errs"
)

const maxRemarkLength = 100

var (
	// ErrOrderIsNotConstructed is returned for an Order that did not come from
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrInvariantViolated wraps every inconsistency between status, pay status,
	// timestamps and reasons.
	ErrInvariantViolated = errors.New("order invariant violated")
)

// Order is the aggregate root of the takeout domain.
//
// Only id and number are fixed at creation. Every other field changes through
// Apply, which accepts a Transition produced by Decide, so a status write and
// the fields derived from it are always persisted together.
type Order struct {
	id        kernel.UUID
	number    Number
	userID    kernel.UUID
	status    Status
	payStatus PayStatus
	amount    kernel.Money
	address   AddressSnapshot
	remark    string
	details   []Detail

	orderTime    time.Time
	checkoutTime *time.Time
	deliveryTime *time.Time
	cancelTime   *time.Time

	// at most one of these is set, and only when Cancelled
	cancelReason    string
	rejectionReason string

	isConstructed bool
}

// NewOrder places an order in PendingPayment/Unpaid. The amount is the sum of
// the detail subtotals; at least one detail is required.
func NewOrder(
	id kernel.UUID,
	number Number,
	userID kernel.UUID,
	address AddressSnapshot,
	details []Detail,
	remark string,
	orderTime time.Time,
) (*Order, error) {
	if len(details) == 0 {
		return nil, errs.NewValueIsRequiredError("order details")
	}
	remark = strings.TrimSpace(remark)
	if n := len([]rune(remark)); n > maxRemarkLength {
		return nil, errs.NewValueIsOutOfRangeError("remark length", n, 0, maxRemarkLength)
	}

	var amount kernel.Money
	for _, d := range details {
		amount = amount.Add(d.Subtotal())
	}

	o := &Order{
		id:            id,
		number:        number,
		userID:        userID,
		status:        PendingPayment,
		payStatus:     Unpaid,
		amount:        amount,
		address:       address,
		remark:        remark,
		details:       append([]Detail(nil), details...),
		orderTime:     orderTime,
		isConstructed: true,
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Snapshot is the full stored state of an order, used by persistence
// adapters to restore it.
type Snapshot struct {
	ID              kernel.UUID
	Number          Number
	UserID          kernel.UUID
	Status          Status
	PayStatus       PayStatus
	Amount          kernel.Money
	Address         AddressSnapshot
	Remark          string
	Details         []Detail
	OrderTime       time.Time
	CheckoutTime    *time.Time
	DeliveryTime    *time.Time
	CancelTime      *time.Time
	CancelReason    string
	RejectionReason string
}

// RestoreOrder rebuilds an order from storage. A stored row that breaks an
// invariant is refused rather than repaired.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		id:              s.ID,
		number:          s.Number,
		userID:          s.UserID,
		status:          s.Status,
		payStatus:       s.PayStatus,
		amount:          s.Amount,
		address:         s.Address,
		remark:          s.Remark,
		details:         append([]Detail(nil), s.Details...),
		orderTime:       s.OrderTime,
		checkoutTime:    copyTime(s.CheckoutTime),
		deliveryTime:    copyTime(s.DeliveryTime),
		cancelTime:      copyTime(s.CancelTime),
		cancelReason:    s.CancelReason,
		rejectionReason: s.RejectionReason,
		isConstructed:   true,
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Snapshot returns a copy of the order's state.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:              o.id,
		Number:          o.number,
		UserID:          o.userID,
		Status:          o.status,
		PayStatus:       o.payStatus,
		Amount:          o.amount,
		Address:         o.address,
		Remark:          o.remark,
		Details:         o.Details(),
		OrderTime:       o.orderTime,
		CheckoutTime:    copyTime(o.checkoutTime),
		DeliveryTime:    copyTime(o.deliveryTime),
		CancelTime:      copyTime(o.cancelTime),
		CancelReason:    o.cancelReason,
		RejectionReason: o.rejectionReason,
	}
}

// Validate checks construction and every cross-field invariant.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	if err := errors.Join(
		o.id.Validate(),
		o.number.Validate(),
		o.userID.Validate(),
		o.status.Validate(),
		o.payStatus.Validate(),
		o.address.Validate(),
	); err != nil {
		return err
	}
	if o.orderTime.IsZero() {
		return errs.NewValueIsRequiredError("order time")
	}

	return o.checkInvariants()
}

func (o *Order) checkInvariants() error {
	switch o.status {
	case PendingPayment:
		if o.payStatus != Unpaid {
			return o.violation("%s order must be Unpaid, is %s", o.status, o.payStatus)
		}
	case ToBeConfirmed, Confirmed, InDelivery, Completed:
		if o.payStatus != Paid {
			return o.violation("%s order must be Paid, is %s", o.status, o.payStatus)
		}
	case Cancelled:
		if o.payStatus != Unpaid && o.payStatus != Refunded {
			return o.violation("cancelled order must be Unpaid or Refunded, is %s", o.payStatus)
		}
	}

	everPaid := o.payStatus == Paid || o.payStatus == Refunded
	if everPaid != (o.checkoutTime != nil) {
		return o.violation("checkout time must be set exactly when the order was paid")
	}

	cancelled := o.status == Cancelled
	if cancelled != (o.cancelTime != nil) {
		return o.violation("cancel time must be set exactly when the order is cancelled")
	}
	hasCancel, hasReject := o.cancelReason != "", o.rejectionReason != ""
	if hasCancel && hasReject {
		return o.violation("cancel reason and rejection reason are mutually exclusive")
	}
	if cancelled != (hasCancel || hasReject) {
		return o.violation("a reason must be recorded exactly when the order is cancelled")
	}

	if (o.status == Completed) != (o.deliveryTime != nil) {
		return o.violation("delivery time must be set exactly when the order is completed")
	}
	return nil
}

func (o *Order) violation(format string, args ...any) error {
	return fmt.Errorf("%w: order %s: %s", ErrInvariantViolated, o.number, fmt.Sprintf(format, args...))
}

// Apply commits a decided transition to the in-memory order. The order is
// left unchanged if the transition was decided against another status or
// would break an invariant.
func (o *Order) Apply(t Transition) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if t.From != o.status {
		return NewInvalidTransitionError(o.status, t.Event,
			fmt.Sprintf("transition was decided against %s", t.From))
	}

	next := *o
	at := t.At
	next.status = t.To
	next.payStatus = t.PayStatus
	if t.Event == PaymentConfirmed {
		next.checkoutTime = &at
	}
	if t.To == Cancelled {
		next.cancelTime = &at
		next.cancelReason = t.CancelReason
		next.rejectionReason = t.RejectionReason
	}
	if t.To == Completed {
		next.deliveryTime = &at
	}

	if err := next.checkInvariants(); err != nil {
		return err
	}
	*o = next
	return nil
}

// IsEqual compares orders by id.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID          { return o.id }
func (o *Order) Number() Number           { return o.number }
func (o *Order) UserID() kernel.UUID      { return o.userID }
func (o *Order) Status() Status           { return o.status }
func (o *Order) PayStatus() PayStatus     { return o.payStatus }
func (o *Order) Amount() kernel.Money     { return o.amount }
func (o *Order) Address() AddressSnapshot { return o.address }
func (o *Order) Remark() string           { return o.remark }
func (o *Order) OrderTime() time.Time     { return o.orderTime }
func (o *Order) CheckoutTime() *time.Time { return copyTime(o.checkoutTime) }
func (o *Order) DeliveryTime() *time.Time { return copyTime(o.deliveryTime) }
func (o *Order) CancelTime() *time.Time   { return copyTime(o.cancelTime) }
func (o *Order) CancelReason() string     { return o.cancelReason }
func (o *Order) RejectionReason() string  { return o.rejectionReason }
func (o *Order) Details() []Detail        { return append([]Detail(nil), o.details...) }

// Age is measured from the order time, which is what the sweep thresholds compare against.
func (o *Order) Age(now time.Time) time.Duration {
	return now.Sub(o.orderTime)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
