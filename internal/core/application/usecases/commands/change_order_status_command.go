package commands

import (
	"errors"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via one of its action constructors",
)

// ChangeOrderStatusCommand is one customer or merchant action on an existing
// order. Customer actions carry the caller so that only the owner may act.
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	ref    orderRef
	userID *kernel.UUID
	event  order.Event

	guard guard.ConstructorGuard
}

// NewRecordPaymentCommand is the customer paying for order number.
func NewRecordPaymentCommand(userID kernel.UUID, number order.Number) (ChangeOrderStatusCommand, error) {
	if err := errors.Join(userID.Validate(), number.Validate()); err != nil {
		return ChangeOrderStatusCommand{}, err
	}
	return newChange(orderRef{number: number}, &userID, order.NewPaymentConfirmed()), nil
}

// NewUserCancelCommand is the customer cancelling their own order.
func NewUserCancelCommand(userID, orderID kernel.UUID) (ChangeOrderStatusCommand, error) {
	if err := errors.Join(userID.Validate(), orderID.Validate()); err != nil {
		return ChangeOrderStatusCommand{}, err
	}
	return newChange(orderRef{id: orderID}, &userID, order.NewUserCancel()), nil
}

func NewMerchantConfirmCommand(orderID kernel.UUID) (ChangeOrderStatusCommand, error) {
	return newMerchantChange(orderID, order.NewMerchantConfirm(), nil)
}

func NewMerchantRejectCommand(orderID kernel.UUID, reason string) (ChangeOrderStatusCommand, error) {
	ev, err := order.NewMerchantReject(reason)
	return newMerchantChange(orderID, ev, err)
}

func NewMerchantCancelCommand(orderID kernel.UUID, reason string) (ChangeOrderStatusCommand, error) {
	ev, err := order.NewMerchantCancel(reason)
	return newMerchantChange(orderID, ev, err)
}

func NewDispatchCommand(orderID kernel.UUID) (ChangeOrderStatusCommand, error) {
	return newMerchantChange(orderID, order.NewDispatch(), nil)
}

func NewCompleteCommand(orderID kernel.UUID) (ChangeOrderStatusCommand, error) {
	return newMerchantChange(orderID, order.NewDeliver(), nil)
}

func newMerchantChange(orderID kernel.UUID, ev order.Event, evErr error) (ChangeOrderStatusCommand, error) {
	if err := errors.Join(orderID.Validate(), evErr); err != nil {
		return ChangeOrderStatusCommand{}, err
	}
	return newChange(orderRef{id: orderID}, nil, ev), nil
}

func newChange(ref orderRef, userID *kernel.UUID, ev order.Event) ChangeOrderStatusCommand {
	return ChangeOrderStatusCommand{
		ref:    ref,
		userID: userID,
		event:  ev,
		guard:  guard.NewConstructorGuard(),
	}
}

func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) Event() order.Event {
	return c.event
}

// Target is the order id or number the command acts on.
func (c ChangeOrderStatusCommand) Target() string {
	return c.ref.String()
}
