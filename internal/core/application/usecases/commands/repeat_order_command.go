package commands

import (
	"errors"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/pkg/guard"
)

var ErrRepeatOrderCommandIsNotConstructed = errors.New(
	"RepeatOrderCommand must be created via NewRepeatOrderCommand constructor",
)

// RepeatOrderCommand puts the items of a past order back into the cart.
type RepeatOrderCommand struct { //nolint:recvcheck //using for validation
	userID  kernel.UUID
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRepeatOrderCommand(userID, orderID kernel.UUID) (RepeatOrderCommand, error) {
	if err := errors.Join(userID.Validate(), orderID.Validate()); err != nil {
		return RepeatOrderCommand{}, err
	}
	return RepeatOrderCommand{userID: userID, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c RepeatOrderCommand) Validate() error {
	return c.guard.Validate(ErrRepeatOrderCommandIsNotConstructed)
}

func (c RepeatOrderCommand) UserID() kernel.UUID  { return c.userID }
func (c RepeatOrderCommand) OrderID() kernel.UUID { return c.orderID }
