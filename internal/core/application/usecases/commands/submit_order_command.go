package commands

import (
	"errors"
	"strings"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/pkg/guard"
)

var ErrSubmitOrderCommandIsNotConstructed = errors.New(
	"SubmitOrderCommand must be created via NewSubmitOrderCommand constructor",
)

// SubmitOrderCommand places an order from the caller's current cart.
type SubmitOrderCommand struct { //nolint:recvcheck //using for validation
	userID    kernel.UUID
	addressID kernel.UUID
	remark    string

	guard guard.ConstructorGuard
}

func NewSubmitOrderCommand(userID, addressID kernel.UUID, remark string) (SubmitOrderCommand, error) {
	if err := errors.Join(userID.Validate(), addressID.Validate()); err != nil {
		return SubmitOrderCommand{}, err
	}
	return SubmitOrderCommand{
		userID:    userID,
		addressID: addressID,
		remark:    strings.TrimSpace(remark),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c SubmitOrderCommand) Validate() error {
	return c.guard.Validate(ErrSubmitOrderCommandIsNotConstructed)
}

func (c SubmitOrderCommand) UserID() kernel.UUID    { return c.userID }
func (c SubmitOrderCommand) AddressID() kernel.UUID { return c.addressID }
func (c SubmitOrderCommand) Remark() string         { return c.remark }
