package commands

import (
	"context"
	"fmt"

	"takeout/internal/core/domain/model/customer"
	"takeout/internal/core/ports"
	"takeout/internal/pkg/errs"
)

// RepeatOrderCommandHandler copies an order's lines into its owner's cart.
// It reads the order only, so no transaction is opened.
type RepeatOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	cart       ports.CartStore
}

func NewRepeatOrderCommandHandler(uowFactory OrderUoWFactory, cart ports.CartStore) RepeatOrderCommandHandler {
	return RepeatOrderCommandHandler{uowFactory: uowFactory, cart: cart}
}

func (h RepeatOrderCommandHandler) Handle(ctx context.Context, cmd RepeatOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	o, err := h.uowFactory.Create().OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if !o.UserID().IsEqual(cmd.UserID()) {
		return errs.NewObjectNotFoundError("order", cmd.OrderID().String())
	}

	details := o.Details()
	lines := make([]customer.CartLine, 0, len(details))
	for _, d := range details {
		line, lineErr := customer.NewCartLine(d.ItemID(), d.Name(), d.Flavor(), d.Quantity(), d.UnitAmount())
		if lineErr != nil {
			return lineErr
		}
		lines = append(lines, line)
	}

	if err = h.cart.Add(ctx, cmd.UserID(), lines...); err != nil {
		return fmt.Errorf("refill cart: %w", err)
	}
	return nil
}
