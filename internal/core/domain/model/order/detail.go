package order

import (
	"errors"
	"strings"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/pkg/errs"
)

// MaxLineQuantity caps the quantity of a single line, in the cart and on the order.
const MaxLineQuantity = 999

// Detail is one line item of an order, copied from the cart at submission.
type Detail struct {
	itemID     string
	name       string
	flavor     string
	quantity   int
	unitAmount kernel.Money
}

// NewDetail builds a line item. itemID and name are required; flavor is optional.
func NewDetail(itemID, name, flavor string, quantity int, unitAmount kernel.Money) (Detail, error) {
	d := Detail{
		itemID:     strings.TrimSpace(itemID),
		name:       strings.TrimSpace(name),
		flavor:     strings.TrimSpace(flavor),
		quantity:   quantity,
		unitAmount: unitAmount,
	}

	var err error
	if d.itemID == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("item id"))
	}
	if d.name == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("item name"))
	}
	if quantity < 1 || quantity > MaxLineQuantity {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, MaxLineQuantity))
	}
	if err != nil {
		return Detail{}, err
	}
	return d, nil
}

func (d Detail) ItemID() string           { return d.itemID }
func (d Detail) Name() string             { return d.name }
func (d Detail) Flavor() string           { return d.flavor }
func (d Detail) Quantity() int            { return d.quantity }
func (d Detail) UnitAmount() kernel.Money { return d.unitAmount }

// Subtotal is unit amount times quantity.
func (d Detail) Subtotal() kernel.Money {
	return d.unitAmount.Times(d.quantity)
}
