package customer

import (
	"errors"
	"strings"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/pkg/errs"
)

// CartLine is one item in a user's cart. Quantity stays within
// 1..order.MaxLineQuantity so that every cart can be submitted.
type CartLine struct {
	ItemID     string
	Name       string
	Flavor     string
	Quantity   int
	UnitAmount kernel.Money
}

// NewCartLine validates and normalises a cart line.
func NewCartLine(itemID, name, flavor string, quantity int, unitAmount kernel.Money) (CartLine, error) {
	l := CartLine{
		ItemID:     strings.TrimSpace(itemID),
		Name:       strings.TrimSpace(name),
		Flavor:     strings.TrimSpace(flavor),
		Quantity:   quantity,
		UnitAmount: unitAmount,
	}
	if err := l.Validate(); err != nil {
		return CartLine{}, err
	}
	return l, nil
}

func (l CartLine) Validate() error {
	var err error
	if l.ItemID == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("item id"))
	}
	if l.Name == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("item name"))
	}
	if l.Quantity < 1 || l.Quantity > order.MaxLineQuantity {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("quantity", l.Quantity, 1, order.MaxLineQuantity))
	}
	return err
}

// Key identifies the line within a cart: the same item with a different
// flavor is a different line.
func (l CartLine) Key() string {
	if l.Flavor == "" {
		return l.ItemID
	}
	return l.ItemID + "|" + l.Flavor
}
