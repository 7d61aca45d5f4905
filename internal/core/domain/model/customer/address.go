package customer

import (
	"errors"
	"strings"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/pkg/errs"
)

// Address is an entry in a user's address book.
type Address struct {
	id        kernel.UUID
	userID    kernel.UUID
	consignee string
	phone     string
	province  string
	city      string
	district  string
	detail    string
	label     string
	isDefault bool
}

// NewAddress builds an address book entry. Consignee, phone and detail are required.
func NewAddress(
	id, userID kernel.UUID,
	consignee, phone, province, city, district, detail, label string,
	isDefault bool,
) (Address, error) {
	a := Address{
		id:        id,
		userID:    userID,
		consignee: strings.TrimSpace(consignee),
		phone:     strings.TrimSpace(phone),
		province:  strings.TrimSpace(province),
		city:      strings.TrimSpace(city),
		district:  strings.TrimSpace(district),
		detail:    strings.TrimSpace(detail),
		label:     strings.TrimSpace(label),
		isDefault: isDefault,
	}

	err := errors.Join(id.Validate(), userID.Validate())
	if a.consignee == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("consignee"))
	}
	if a.phone == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("phone"))
	}
	if a.detail == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("address detail"))
	}
	if err != nil {
		return Address{}, err
	}
	return a, nil
}

func (a Address) ID() kernel.UUID     { return a.id }
func (a Address) UserID() kernel.UUID { return a.userID }
func (a Address) Consignee() string   { return a.consignee }
func (a Address) Phone() string       { return a.phone }
func (a Address) Province() string    { return a.province }
func (a Address) City() string        { return a.city }
func (a Address) District() string    { return a.district }
func (a Address) Detail() string      { return a.detail }
func (a Address) Label() string       { return a.label }
func (a Address) IsDefault() bool     { return a.isDefault }

// BelongsTo reports whether the entry is in userID's address book.
func (a Address) BelongsTo(userID kernel.UUID) bool {
	return a.userID.IsEqual(userID)
}

// Line joins the non-empty address parts into a single delivery line.
func (a Address) Line() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.province, a.city, a.district, a.detail} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
