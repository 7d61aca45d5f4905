package order

import (
	"errors"
	"strings"

	"takeout/internal/pkg/errs"
)

// AddressSnapshot is the delivery address as it was when the order was
// placed. Later address book edits never reach it.
type AddressSnapshot struct {
	consignee string
	phone     string
	line      string
}

func NewAddressSnapshot(consignee, phone, line string) (AddressSnapshot, error) {
	a := AddressSnapshot{
		consignee: strings.TrimSpace(consignee),
		phone:     strings.TrimSpace(phone),
		line:      strings.TrimSpace(line),
	}
	if err := a.Validate(); err != nil {
		return AddressSnapshot{}, err
	}
	return a, nil
}

func (a AddressSnapshot) Validate() error {
	var err error
	if a.consignee == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("consignee"))
	}
	if a.phone == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("phone"))
	}
	if a.line == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("address"))
	}
	return err
}

func (a AddressSnapshot) Consignee() string { return a.consignee }
func (a AddressSnapshot) Phone() string     { return a.phone }
func (a AddressSnapshot) Line() string      { return a.line }
