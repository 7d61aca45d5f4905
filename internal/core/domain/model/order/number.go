package order

import (
	"fmt"
	"math/rand/v2"
	"time"

	"takeout/internal/pkg/errs"
)

const maxNumberLength = 32

// Number is the customer-facing order number: the submission time in Unix
// milliseconds followed by four random digits.
type Number string

// GenerateNumber builds a fresh number for an order submitted at now.
// Collisions are possible within one millisecond; the store's unique key
// catches them and the caller regenerates.
func GenerateNumber(now time.Time) Number {
	return Number(fmt.Sprintf("%d%04d", now.UnixMilli(), rand.IntN(10000))) //nolint:gosec // not a secret
}

// NewNumber validates a number received from a caller or the store.
func NewNumber(s string) (Number, error) {
	n := Number(s)
	if err := n.Validate(); err != nil {
		return "", err
	}
	return n, nil
}

func (n Number) Validate() error {
	if n == "" {
		return errs.NewValueIsRequiredError("order number")
	}
	if len(n) > maxNumberLength {
		return errs.NewValueIsOutOfRangeError("order number length", len(n), 1, maxNumberLength)
	}
	for _, r := range n {
		if r < '0' || r > '9' {
			return errs.NewValueIsInvalidErrorWithCause("order number", fmt.Errorf("%q contains a non-digit", string(n)))
		}
	}
	return nil
}

func (n Number) String() string {
	return string(n)
}
