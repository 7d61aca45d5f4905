package queries

import (
	"errors"
	"time"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/pkg/guard"
)

var ErrGetOrderDetailsQueryIsNotConstructed = errors.New(
	"GetOrderDetailsQuery must be created via NewGetOrderDetailsQuery or NewGetOwnOrderDetailsQuery",
)

// GetOrderDetailsQuery reads one order with its lines. The customer variant
// only finds the caller's own orders.
type GetOrderDetailsQuery struct {
	orderID kernel.UUID
	userID  *kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderDetailsQuery is the merchant view of any order.
func NewGetOrderDetailsQuery(orderID kernel.UUID) (GetOrderDetailsQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderDetailsQuery{}, err
	}
	return GetOrderDetailsQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func NewGetOwnOrderDetailsQuery(userID, orderID kernel.UUID) (GetOrderDetailsQuery, error) {
	if err := errors.Join(userID.Validate(), orderID.Validate()); err != nil {
		return GetOrderDetailsQuery{}, err
	}
	return GetOrderDetailsQuery{orderID: orderID, userID: &userID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderDetailsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderDetailsQueryIsNotConstructed)
}

// OrderView is the read model of an order row.
type OrderView struct {
	ID              kernel.UUID
	Number          order.Number
	UserID          kernel.UUID
	Status          order.Status
	PayStatus       order.PayStatus
	Amount          kernel.Money
	Consignee       string
	Phone           string
	Address         string
	Remark          string
	OrderTime       time.Time
	CheckoutTime    *time.Time
	DeliveryTime    *time.Time
	CancelTime      *time.Time
	CancelReason    string
	RejectionReason string
	Details         []DetailView
}

type DetailView struct {
	ItemID     string
	Name       string
	Flavor     string
	Quantity   int
	UnitAmount kernel.Money
}
