package queries

import (
	"errors"

	"takeout/internal/pkg/guard"
)

var ErrGetOrderStatisticsQueryIsNotConstructed = errors.New(
	"GetOrderStatisticsQuery must be created via NewGetOrderStatisticsQuery constructor",
)

// GetOrderStatisticsQuery counts the orders a merchant still has to act on.
type GetOrderStatisticsQuery struct {
	guard guard.ConstructorGuard
}

func NewGetOrderStatisticsQuery() GetOrderStatisticsQuery {
	return GetOrderStatisticsQuery{guard: guard.NewConstructorGuard()}
}

func (q GetOrderStatisticsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStatisticsQueryIsNotConstructed)
}

type OrderStatistics struct {
	ToBeConfirmed int64
	Confirmed     int64
	InDelivery    int64
}
