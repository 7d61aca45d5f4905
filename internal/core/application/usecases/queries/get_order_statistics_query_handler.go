package queries

import (
	"context"

	"takeout/internal/core/domain/model/order"

	"gorm.io/gorm"
)

type GetOrderStatisticsQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderStatisticsQueryHandler(db *gorm.DB) GetOrderStatisticsQueryHandler {
	return GetOrderStatisticsQueryHandler{db: db}
}

func (h GetOrderStatisticsQueryHandler) Handle(ctx context.Context, query GetOrderStatisticsQuery) (OrderStatistics, error) {
	if err := query.Validate(); err != nil {
		return OrderStatistics{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			COUNT(*)
		FROM orders
		WHERE status IN ?
		GROUP BY status
	`, []int{int(order.ToBeConfirmed), int(order.Confirmed), int(order.InDelivery)}).Rows()
	if err != nil {
		return OrderStatistics{}, err
	}
	defer rows.Close()

	var stats OrderStatistics
	for rows.Next() {
		var status int
		var count int64
		if err = rows.Scan(&status, &count); err != nil {
			return OrderStatistics{}, err
		}
		switch order.Status(status) {
		case order.ToBeConfirmed:
			stats.ToBeConfirmed = count
		case order.Confirmed:
			stats.Confirmed = count
		case order.InDelivery:
			stats.InDelivery = count
		}
	}
	return stats, rows.Err()
}
