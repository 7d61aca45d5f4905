package queries

import (
	"context"

	"gorm.io/gorm"
)

type SearchOrdersQueryHandler struct {
	db *gorm.DB
}

func NewSearchOrdersQueryHandler(db *gorm.DB) SearchOrdersQueryHandler {
	return SearchOrdersQueryHandler{db: db}
}

// Handle counts all matches and returns the requested page with each
// order's lines attached.
func (h SearchOrdersQueryHandler) Handle(ctx context.Context, query SearchOrdersQuery) (OrderPage, error) {
	if err := query.Validate(); err != nil {
		return OrderPage{}, err
	}

	where, args := query.where()
	db := h.db.WithContext(ctx)

	var total int64
	if err := db.Raw(`SELECT COUNT(*) FROM orders WHERE `+where, args...).Scan(&total).Error; err != nil {
		return OrderPage{}, err
	}
	page := OrderPage{Total: total, Records: make([]OrderView, 0)}
	if total == 0 {
		return page, nil
	}

	offset := (query.Page() - 1) * query.PageSize()
	rows, err := db.Raw(
		`SELECT `+orderColumns+` FROM orders WHERE `+where+` ORDER BY order_time DESC, id LIMIT ? OFFSET ?`,
		append(args, query.PageSize(), offset)...,
	).Rows()
	if err != nil {
		return OrderPage{}, err
	}
	if page.Records, err = scanOrders(rows); err != nil {
		return OrderPage{}, err
	}
	if err = attachDetails(ctx, h.db, page.Records); err != nil {
		return OrderPage{}, err
	}
	return page, nil
}
