package queries

import (
	"context"

	"takeout/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetOrderDetailsQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderDetailsQueryHandler(db *gorm.DB) GetOrderDetailsQueryHandler {
	return GetOrderDetailsQueryHandler{db: db}
}

// Handle returns *errs.ObjectNotFoundError when the order is absent or, for
// the customer variant, belongs to someone else.
func (h GetOrderDetailsQueryHandler) Handle(ctx context.Context, query GetOrderDetailsQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	sqlText := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`
	args := []any{query.orderID.String()}
	if query.userID != nil {
		sqlText += ` AND user_id = ?`
		args = append(args, query.userID.String())
	}

	rows, err := h.db.WithContext(ctx).Raw(sqlText, args...).Rows()
	if err != nil {
		return OrderView{}, err
	}
	views, err := scanOrders(rows)
	if err != nil {
		return OrderView{}, err
	}
	if len(views) == 0 {
		return OrderView{}, errs.NewObjectNotFoundError("order", query.orderID.String())
	}

	if err = attachDetails(ctx, h.db, views); err != nil {
		return OrderView{}, err
	}
	return views[0], nil
}
