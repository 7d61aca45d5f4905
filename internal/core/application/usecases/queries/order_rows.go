package queries

import (
	"context"
	"database/sql"
	"time"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const orderColumns = `
	id,
	number,
	user_id,
	status,
	pay_status,
	amount,
	consignee,
	phone,
	address,
	remark,
	order_time,
	checkout_time,
	delivery_time,
	cancel_time,
	cancel_reason,
	rejection_reason`

func scanOrders(rows *sql.Rows) ([]OrderView, error) {
	defer rows.Close()

	views := make([]OrderView, 0)
	for rows.Next() {
		var (
			v                                      OrderView
			id, userID                             uuid.UUID
			number                                 string
			status, payStatus                      int
			amount                                 decimal.Decimal
			checkoutTime, deliveryTime, cancelTime sql.NullTime
		)
		err := rows.Scan(
			&id,
			&number,
			&userID,
			&status,
			&payStatus,
			&amount,
			&v.Consignee,
			&v.Phone,
			&v.Address,
			&v.Remark,
			&v.OrderTime,
			&checkoutTime,
			&deliveryTime,
			&cancelTime,
			&v.CancelReason,
			&v.RejectionReason,
		)
		if err != nil {
			return nil, err
		}

		if v.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if v.UserID, err = kernel.UUIDFromBytes(userID[:]); err != nil {
			return nil, err
		}
		if v.Amount, err = kernel.NewMoney(amount); err != nil {
			return nil, err
		}
		v.Number = order.Number(number)
		v.Status = order.Status(status)
		v.PayStatus = order.PayStatus(payStatus)
		v.CheckoutTime = nullTime(checkoutTime)
		v.DeliveryTime = nullTime(deliveryTime)
		v.CancelTime = nullTime(cancelTime)
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return views, nil
}

// attachDetails loads the lines of every view in one query.
func attachDetails(ctx context.Context, db *gorm.DB, views []OrderView) error {
	if len(views) == 0 {
		return nil
	}
	ids := make([]string, 0, len(views))
	index := make(map[string]int, len(views))
	for i, v := range views {
		ids = append(ids, v.ID.String())
		index[v.ID.String()] = i
	}

	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			order_id,
			item_id,
			name,
			flavor,
			quantity,
			unit_amount
		FROM order_details
		WHERE order_id IN ?
		ORDER BY id
	`, ids).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			d       DetailView
			orderID uuid.UUID
			unit    decimal.Decimal
		)
		if err = rows.Scan(&orderID, &d.ItemID, &d.Name, &d.Flavor, &d.Quantity, &unit); err != nil {
			return err
		}
		if d.UnitAmount, err = kernel.NewMoney(unit); err != nil {
			return err
		}
		i := index[orderID.String()]
		views[i].Details = append(views[i].Details, d)
	}
	return rows.Err()
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
