// Package orderrepo persists the order aggregate: the orders row, its
// immutable detail lines and the append-only status history.
package orderrepo

import (
	"time"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders table. Sweeps scan by (status, order_time).
type OrderDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Number          string          `gorm:"size:32;not null;uniqueIndex"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status          int             `gorm:"not null;index:idx_orders_status_time,priority:1"`
	PayStatus       int             `gorm:"not null"`
	Amount          decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Consignee       string          `gorm:"size:64"`
	Phone           string          `gorm:"size:32"`
	Address         string          `gorm:"size:255"`
	Remark          string          `gorm:"size:100"`
	OrderTime       time.Time       `gorm:"not null;index:idx_orders_status_time,priority:2"`
	CheckoutTime    *time.Time
	DeliveryTime    *time.Time
	CancelTime      *time.Time
	CancelReason    string           `gorm:"size:255"`
	RejectionReason string           `gorm:"size:255"`
	Details         []OrderDetailDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderDetailDTO is one line item, written once with its order.
type OrderDetailDTO struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID     string          `gorm:"size:64;not null"`
	Name       string          `gorm:"size:128;not null"`
	Flavor     string          `gorm:"size:128"`
	Quantity   int             `gorm:"not null"`
	UnitAmount decimal.Decimal `gorm:"type:numeric(10,2);not null"`
}

func (OrderDetailDTO) TableName() string {
	return "order_details"
}

// StatusHistoryDTO records one committed transition.
type StatusHistoryDTO struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	FromStatus int       `gorm:"not null"`
	ToStatus   int       `gorm:"not null"`
	Event      string    `gorm:"size:32;not null"`
	Reason     string    `gorm:"size:255"`
	At         time.Time `gorm:"not null"`
}

func (StatusHistoryDTO) TableName() string {
	return "order_status_history"
}

// Models lists every table this package owns, for AutoMigrate.
func Models() []any {
	return []any{&OrderDTO{}, &OrderDetailDTO{}, &StatusHistoryDTO{}}
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()
	dto := OrderDTO{
		ID:              s.ID.UUID(),
		Number:          s.Number.String(),
		UserID:          s.UserID.UUID(),
		Status:          int(s.Status),
		PayStatus:       int(s.PayStatus),
		Amount:          s.Amount.Decimal(),
		Consignee:       s.Address.Consignee(),
		Phone:           s.Address.Phone(),
		Address:         s.Address.Line(),
		Remark:          s.Remark,
		OrderTime:       s.OrderTime,
		CheckoutTime:    s.CheckoutTime,
		DeliveryTime:    s.DeliveryTime,
		CancelTime:      s.CancelTime,
		CancelReason:    s.CancelReason,
		RejectionReason: s.RejectionReason,
		Details:         make([]OrderDetailDTO, 0, len(s.Details)),
	}
	for _, d := range s.Details {
		dto.Details = append(dto.Details, OrderDetailDTO{
			OrderID:    dto.ID,
			ItemID:     d.ItemID(),
			Name:       d.Name(),
			Flavor:     d.Flavor(),
			Quantity:   d.Quantity(),
			UnitAmount: d.UnitAmount().Decimal(),
		})
	}
	return dto
}

// lifecycleColumns are the columns a transition may change. id, number,
// user, amount, address and details are written once on insert.
func lifecycleColumns(o *order.Order) map[string]any {
	s := o.Snapshot()
	return map[string]any{
		"status":           int(s.Status),
		"pay_status":       int(s.PayStatus),
		"checkout_time":    s.CheckoutTime,
		"delivery_time":    s.DeliveryTime,
		"cancel_time":      s.CancelTime,
		"cancel_reason":    s.CancelReason,
		"rejection_reason": s.RejectionReason,
	}
}

func historyFromTransition(id kernel.UUID, tr order.Transition) StatusHistoryDTO {
	return StatusHistoryDTO{
		OrderID:    id.UUID(),
		FromStatus: int(tr.From),
		ToStatus:   int(tr.To),
		Event:      tr.Event.String(),
		Reason:     tr.Reason(),
		At:         tr.At,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(dto.Amount)
	if err != nil {
		return nil, err
	}
	address, err := order.NewAddressSnapshot(dto.Consignee, dto.Phone, dto.Address)
	if err != nil {
		return nil, err
	}

	details := make([]order.Detail, 0, len(dto.Details))
	for _, d := range dto.Details {
		unit, unitErr := kernel.NewMoney(d.UnitAmount)
		if unitErr != nil {
			return nil, unitErr
		}
		detail, detailErr := order.NewDetail(d.ItemID, d.Name, d.Flavor, d.Quantity, unit)
		if detailErr != nil {
			return nil, detailErr
		}
		details = append(details, detail)
	}

	return order.RestoreOrder(order.Snapshot{
		ID:              id,
		Number:          order.Number(dto.Number),
		UserID:          userID,
		Status:          order.Status(dto.Status),
		PayStatus:       order.PayStatus(dto.PayStatus),
		Amount:          amount,
		Address:         address,
		Remark:          dto.Remark,
		Details:         details,
		OrderTime:       dto.OrderTime,
		CheckoutTime:    dto.CheckoutTime,
		DeliveryTime:    dto.DeliveryTime,
		CancelTime:      dto.CancelTime,
		CancelReason:    dto.CancelReason,
		RejectionReason: dto.RejectionReason,
	})
}
