package orderrepo

import (
	"context"
	"errors"
	"time"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/core/ports"
	"takeout/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts the order and its details. A taken number comes back as
// ports.ErrDuplicateOrderNumber; the connection must translate errors.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrDuplicateOrderNumber
		}
		return err
	}
	return nil
}

// UpdateIfStatus is the compare-and-swap every transition goes through:
//
//	UPDATE orders SET ... WHERE id = ? AND status = <transition.From>
//
// On one affected row the transition is appended to the status history in
// the same session.
func (r *GormOrderRepository) UpdateIfStatus(
	ctx context.Context,
	aggregate *order.Order,
	transition order.Transition,
) (int64, error) {
	if err := aggregate.Validate(); err != nil {
		return 0, err
	}
	if aggregate.Status() != transition.To {
		return 0, errs.NewValueIsInvalidError("transition does not match the aggregate")
	}

	db := r.db.WithContext(ctx)
	result := db.Model(&OrderDTO{}).
		Where("id = ? AND status = ?", aggregate.ID().UUID(), int(transition.From)).
		Updates(lifecycleColumns(aggregate))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, nil
	}

	history := historyFromTransition(aggregate.ID(), transition)
	if err := db.Create(&history).Error; err != nil {
		return 0, err
	}
	return result.RowsAffected, nil
}

// Get retrieves an order with its details by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, id.String(), "id = ?", id.UUID())
}

func (r *GormOrderRepository) GetByNumber(ctx context.Context, number order.Number) (*order.Order, error) {
	if err := number.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, number.String(), "number = ?", number.String())
}

func (r *GormOrderRepository) first(ctx context.Context, ref string, query string, arg any) (*order.Order, error) {
	var dto OrderDTO
	err := r.db.WithContext(ctx).Preload("Details", orderDetails).First(&dto, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", ref)
		}
		return nil, err
	}
	return toDomain(dto)
}

// FindByStatusOlderThan returns orders in status placed before cutoff,
// oldest first. A limit of zero or less means no limit.
func (r *GormOrderRepository) FindByStatusOlderThan(
	ctx context.Context,
	status order.Status,
	cutoff time.Time,
	limit int,
) ([]*order.Order, error) {
	q := r.db.WithContext(ctx).
		Preload("Details", orderDetails).
		Where("status = ? AND order_time < ?", int(status), cutoff).
		Order("order_time")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var dtos []OrderDTO
	if err := q.Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// History returns the recorded transitions of an order in commit order.
func (r *GormOrderRepository) History(ctx context.Context, id kernel.UUID) ([]StatusHistoryDTO, error) {
	var rows []StatusHistoryDTO
	err := r.db.WithContext(ctx).Where("order_id = ?", id.UUID()).Order("id").Find(&rows).Error
	return rows, err
}

func orderDetails(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}
