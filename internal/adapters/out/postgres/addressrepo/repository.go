package addressrepo

import (
	"context"
	"errors"

	"takeout/internal/core/domain/model/customer"
	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormAddressRepository implements ports.AddressRepository using GORM.
type GormAddressRepository struct {
	db *gorm.DB
}

func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

func (r *GormAddressRepository) Add(ctx context.Context, address customer.Address) error {
	dto := fromDomain(address)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormAddressRepository) Get(ctx context.Context, id kernel.UUID) (customer.Address, error) {
	if err := id.Validate(); err != nil {
		return customer.Address{}, err
	}

	var dto AddressDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.UUID()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return customer.Address{}, errs.NewObjectNotFoundError("address", id.String())
		}
		return customer.Address{}, err
	}
	return toDomain(dto)
}
