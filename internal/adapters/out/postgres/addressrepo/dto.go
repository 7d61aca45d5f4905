// Package addressrepo persists the customer address book.
package addressrepo

import (
	"takeout/internal/core/domain/model/customer"
	"takeout/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type AddressDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Consignee string    `gorm:"size:64;not null"`
	Phone     string    `gorm:"size:32;not null"`
	Province  string    `gorm:"size:64"`
	City      string    `gorm:"size:64"`
	District  string    `gorm:"size:64"`
	Detail    string    `gorm:"size:255;not null"`
	Label     string    `gorm:"size:32"`
	IsDefault bool
}

func (AddressDTO) TableName() string {
	return "address_book"
}

func fromDomain(a customer.Address) AddressDTO {
	return AddressDTO{
		ID:        a.ID().UUID(),
		UserID:    a.UserID().UUID(),
		Consignee: a.Consignee(),
		Phone:     a.Phone(),
		Province:  a.Province(),
		City:      a.City(),
		District:  a.District(),
		Detail:    a.Detail(),
		Label:     a.Label(),
		IsDefault: a.IsDefault(),
	}
}

func toDomain(dto AddressDTO) (customer.Address, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return customer.Address{}, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return customer.Address{}, err
	}
	return customer.NewAddress(id, userID, dto.Consignee, dto.Phone,
		dto.Province, dto.City, dto.District, dto.Detail, dto.Label, dto.IsDefault)
}
