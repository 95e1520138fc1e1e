package models

import (
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	SKU       string `json:"sku" gorm:"unique;not null" validate:"required"`
	Name      string `json:"name" gorm:"not null" validate:"required"`
	CreatedBy string `json:"createdBy"`
	UpdatedBy string `json:"updatedBy"`
}
