package models

import (
	"gorm.io/gorm"
)

const (
	BinCategoryBlanks  = "Blanks"
	BinCategoryPrinted = "Printed"

	BinStatusAvailable = "AVAILABLE"
	BinStatusWarning   = "WARNING"
	BinStatusFull      = "FULL"
)

type Bin struct {
	gorm.Model
	Name     string `json:"name" gorm:"unique;not null" validate:"required"`
	Category string `json:"category" gorm:"not null" validate:"required"`
	// Capacity is advisory and must be >= 1 unless the bin is explicitly
	// unbounded. Utilization is always derived, never stored.
	Capacity  int    `json:"capacity" gorm:"default:0"`
	Unbounded bool   `json:"unbounded" gorm:"default:false"`
	CreatedBy string `json:"createdBy"`
	UpdatedBy string `json:"updatedBy"`
}

func ValidBinCategory(category string) bool {
	return category == BinCategoryBlanks || category == BinCategoryPrinted
}

// BinUtilization is computed fresh from the stock ledger on every request.
type BinUtilization struct {
	BinID              uint    `json:"binId"`
	Name               string  `json:"name"`
	Category           string  `json:"category"`
	Capacity           int     `json:"capacity"`
	Unbounded          bool    `json:"unbounded"`
	CurrentQuantity    int     `json:"currentQuantity"`
	AvailableSpace     int     `json:"availableSpace"`
	UtilizationPercent float64 `json:"utilizationPercent"`
	Status             string  `json:"status"`
}
