package models

import (
	"gorm.io/gorm"
)

// StockEntry is the authoritative per (product, bin) quantity. Rows are
// created on first putaway and never deleted; a zero-quantity row is
// logically absent. All mutation goes through the stock ledger so every
// quantity change is paired with a LocationHistory row.
type StockEntry struct {
	gorm.Model
	ProductID uint `json:"productId" gorm:"uniqueIndex:idx_stock_product_bin;not null"`
	BinID     uint `json:"binId" gorm:"uniqueIndex:idx_stock_product_bin;not null"`
	Quantity  int  `json:"quantity" gorm:"not null;default:0"`
}
