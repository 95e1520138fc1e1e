package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BatchStatusPlanning = "PLANNING"
	BatchStatusPicking  = "PICKING"
	BatchStatusPrinting = "PRINTING"
)

// ProductionBatch groups merchant orders scheduled for one production run.
type ProductionBatch struct {
	gorm.Model
	Name      string `json:"name" gorm:"not null"`
	Status    string `json:"status" gorm:"not null;default:PLANNING"`
	CreatedBy string `json:"createdBy"`
}

// BatchOrder is one merchant order line inside a batch. Orders detached on
// partial picking keep the row with DetachedAt set; they are not re-queued.
type BatchOrder struct {
	gorm.Model
	BatchID      uint       `json:"batchId" gorm:"index;not null"`
	OrderCode    string     `json:"orderCode" gorm:"index;not null"`
	ProductID    uint       `json:"productId" gorm:"not null"`
	VariantID    string     `json:"variantId"`
	SKU          string     `json:"sku"`
	Quantity     int        `json:"quantity" gorm:"not null"`
	DetachedAt   *time.Time `json:"detachedAt"`
	DetachReason string     `json:"detachReason"`
}
