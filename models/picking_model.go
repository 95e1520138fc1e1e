package models

import (
	"printrove-wms/controllers/idgen"
	"printrove-wms/types"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PickingStatusPending   = "PENDING"
	PickingStatusCompleted = "COMPLETED"

	AuditPickingComplete = "PICKING_COMPLETE"
	AuditPickingPartial  = "PICKING_PARTIAL"
	AuditOrderDetached   = "ORDER_DETACHED"
)

// PickingRecord tracks picking for one production batch. PENDING until an
// operator completes it; COMPLETED is terminal.
type PickingRecord struct {
	ID        types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	BatchID   uint              `json:"batchId" gorm:"index;not null"`
	BatchName string            `json:"batchName"`
	Status    string            `json:"status" gorm:"not null;default:PENDING"`
	LineItems []PickingLineItem `json:"lineItems" gorm:"foreignKey:PickingRecordID"`
	Audits    []PickingAudit    `json:"auditTrail" gorm:"foreignKey:PickingRecordID"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func (p *PickingRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == 0 {
		p.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

// PickingLineItem carries the required versus picked quantity for one
// (product, variant) of the batch. PendingQty is always derived so the two
// counters cannot drift.
type PickingLineItem struct {
	gorm.Model
	PickingRecordID types.SnowflakeID `json:"pickingRecordId" gorm:"index;not null"`
	ProductID       uint              `json:"productId" gorm:"not null"`
	VariantID       string            `json:"variantId"`
	SKU             string            `json:"sku"`
	RequiredQty     int               `json:"requiredQty" gorm:"not null"`
	PickedQty       int               `json:"pickedQty" gorm:"not null;default:0"`
	BinPicks        []PickingBinPick  `json:"binsPickedFrom" gorm:"foreignKey:LineItemID"`
}

func (li *PickingLineItem) PendingQty() int {
	return li.RequiredQty - li.PickedQty
}

func (li *PickingLineItem) IsFullyPicked() bool {
	return li.PickedQty >= li.RequiredQty
}

// PickingBinPick is one discrete pick action against a bin. Append-only.
type PickingBinPick struct {
	gorm.Model
	LineItemID uint      `json:"lineItemId" gorm:"index;not null"`
	BinID      uint      `json:"binId" gorm:"not null"`
	Quantity   int       `json:"pickedQty" gorm:"not null"`
	PickedBy   string    `json:"pickedBy"`
	PickedAt   time.Time `json:"timestamp"`
}

// PickingAudit records completion events. Metadata holds the affected-order
// list for partial completions.
type PickingAudit struct {
	ID              int64             `json:"ID" gorm:"primaryKey"`
	PickingRecordID types.SnowflakeID `json:"pickingRecordId" gorm:"index;not null"`
	Event           string            `json:"event" gorm:"not null"`
	Metadata        datatypes.JSON    `json:"metadata"`
	CreatedBy       string            `json:"createdBy"`
	CreatedAt       time.Time         `json:"createdAt"`
}

func (a *PickingAudit) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == 0 {
		a.ID = idgen.GenerateID()
	}
	return
}
