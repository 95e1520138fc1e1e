package models

import (
	"printrove-wms/controllers/idgen"
	"time"

	"gorm.io/gorm"
)

const (
	ActionIn          = "IN"
	ActionOut         = "OUT"
	ActionTransferIn  = "TRANSFER_IN"
	ActionTransferOut = "TRANSFER_OUT"
	ActionAdjustment  = "ADJUSTMENT"

	RefTypePutaway    = "PUTAWAY"
	RefTypeTransfer   = "TRANSFER"
	RefTypePicking    = "PICKING"
	RefTypeAdjustment = "ADJUSTMENT"
)

// LocationHistory is the append-only audit trail of stock movements.
// Rows are immutable once written; there is no update or delete API.
type LocationHistory struct {
	ID            int64     `json:"ID" gorm:"primaryKey"`
	ProductID     uint      `json:"productId" gorm:"index;not null"`
	BinID         uint      `json:"binId" gorm:"index;not null"`
	Action        string    `json:"action" gorm:"not null"`
	Quantity      int       `json:"quantity" gorm:"not null"`
	ReferenceType string    `json:"referenceType" gorm:"not null"`
	ReferenceID   string    `json:"referenceId"`
	Notes         string    `json:"notes"`
	PerformedBy   string    `json:"performedBy"`
	PerformedAt   time.Time `json:"performedAt" gorm:"index"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (h *LocationHistory) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == 0 {
		h.ID = idgen.GenerateID()
	}
	if h.PerformedAt.IsZero() {
		h.PerformedAt = time.Now()
	}
	return
}

// InboundActions are the actions that add stock to a bin.
var InboundActions = []string{ActionIn, ActionTransferIn}
