package repositories

import (
	"errors"
	"fmt"

	"printrove-wms/apperr"
	"printrove-wms/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransferRepository is the bin-to-bin transfer engine. A transfer is one
// atomic unit: source decrement, destination increment, capacity re-check,
// and the TRANSFER_OUT/TRANSFER_IN history pair sharing one reference id.
type TransferRepository struct {
	db *gorm.DB
}

func NewTransferRepository(db *gorm.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

type TransferInput struct {
	ProductID     uint   `json:"productId" validate:"required"`
	FromBinID     uint   `json:"fromBinId" validate:"required"`
	ToBinID       uint   `json:"toBinId" validate:"required"`
	Quantity      int    `json:"quantity" validate:"required,min=1"`
	Reason        string `json:"reason" validate:"required"`
	TransferredBy string `json:"transferredBy"`
}

func (r *TransferRepository) Transfer(input TransferInput) error {
	if input.Quantity < 1 {
		return apperr.Validation("transfer quantity must be at least 1, got %d", input.Quantity)
	}
	if input.FromBinID == input.ToBinID {
		return apperr.Validation("source and destination bin must differ")
	}
	if input.Reason == "" {
		return apperr.Validation("transfer reason is required")
	}

	if err := ensureProductExists(r.db, input.ProductID); err != nil {
		return err
	}

	referenceID := uuid.NewString()

	return r.db.Transaction(func(tx *gorm.DB) error {
		var fromBin models.Bin
		if err := tx.First(&fromBin, input.FromBinID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("source bin", input.FromBinID)
			}
			return err
		}
		// Row lock on the destination: inbound movements into one bin
		// serialize so the capacity re-check sees every committed increment.
		toBin, err := lockBin(tx, input.ToBinID, "destination bin")
		if err != nil {
			return err
		}

		if err := applyMovement(tx, movement{
			ProductID:     input.ProductID,
			BinID:         fromBin.ID,
			Delta:         -input.Quantity,
			Action:        models.ActionTransferOut,
			ReferenceType: models.RefTypeTransfer,
			ReferenceID:   referenceID,
			Notes:         input.Reason,
			PerformedBy:   input.TransferredBy,
		}); err != nil {
			return err
		}

		if err := applyMovement(tx, movement{
			ProductID:     input.ProductID,
			BinID:         toBin.ID,
			Delta:         input.Quantity,
			Action:        models.ActionTransferIn,
			ReferenceType: models.RefTypeTransfer,
			ReferenceID:   referenceID,
			Notes:         input.Reason,
			PerformedBy:   input.TransferredBy,
		}); err != nil {
			return err
		}

		// Authoritative capacity check, after the increment and under the
		// destination row lock. The pre-flight ValidateCapacity is advisory.
		return checkCommittedCapacity(tx, toBin)
	})
}

// CapacityPreview is the read-only answer to "would qty fit in this bin
// right now". No reservation is taken; the transfer re-validates atomically.
type CapacityPreview struct {
	CanAccommodate bool    `json:"canAccommodate"`
	IsWarning      bool    `json:"isWarning"`
	Utilization    float64 `json:"utilization"`
	Message        string  `json:"message"`
}

func (r *TransferRepository) ValidateCapacity(binID uint, qty int) (*CapacityPreview, error) {
	if qty < 1 {
		return nil, apperr.Validation("quantity must be at least 1, got %d", qty)
	}

	var bin models.Bin
	if err := r.db.First(&bin, binID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("bin", binID)
		}
		return nil, err
	}

	if bin.Unbounded {
		return &CapacityPreview{
			CanAccommodate: true,
			Message:        fmt.Sprintf("bin %s is unbounded", bin.Name),
		}, nil
	}

	current, err := binQuantity(r.db, bin.ID)
	if err != nil {
		return nil, err
	}

	projected := current + qty
	utilization := float64(projected) / float64(bin.Capacity) * 100

	preview := &CapacityPreview{
		CanAccommodate: projected <= bin.Capacity,
		IsWarning:      utilization >= warningThreshold() && utilization < 100,
		Utilization:    utilization,
	}

	if preview.CanAccommodate {
		preview.Message = fmt.Sprintf("bin %s can accommodate %d units (%.0f%% utilized)",
			bin.Name, qty, utilization)
	} else {
		preview.Message = fmt.Sprintf("bin %s cannot accommodate %d units: would exceed capacity at %.0f%%",
			bin.Name, qty, utilization)
	}

	return preview, nil
}
