package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"printrove-wms/apperr"
	"printrove-wms/models"
	"printrove-wms/types"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PickingRepository is the picking engine: per-batch picking records whose
// line items are filled by discrete pick actions against bins. Every pick
// decrements the stock ledger and appends history in the same transaction.
type PickingRepository struct {
	db *gorm.DB
}

func NewPickingRepository(db *gorm.DB) *PickingRepository {
	return &PickingRepository{db: db}
}

// CreateFromBatch opens a PENDING picking record for a batch, with one line
// item per (product, variant) aggregated across the batch's orders.
func (r *PickingRepository) CreateFromBatch(batchID uint, createdBy string) (*models.PickingRecord, error) {
	var batch models.ProductionBatch
	if err := r.db.First(&batch, batchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("batch", batchID)
		}
		return nil, err
	}

	var existing models.PickingRecord
	if err := r.db.Where("batch_id = ?", batchID).First(&existing).Error; err == nil {
		return nil, apperr.Conflict("picking record already exists for batch %s", batch.Name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var orders []models.BatchOrder
	if err := r.db.Where("batch_id = ? AND detached_at IS NULL", batchID).Find(&orders).Error; err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, apperr.Validation("batch %s has no orders to pick", batch.Name)
	}

	type lineKey struct {
		ProductID uint
		VariantID string
	}
	required := make(map[lineKey]*models.PickingLineItem)
	var keys []lineKey
	for _, o := range orders {
		k := lineKey{o.ProductID, o.VariantID}
		if li, ok := required[k]; ok {
			li.RequiredQty += o.Quantity
		} else {
			required[k] = &models.PickingLineItem{
				ProductID:   o.ProductID,
				VariantID:   o.VariantID,
				SKU:         o.SKU,
				RequiredQty: o.Quantity,
			}
			keys = append(keys, k)
		}
	}

	record := models.PickingRecord{
		BatchID:   batchID,
		BatchName: batch.Name,
		Status:    models.PickingStatusPending,
	}
	for _, k := range keys {
		record.LineItems = append(record.LineItems, *required[k])
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return tx.Model(&batch).Update("status", models.BatchStatusPicking).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *PickingRepository) Get(id types.SnowflakeID) (*models.PickingRecord, error) {
	var record models.PickingRecord
	err := r.db.Preload("LineItems.BinPicks").Preload("Audits").First(&record, int64(id)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("picking record", id)
		}
		return nil, err
	}
	return &record, nil
}

// LineStatus is the per-product picking progress returned to the console.
type LineStatus struct {
	ProductID     uint                    `json:"productId"`
	VariantID     string                  `json:"variantId"`
	SKU           string                  `json:"sku"`
	RequiredQty   int                     `json:"required"`
	PickedQty     int                     `json:"picked"`
	PendingQty    int                     `json:"pending"`
	IsFullyPicked bool                    `json:"isFullyPicked"`
	BinsPicked    []models.PickingBinPick `json:"binsPickedFrom"`
}

func lineStatus(li *models.PickingLineItem) LineStatus {
	return LineStatus{
		ProductID:     li.ProductID,
		VariantID:     li.VariantID,
		SKU:           li.SKU,
		RequiredQty:   li.RequiredQty,
		PickedQty:     li.PickedQty,
		PendingQty:    li.PendingQty(),
		IsFullyPicked: li.IsFullyPicked(),
		BinsPicked:    li.BinPicks,
	}
}

func (r *PickingRepository) Status(id types.SnowflakeID) ([]LineStatus, error) {
	record, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	statuses := make([]LineStatus, 0, len(record.LineItems))
	for i := range record.LineItems {
		statuses = append(statuses, lineStatus(&record.LineItems[i]))
	}
	return statuses, nil
}

type PickInput struct {
	ProductID uint   `json:"productId" validate:"required"`
	VariantID string `json:"variant"`
	Quantity  int    `json:"qty" validate:"required,min=1"`
	BinID     uint   `json:"binId" validate:"required"`
	PickedBy  string `json:"pickedBy"`
}

// Pick records one pick action: guarded line-item increment, CAS stock
// decrement, bin-pick row and history entry, all in one transaction. A
// rejected pick leaves every counter untouched.
func (r *PickingRepository) Pick(id types.SnowflakeID, input PickInput) (*LineStatus, error) {
	if input.Quantity < 1 {
		return nil, apperr.Validation("pick quantity must be at least 1, got %d", input.Quantity)
	}

	var status LineStatus
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Row lock on the record: a pick cannot land between a concurrent
		// completion's shortfall read and its commit.
		var record models.PickingRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&record, int64(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("picking record", id)
			}
			return err
		}
		if record.Status == models.PickingStatusCompleted {
			return apperr.AlreadyCompleted(id)
		}

		var line models.PickingLineItem
		err := tx.Where("picking_record_id = ? AND product_id = ? AND variant_id = ?",
			int64(id), input.ProductID, input.VariantID).First(&line).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("line item for product", input.ProductID)
			}
			return err
		}

		var bin models.Bin
		if err := tx.First(&bin, input.BinID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("bin", input.BinID)
			}
			return err
		}

		// Guarded increment: two pickers racing the same line cannot push
		// picked_qty past required_qty.
		res := tx.Model(&models.PickingLineItem{}).
			Where("id = ? AND picked_qty + ? <= required_qty", line.ID, input.Quantity).
			Update("picked_qty", gorm.Expr("picked_qty + ?", input.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.OverPick(input.Quantity, line.PendingQty())
		}

		if err := applyMovement(tx, movement{
			ProductID:     input.ProductID,
			BinID:         bin.ID,
			Delta:         -input.Quantity,
			Action:        models.ActionOut,
			ReferenceType: models.RefTypePicking,
			ReferenceID:   id.String(),
			Notes:         fmt.Sprintf("picked for batch %s", record.BatchName),
			PerformedBy:   input.PickedBy,
		}); err != nil {
			return err
		}

		binPick := models.PickingBinPick{
			LineItemID: line.ID,
			BinID:      bin.ID,
			Quantity:   input.Quantity,
			PickedBy:   input.PickedBy,
			PickedAt:   time.Now(),
		}
		if err := tx.Create(&binPick).Error; err != nil {
			return err
		}

		if err := tx.Model(&record).Update("updated_at", time.Now()).Error; err != nil {
			return err
		}

		if err := tx.Preload("BinPicks").First(&line, line.ID).Error; err != nil {
			return err
		}
		status = lineStatus(&line)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// DetachedOrder names one order removed from the batch by a partial
// completion, with the shortfall reason.
type DetachedOrder struct {
	OrderCode string `json:"orderCode"`
	Reason    string `json:"reason"`
}

type partialMetadata struct {
	Orders []DetachedOrder `json:"orders"`
}

// Complete transitions the record to COMPLETED. Fully picked records
// complete cleanly; a shortfall requires force=true and detaches every
// affected order from the batch. Detachment is irreversible, the orders are
// not re-queued. The detached list is returned synchronously so the caller
// can reconcile.
func (r *PickingRepository) Complete(id types.SnowflakeID, force bool, completedBy string) ([]DetachedOrder, error) {
	var detached []DetachedOrder

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var record models.PickingRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("LineItems").First(&record, int64(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("picking record", id)
			}
			return err
		}
		if record.Status == models.PickingStatusCompleted {
			return apperr.AlreadyCompleted(id)
		}

		var shortfalls []models.PickingLineItem
		for _, li := range record.LineItems {
			if li.PendingQty() > 0 {
				shortfalls = append(shortfalls, li)
			}
		}

		if len(shortfalls) == 0 {
			if err := tx.Model(&record).Update("status", models.PickingStatusCompleted).Error; err != nil {
				return err
			}
			audit := models.PickingAudit{
				PickingRecordID: record.ID,
				Event:           models.AuditPickingComplete,
				CreatedBy:       completedBy,
			}
			return tx.Create(&audit).Error
		}

		if !force {
			return apperr.Validation(
				"picking record %s has %d unfinished line items; completing now removes their orders from the batch, pass force=true to confirm",
				id, len(shortfalls))
		}

		for _, li := range shortfalls {
			reason := fmt.Sprintf("short %d units of %s", li.PendingQty(), li.SKU)

			var orders []models.BatchOrder
			err := tx.Where("batch_id = ? AND product_id = ? AND variant_id = ? AND detached_at IS NULL",
				record.BatchID, li.ProductID, li.VariantID).Find(&orders).Error
			if err != nil {
				return err
			}

			now := time.Now()
			for _, o := range orders {
				if err := tx.Model(&o).Updates(map[string]interface{}{
					"detached_at":   now,
					"detach_reason": reason,
				}).Error; err != nil {
					return err
				}
				detached = append(detached, DetachedOrder{OrderCode: o.OrderCode, Reason: reason})

				orderMeta, err := json.Marshal(DetachedOrder{OrderCode: o.OrderCode, Reason: reason})
				if err != nil {
					return err
				}
				orderAudit := models.PickingAudit{
					PickingRecordID: record.ID,
					Event:           models.AuditOrderDetached,
					Metadata:        datatypes.JSON(orderMeta),
					CreatedBy:       completedBy,
				}
				if err := tx.Create(&orderAudit).Error; err != nil {
					return err
				}
			}
		}

		metadata, err := json.Marshal(partialMetadata{Orders: detached})
		if err != nil {
			return err
		}

		audit := models.PickingAudit{
			PickingRecordID: record.ID,
			Event:           models.AuditPickingPartial,
			Metadata:        datatypes.JSON(metadata),
			CreatedBy:       completedBy,
		}
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		return tx.Model(&record).Update("status", models.PickingStatusCompleted).Error
	})
	if err != nil {
		return nil, err
	}
	return detached, nil
}
