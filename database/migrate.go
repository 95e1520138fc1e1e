package database

import (
	"printrove-wms/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Product{},
		&models.Bin{},
		&models.StockEntry{},
		&models.LocationHistory{},
		&models.ProductionBatch{},
		&models.BatchOrder{},
		&models.PickingRecord{},
		&models.PickingLineItem{},
		&models.PickingBinPick{},
		&models.PickingAudit{},
	)
}
