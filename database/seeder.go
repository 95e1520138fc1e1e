package database

import (
	"errors"
	"log"
	"printrove-wms/models"

	"gorm.io/gorm"
)

func RunSeeders(db *gorm.DB) {
	SeedProducts(db)
	SeedBins(db)
}

func SeedProducts(db *gorm.DB) {
	products := []models.Product{
		{SKU: "TSHIRT-BLANK-M", Name: "Blank T-Shirt M"},
		{SKU: "TSHIRT-BLANK-L", Name: "Blank T-Shirt L"},
		{SKU: "MUG-BLANK-11OZ", Name: "Blank Mug 11oz"},
	}

	for _, p := range products {
		var existing models.Product
		if err := db.Where("sku = ?", p.SKU).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := db.Create(&p).Error; err != nil {
					log.Printf("Failed to seed product %s: %v", p.SKU, err)
				}
			}
		}
	}
}

func SeedBins(db *gorm.DB) {
	bins := []models.Bin{
		{Name: "BLANKS-A1", Category: models.BinCategoryBlanks, Capacity: 500},
		{Name: "BLANKS-A2", Category: models.BinCategoryBlanks, Capacity: 500},
		{Name: "PRINTED-B1", Category: models.BinCategoryPrinted, Capacity: 200},
	}

	for _, b := range bins {
		var existing models.Bin
		if err := db.Where("name = ?", b.Name).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := db.Create(&b).Error; err != nil {
					log.Printf("Failed to seed bin %s: %v", b.Name, err)
				}
			}
		}
	}
}
