package repositories

import (
	"testing"

	"printrove-wms/database"
	"printrove-wms/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive and shared.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func createProduct(t *testing.T, db *gorm.DB, sku string) *models.Product {
	t.Helper()
	product := models.Product{SKU: sku, Name: "Product " + sku}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func createBin(t *testing.T, db *gorm.DB, name, category string, capacity int) *models.Bin {
	t.Helper()
	bin := models.Bin{Name: name, Category: category, Capacity: capacity}
	require.NoError(t, db.Create(&bin).Error)
	return &bin
}

func createUnboundedBin(t *testing.T, db *gorm.DB, name, category string) *models.Bin {
	t.Helper()
	bin := models.Bin{Name: name, Category: category, Unbounded: true}
	require.NoError(t, db.Create(&bin).Error)
	return &bin
}

func putaway(t *testing.T, db *gorm.DB, productID, binID uint, qty int) {
	t.Helper()
	repo := NewStockRepository(db)
	require.NoError(t, repo.Putaway(productID, binID, qty, "test putaway", "tester"))
}

func stockQty(t *testing.T, db *gorm.DB, productID, binID uint) int {
	t.Helper()
	qty, err := NewStockRepository(db).GetQuantity(productID, binID)
	require.NoError(t, err)
	return qty
}

func historyCount(t *testing.T, db *gorm.DB, productID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.LocationHistory{}).
		Where("product_id = ?", productID).Count(&count).Error)
	return count
}
