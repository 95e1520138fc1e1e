package notifier

import (
	"testing"

	"printrove-wms/database"
	"printrove-wms/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
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

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func setStock(t *testing.T, db *gorm.DB, productID, binID uint, qty int) {
	t.Helper()
	var entry models.StockEntry
	err := db.Where("product_id = ? AND bin_id = ?", productID, binID).First(&entry).Error
	if err != nil {
		entry = models.StockEntry{ProductID: productID, BinID: binID, Quantity: qty}
		require.NoError(t, db.Create(&entry).Error)
		return
	}
	require.NoError(t, db.Model(&entry).Update("quantity", qty).Error)
}

func TestCheckAlertsOncePerCrossing(t *testing.T) {
	db := newTestDB(t)

	product := models.Product{SKU: "TSHIRT-M", Name: "Blank T-Shirt M"}
	require.NoError(t, db.Create(&product).Error)
	bin := models.Bin{Name: "A1", Category: models.BinCategoryBlanks, Capacity: 100}
	require.NoError(t, db.Create(&bin).Error)

	n := NewCapacityNotifier(db)
	var alerts [][]models.BinUtilization
	n.send = func(bins []models.BinUtilization) error {
		alerts = append(alerts, bins)
		return nil
	}

	// Below capacity: nothing fires.
	setStock(t, db, product.ID, bin.ID, 90)
	require.NoError(t, n.Check())
	assert.Empty(t, alerts)

	// Crossing to FULL fires exactly once.
	setStock(t, db, product.ID, bin.ID, 100)
	require.NoError(t, n.Check())
	require.Len(t, alerts, 1)
	require.Len(t, alerts[0], 1)
	assert.Equal(t, "A1", alerts[0][0].Name)

	require.NoError(t, n.Check())
	assert.Len(t, alerts, 1)

	// Dropping below and crossing again re-arms the alert.
	setStock(t, db, product.ID, bin.ID, 60)
	require.NoError(t, n.Check())
	setStock(t, db, product.ID, bin.ID, 100)
	require.NoError(t, n.Check())
	assert.Len(t, alerts, 2)
}
