package repositories

import (
	"testing"

	"printrove-wms/apperr"
	"printrove-wms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBinValidation(t *testing.T) {
	db := newTestDB(t)
	repo := NewBinRepository(db)

	tests := []struct {
		name  string
		input BinInput
	}{
		{"empty name", BinInput{Category: models.BinCategoryBlanks, Capacity: 100}},
		{"invalid category", BinInput{Name: "A1", Category: "Garments", Capacity: 100}},
		{"zero capacity without unbounded", BinInput{Name: "A1", Category: models.BinCategoryBlanks}},
		{"negative capacity", BinInput{Name: "A1", Category: models.BinCategoryBlanks, Capacity: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Create(tt.input, "tester")
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.CodeValidation), "expected validation error, got %v", err)
		})
	}
}

func TestCreateBin(t *testing.T) {
	db := newTestDB(t)
	repo := NewBinRepository(db)

	bin, err := repo.Create(BinInput{Name: "BLANKS-A1", Category: models.BinCategoryBlanks, Capacity: 100}, "tester")
	require.NoError(t, err)
	assert.Equal(t, "BLANKS-A1", bin.Name)
	assert.Equal(t, 100, bin.Capacity)
	assert.False(t, bin.Unbounded)

	// Unbounded bins do not need a capacity.
	unbounded, err := repo.Create(BinInput{Name: "OVERFLOW", Category: models.BinCategoryPrinted, Unbounded: true}, "tester")
	require.NoError(t, err)
	assert.True(t, unbounded.Unbounded)

	_, err = repo.Create(BinInput{Name: "BLANKS-A1", Category: models.BinCategoryBlanks, Capacity: 50}, "tester")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
}

func TestUpdateBinCategoryImmutableWithStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewBinRepository(db)

	product := createProduct(t, db, "TSHIRT-M")
	bin := createBin(t, db, "A1", models.BinCategoryBlanks, 100)

	// Empty bin: category change is allowed.
	updated, err := repo.Update(bin.ID, BinInput{Category: models.BinCategoryPrinted}, "tester")
	require.NoError(t, err)
	assert.Equal(t, models.BinCategoryPrinted, updated.Category)

	putaway(t, db, product.ID, bin.ID, 10)

	_, err = repo.Update(bin.ID, BinInput{Category: models.BinCategoryBlanks}, "tester")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
	assert.Contains(t, err.Error(), "10 units")
}

func TestUpdateBinNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewBinRepository(db)

	_, err := repo.Update(999, BinInput{Name: "X"}, "tester")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestDeleteBinWithStockRejected(t *testing.T) {
	db := newTestDB(t)
	repo := NewBinRepository(db)

	product := createProduct(t, db, "TSHIRT-M")
	bin := createBin(t, db, "A1", models.BinCategoryBlanks, 100)
	putaway(t, db, product.ID, bin.ID, 7)

	err := repo.Delete(bin.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
	assert.Contains(t, err.Error(), "7 units")

	// Bin remains in the registry.
	_, err = repo.Get(bin.ID)
	require.NoError(t, err)
}

func TestDeleteEmptyBin(t *testing.T) {
	db := newTestDB(t)
	repo := NewBinRepository(db)

	bin := createBin(t, db, "A1", models.BinCategoryBlanks, 100)
	require.NoError(t, repo.Delete(bin.ID))

	_, err := repo.Get(bin.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestDeleteBinAfterStockRemoved(t *testing.T) {
	db := newTestDB(t)
	repo := NewBinRepository(db)

	product := createProduct(t, db, "TSHIRT-M")
	bin := createBin(t, db, "A1", models.BinCategoryBlanks, 100)
	putaway(t, db, product.ID, bin.ID, 5)

	require.Error(t, repo.Delete(bin.ID))

	// A zero-quantity row is logically absent, so delete succeeds.
	stock := NewStockRepository(db)
	require.NoError(t, stock.Adjust(product.ID, bin.ID, -5, "correction", "tester"))
	require.NoError(t, repo.Delete(bin.ID))
}

func TestGetUtilization(t *testing.T) {
	db := newTestDB(t)
	repo := NewBinRepository(db)

	product := createProduct(t, db, "TSHIRT-M")
	bin := createBin(t, db, "A1", models.BinCategoryBlanks, 100)

	util, err := repo.GetUtilization(bin.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, util.CurrentQuantity)
	assert.Equal(t, 100, util.AvailableSpace)
	assert.Equal(t, models.BinStatusAvailable, util.Status)

	putaway(t, db, product.ID, bin.ID, 79)
	util, err = repo.GetUtilization(bin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BinStatusAvailable, util.Status)

	putaway(t, db, product.ID, bin.ID, 1)
	util, err = repo.GetUtilization(bin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BinStatusWarning, util.Status)
	assert.InDelta(t, 80.0, util.UtilizationPercent, 0.01)

	putaway(t, db, product.ID, bin.ID, 20)
	util, err = repo.GetUtilization(bin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BinStatusFull, util.Status)
	assert.Equal(t, 0, util.AvailableSpace)
}

func TestUtilizationUnboundedBin(t *testing.T) {
	db := newTestDB(t)
	repo := NewBinRepository(db)

	product := createProduct(t, db, "TSHIRT-M")
	bin := createUnboundedBin(t, db, "OVERFLOW", models.BinCategoryPrinted)
	putaway(t, db, product.ID, bin.ID, 100000)

	util, err := repo.GetUtilization(bin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BinStatusAvailable, util.Status)
	assert.Equal(t, float64(0), util.UtilizationPercent)
	assert.Equal(t, 100000, util.CurrentQuantity)
}

func TestListUtilization(t *testing.T) {
	db := newTestDB(t)
	repo := NewBinRepository(db)

	product := createProduct(t, db, "TSHIRT-M")
	binA := createBin(t, db, "A1", models.BinCategoryBlanks, 100)
	createBin(t, db, "A2", models.BinCategoryBlanks, 100)
	putaway(t, db, product.ID, binA.ID, 50)

	utils, err := repo.ListUtilization()
	require.NoError(t, err)
	require.Len(t, utils, 2)

	byName := map[string]int{}
	for _, u := range utils {
		byName[u.Name] = u.CurrentQuantity
	}
	assert.Equal(t, 50, byName["A1"])
	assert.Equal(t, 0, byName["A2"])
}
