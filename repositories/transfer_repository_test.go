package repositories

import (
	"testing"

	"printrove-wms/apperr"
	"printrove-wms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferValidation(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransferRepository(db)

	product := createProduct(t, db, "TSHIRT-M")
	binA := createBin(t, db, "A1", models.BinCategoryBlanks, 100)
	binB := createBin(t, db, "A2", models.BinCategoryBlanks, 100)

	tests := []struct {
		name  string
		input TransferInput
	}{
		{"zero quantity", TransferInput{ProductID: product.ID, FromBinID: binA.ID, ToBinID: binB.ID, Quantity: 0, Reason: "move"}},
		{"same bin", TransferInput{ProductID: product.ID, FromBinID: binA.ID, ToBinID: binA.ID, Quantity: 5, Reason: "move"}},
		{"empty reason", TransferInput{ProductID: product.ID, FromBinID: binA.ID, ToBinID: binB.ID, Quantity: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Transfer(tt.input)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.CodeValidation))
		})
	}
}

func TestTransferInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransferRepository(db)

	product := createProduct(t, db, "TSHIRT-M")
	binA := createBin(t, db, "A1", models.BinCategoryBlanks, 100)
	binB := createBin(t, db, "A2", models.BinCategoryBlanks, 100)
	putaway(t, db, product.ID, binA.ID, 7)

	err := repo.Transfer(TransferInput{
		ProductID: product.ID, FromBinID: binA.ID, ToBinID: binB.ID,
		Quantity: 10, Reason: "rebalance", TransferredBy: "alice",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInsufficientStock))
	assert.Contains(t, err.Error(), "only 7 units available")

	assert.Equal(t, 7, stockQty(t, db, product.ID, binA.ID))
	assert.Equal(t, 0, stockQty(t, db, product.ID, binB.ID))
}

func TestTransferCapacityExceeded(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransferRepository(db)

	product := createProduct(t, db, "TSHIRT-M")
	binA := createBin(t, db, "A1", models.BinCategoryBlanks, 100)
	binB := createBin(t, db, "B1", models.BinCategoryBlanks, 200)
	putaway(t, db, product.ID, binA.ID, 90)
	putaway(t, db, product.ID, binB.ID, 50)

	// Pre-flight agrees: 90 + 15 > 100.
	preview, err := repo.ValidateCapacity(binA.ID, 15)
	require.NoError(t, err)
	assert.False(t, preview.CanAccommodate)
	assert.Contains(t, preview.Message, "exceed capacity")

	err = repo.Transfer(TransferInput{
		ProductID: product.ID, FromBinID: binB.ID, ToBinID: binA.ID,
		Quantity: 15, Reason: "consolidate", TransferredBy: "alice",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeCapacityExceeded))
	assert.Contains(t, err.Error(), "105%")

	// Stock at both bins unchanged; no history appended for the failed move.
	assert.Equal(t, 90, stockQty(t, db, product.ID, binA.ID))
	assert.Equal(t, 50, stockQty(t, db, product.ID, binB.ID))
	var transferRows int64
	require.NoError(t, db.Model(&models.LocationHistory{}).
		Where("reference_type = ?", models.RefTypeTransfer).Count(&transferRows).Error)
	assert.Equal(t, int64(0), transferRows)
}

func TestTransferCapacityAcrossProducts(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransferRepository(db)

	shirts := createProduct(t, db, "TSHIRT-M")
	mugs := createProduct(t, db, "MUG-11OZ")
	src := createBin(t, db, "A1", models.BinCategoryBlanks, 200)
	dst := createBin(t, db, "B1", models.BinCategoryBlanks, 100)

	putaway(t, db, shirts.ID, dst.ID, 90)
	putaway(t, db, mugs.ID, src.ID, 50)

	// Destination holds 90 of another product; a second product cannot
	// push the bin past capacity.
	err := repo.Transfer(TransferInput{
		ProductID: mugs.ID, FromBinID: src.ID, ToBinID: dst.ID,
		Quantity: 15, Reason: "consolidate", TransferredBy: "alice",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeCapacityExceeded))
	assert.Equal(t, 50, stockQty(t, db, mugs.ID, src.ID))
	assert.Equal(t, 0, stockQty(t, db, mugs.ID, dst.ID))

	require.NoError(t, repo.Transfer(TransferInput{
		ProductID: mugs.ID, FromBinID: src.ID, ToBinID: dst.ID,
		Quantity: 10, Reason: "consolidate", TransferredBy: "alice",
	}))
	assert.Equal(t, 10, stockQty(t, db, mugs.ID, dst.ID))
}

func TestTransferRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransferRepository(db)

	product := createProduct(t, db, "TSHIRT-M")
	binA := createBin(t, db, "A1", models.BinCategoryBlanks, 100)
	binB := createBin(t, db, "A2", models.BinCategoryBlanks, 100)
	putaway(t, db, product.ID, binA.ID, 60)
	putaway(t, db, product.ID, binB.ID, 20)

	require.NoError(t, repo.Transfer(TransferInput{
		ProductID: product.ID, FromBinID: binA.ID, ToBinID: binB.ID,
		Quantity: 25, Reason: "rebalance", TransferredBy: "alice",
	}))
	assert.Equal(t, 35, stockQty(t, db, product.ID, binA.ID))
	assert.Equal(t, 45, stockQty(t, db, product.ID, binB.ID))

	require.NoError(t, repo.Transfer(TransferInput{
		ProductID: product.ID, FromBinID: binB.ID, ToBinID: binA.ID,
		Quantity: 25, Reason: "undo rebalance", TransferredBy: "alice",
	}))

	// Round trip restores the original quantities.
	assert.Equal(t, 60, stockQty(t, db, product.ID, binA.ID))
	assert.Equal(t, 20, stockQty(t, db, product.ID, binB.ID))

	// Exactly 4 transfer history rows, two per move sharing a reference id.
	var rows []models.LocationHistory
	require.NoError(t, db.Where("reference_type = ?", models.RefTypeTransfer).
		Order("id").Find(&rows).Error)
	require.Len(t, rows, 4)
	assert.Equal(t, models.ActionTransferOut, rows[0].Action)
	assert.Equal(t, models.ActionTransferIn, rows[1].Action)
	assert.Equal(t, rows[0].ReferenceID, rows[1].ReferenceID)
	assert.Equal(t, rows[2].ReferenceID, rows[3].ReferenceID)
	assert.NotEqual(t, rows[0].ReferenceID, rows[2].ReferenceID)
}

func TestTransferConservation(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransferRepository(db)

	product := createProduct(t, db, "TSHIRT-M")
	binA := createBin(t, db, "A1", models.BinCategoryBlanks, 500)
	binB := createBin(t, db, "A2", models.BinCategoryBlanks, 500)
	binC := createBin(t, db, "A3", models.BinCategoryBlanks, 500)
	putaway(t, db, product.ID, binA.ID, 100)

	moves := []TransferInput{
		{ProductID: product.ID, FromBinID: binA.ID, ToBinID: binB.ID, Quantity: 40, Reason: "r1"},
		{ProductID: product.ID, FromBinID: binB.ID, ToBinID: binC.ID, Quantity: 15, Reason: "r2"},
		{ProductID: product.ID, FromBinID: binA.ID, ToBinID: binC.ID, Quantity: 60, Reason: "r3"},
		{ProductID: product.ID, FromBinID: binC.ID, ToBinID: binA.ID, Quantity: 5, Reason: "r4"},
	}
	for _, m := range moves {
		require.NoError(t, repo.Transfer(m))
	}

	// Transfers move stock but never create or destroy it.
	var total int
	require.NoError(t, db.Model(&models.StockEntry{}).
		Where("product_id = ?", product.ID).
		Select("COALESCE(SUM(quantity), 0)").Scan(&total).Error)
	assert.Equal(t, 100, total)
}

func TestTransferToUnboundedBin(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransferRepository(db)

	product := createProduct(t, db, "TSHIRT-M")
	binA := createBin(t, db, "A1", models.BinCategoryBlanks, 1000)
	overflow := createUnboundedBin(t, db, "OVERFLOW", models.BinCategoryBlanks)
	putaway(t, db, product.ID, binA.ID, 800)

	require.NoError(t, repo.Transfer(TransferInput{
		ProductID: product.ID, FromBinID: binA.ID, ToBinID: overflow.ID,
		Quantity: 800, Reason: "clear aisle", TransferredBy: "alice",
	}))
	assert.Equal(t, 800, stockQty(t, db, product.ID, overflow.ID))
}

func TestValidateCapacity(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransferRepository(db)

	product := createProduct(t, db, "TSHIRT-M")
	bin := createBin(t, db, "A1", models.BinCategoryBlanks, 100)
	putaway(t, db, product.ID, bin.ID, 70)

	preview, err := repo.ValidateCapacity(bin.ID, 20)
	require.NoError(t, err)
	assert.True(t, preview.CanAccommodate)
	assert.True(t, preview.IsWarning)
	assert.InDelta(t, 90.0, preview.Utilization, 0.01)

	preview, err = repo.ValidateCapacity(bin.ID, 30)
	require.NoError(t, err)
	assert.True(t, preview.CanAccommodate)
	assert.False(t, preview.IsWarning) // exactly 100% is full, not a warning
	assert.InDelta(t, 100.0, preview.Utilization, 0.01)

	preview, err = repo.ValidateCapacity(bin.ID, 31)
	require.NoError(t, err)
	assert.False(t, preview.CanAccommodate)

	_, err = repo.ValidateCapacity(999, 10)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, err = repo.ValidateCapacity(bin.ID, 0)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}
