package repositories

import (
	"errors"

	"printrove-wms/apperr"
	"printrove-wms/config"
	"printrove-wms/models"

	"gorm.io/gorm"
)

// BinRepository owns bin identity, category and capacity, and derives
// utilization from the stock ledger.
type BinRepository struct {
	db *gorm.DB
}

func NewBinRepository(db *gorm.DB) *BinRepository {
	return &BinRepository{db: db}
}

func warningThreshold() float64 {
	if config.BinWarningThreshold > 0 {
		return config.BinWarningThreshold
	}
	return 80
}

type BinInput struct {
	Name      string `json:"name" validate:"required"`
	Category  string `json:"category" validate:"required"`
	Capacity  int    `json:"capacity"`
	Unbounded bool   `json:"unbounded"`
}

func (r *BinRepository) Create(input BinInput, createdBy string) (*models.Bin, error) {
	if input.Name == "" {
		return nil, apperr.Validation("bin name is required")
	}
	if !models.ValidBinCategory(input.Category) {
		return nil, apperr.Validation("invalid bin category %q, must be %s or %s",
			input.Category, models.BinCategoryBlanks, models.BinCategoryPrinted)
	}
	// Capacity 0 is never a silent "unlimited": unbounded must be explicit.
	if !input.Unbounded && input.Capacity < 1 {
		return nil, apperr.Validation("capacity must be at least 1 unless the bin is marked unbounded")
	}

	var existing models.Bin
	if err := r.db.Where("name = ?", input.Name).First(&existing).Error; err == nil {
		return nil, apperr.Conflict("bin named %q already exists", input.Name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	bin := models.Bin{
		Name:      input.Name,
		Category:  input.Category,
		Capacity:  input.Capacity,
		Unbounded: input.Unbounded,
		CreatedBy: createdBy,
		UpdatedBy: createdBy,
	}

	if err := r.db.Create(&bin).Error; err != nil {
		return nil, err
	}
	return &bin, nil
}

func (r *BinRepository) Update(id uint, input BinInput, updatedBy string) (*models.Bin, error) {
	var bin models.Bin
	if err := r.db.First(&bin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("bin", id)
		}
		return nil, err
	}

	if input.Category != "" && input.Category != bin.Category {
		if !models.ValidBinCategory(input.Category) {
			return nil, apperr.Validation("invalid bin category %q", input.Category)
		}
		qty, err := binQuantity(r.db, bin.ID)
		if err != nil {
			return nil, err
		}
		// Category is immutable once products live in the bin.
		if qty > 0 {
			return nil, apperr.Conflict("cannot change category of bin %s while it holds %d units", bin.Name, qty)
		}
		bin.Category = input.Category
	}

	if input.Name != "" && input.Name != bin.Name {
		var existing models.Bin
		if err := r.db.Where("name = ? AND id <> ?", input.Name, id).First(&existing).Error; err == nil {
			return nil, apperr.Conflict("bin named %q already exists", input.Name)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		bin.Name = input.Name
	}

	if input.Capacity > 0 {
		bin.Capacity = input.Capacity
		bin.Unbounded = false
	}
	if input.Unbounded {
		bin.Unbounded = true
	}

	bin.UpdatedBy = updatedBy
	if err := r.db.Save(&bin).Error; err != nil {
		return nil, err
	}
	return &bin, nil
}

func (r *BinRepository) Delete(id uint) error {
	var bin models.Bin
	if err := r.db.First(&bin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("bin", id)
		}
		return err
	}

	qty, err := binQuantity(r.db, bin.ID)
	if err != nil {
		return err
	}
	if qty > 0 {
		return apperr.Conflict("cannot delete bin %s: it still holds %d units", bin.Name, qty)
	}

	return r.db.Delete(&bin).Error
}

func (r *BinRepository) Get(id uint) (*models.Bin, error) {
	var bin models.Bin
	if err := r.db.First(&bin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("bin", id)
		}
		return nil, err
	}
	return &bin, nil
}

func (r *BinRepository) List() ([]models.Bin, error) {
	var bins []models.Bin
	if err := r.db.Order("name").Find(&bins).Error; err != nil {
		return nil, err
	}
	return bins, nil
}

// GetUtilization computes utilization fresh from the stock ledger.
func (r *BinRepository) GetUtilization(id uint) (*models.BinUtilization, error) {
	bin, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	qty, err := binQuantity(r.db, bin.ID)
	if err != nil {
		return nil, err
	}

	util := ComputeUtilization(bin, qty)
	return &util, nil
}

func (r *BinRepository) ListUtilization() ([]models.BinUtilization, error) {
	bins, err := r.List()
	if err != nil {
		return nil, err
	}

	type binSum struct {
		BinID uint
		Total int
	}
	var sums []binSum
	err = r.db.Model(&models.StockEntry{}).
		Select("bin_id, COALESCE(SUM(quantity), 0) AS total").
		Group("bin_id").
		Scan(&sums).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[uint]int, len(sums))
	for _, s := range sums {
		totals[s.BinID] = s.Total
	}

	utilizations := make([]models.BinUtilization, 0, len(bins))
	for i := range bins {
		utilizations = append(utilizations, ComputeUtilization(&bins[i], totals[bins[i].ID]))
	}
	return utilizations, nil
}

// ComputeUtilization derives the utilization snapshot for a bin. Unbounded
// bins never leave AVAILABLE.
func ComputeUtilization(bin *models.Bin, currentQty int) models.BinUtilization {
	util := models.BinUtilization{
		BinID:           bin.ID,
		Name:            bin.Name,
		Category:        bin.Category,
		Capacity:        bin.Capacity,
		Unbounded:       bin.Unbounded,
		CurrentQuantity: currentQty,
		Status:          models.BinStatusAvailable,
	}

	if bin.Unbounded || bin.Capacity <= 0 {
		return util
	}

	util.AvailableSpace = bin.Capacity - currentQty
	if util.AvailableSpace < 0 {
		util.AvailableSpace = 0
	}
	util.UtilizationPercent = float64(currentQty) / float64(bin.Capacity) * 100

	switch {
	case util.UtilizationPercent >= 100:
		util.Status = models.BinStatusFull
	case util.UtilizationPercent >= warningThreshold():
		util.Status = models.BinStatusWarning
	}

	return util
}
