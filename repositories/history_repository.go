package repositories

import (
	"time"

	"printrove-wms/models"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// HistoryRepository reads the append-only location history. Writing happens
// only through the stock ledger.
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

type HistoryFilter struct {
	Action        string
	ReferenceType string
	StartDate     *time.Time
	EndDate       *time.Time
	Page          int
	Limit         int
}

type HistorySummary struct {
	TotalMovements  int64  `json:"totalMovements"`
	BinsTouched     []uint `json:"binsTouched"`
	DistinctBins    int    `json:"distinctBins"`
	TotalQuantityIn int    `json:"totalQuantityIn"`
}

// Query returns one page of a product's movements, newest first, plus the
// filter-scoped total and summary.
func (r *HistoryRepository) Query(productID uint, filter HistoryFilter) ([]models.LocationHistory, int64, *HistorySummary, error) {
	if err := ensureProductExists(r.db, productID); err != nil {
		return nil, 0, nil, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	scoped := func() *gorm.DB {
		q := r.db.Model(&models.LocationHistory{}).Where("product_id = ?", productID)
		if filter.Action != "" {
			q = q.Where("action = ?", filter.Action)
		}
		if filter.ReferenceType != "" {
			q = q.Where("reference_type = ?", filter.ReferenceType)
		}
		if filter.StartDate != nil {
			q = q.Where("performed_at >= ?", *filter.StartDate)
		}
		if filter.EndDate != nil {
			q = q.Where("performed_at <= ?", *filter.EndDate)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, nil, err
	}

	var entries []models.LocationHistory
	err := scoped().Order("performed_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, nil, err
	}

	// Summary aggregates stay in the database; a busy product's history is
	// unbounded.
	summary := &HistorySummary{TotalMovements: total}

	var bins []uint
	if err := scoped().Distinct().Pluck("bin_id", &bins).Error; err != nil {
		return nil, 0, nil, err
	}
	slices.Sort(bins)
	summary.BinsTouched = bins
	summary.DistinctBins = len(bins)

	err = scoped().
		Where("action IN ?", models.InboundActions).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&summary.TotalQuantityIn).Error
	if err != nil {
		return nil, 0, nil, err
	}

	return entries, total, summary, nil
}
