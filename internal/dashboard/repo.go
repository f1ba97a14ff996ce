package dashboard

import (
	"context"

	"gorm.io/gorm"

	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
)

// stockCounts aggregates the inventory rows of one department.
type stockCounts struct {
	ItemCount     int64
	TotalQuantity int64
	LowStock      int64
	OutOfStock    int64
}

// Repository serves the read-only aggregates behind the dashboard.
type Repository interface {
	StockCounts(ctx context.Context, department enums.Department) (*stockCounts, error)
	UnresolvedAlertCount(ctx context.Context, department enums.Department) (int64, error)
	RecentScrap(ctx context.Context, department enums.Department, limit int) ([]models.ScrapItem, error)
	RecentService(ctx context.Context, department enums.Department, limit int) ([]models.ServiceRecord, error)
	GrievanceCountsByStatus(ctx context.Context) (map[enums.GrievanceStatus]int64, error)
	PendingRegistrationCount(ctx context.Context) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a dashboard repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) StockCounts(ctx context.Context, department enums.Department) (*stockCounts, error) {
	// Low stock here uses the per-item threshold, unlike alerting which works
	// on the fixed aggregate band.
	var counts stockCounts
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Select(`COUNT(*) AS item_count,
COALESCE(SUM(quantity), 0) AS total_quantity,
COALESCE(SUM(CASE WHEN quantity > 0 AND quantity <= low_stock_threshold THEN 1 ELSE 0 END), 0) AS low_stock,
COALESCE(SUM(CASE WHEN quantity = 0 THEN 1 ELSE 0 END), 0) AS out_of_stock`).
		Where("department = ?", department).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return &counts, nil
}

func (r *repositoryImpl) UnresolvedAlertCount(ctx context.Context, department enums.Department) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("department = ? AND is_resolved = ?", department, false).
		Count(&count).Error
	return count, err
}

func (r *repositoryImpl) RecentScrap(ctx context.Context, department enums.Department, limit int) ([]models.ScrapItem, error) {
	var rows []models.ScrapItem
	err := r.db.WithContext(ctx).
		Where("department = ?", department).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repositoryImpl) RecentService(ctx context.Context, department enums.Department, limit int) ([]models.ServiceRecord, error) {
	var rows []models.ServiceRecord
	err := r.db.WithContext(ctx).
		Joins("JOIN inventory_items ON inventory_items.id = service_records.item_id").
		Where("inventory_items.department = ?", department).
		Order("service_records.created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repositoryImpl) GrievanceCountsByStatus(ctx context.Context) (map[enums.GrievanceStatus]int64, error) {
	var rows []struct {
		Status enums.GrievanceStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Grievance{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[enums.GrievanceStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *repositoryImpl) PendingRegistrationCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RegistrationRequest{}).
		Where("status = ?", enums.RegistrationStatusPending).
		Count(&count).Error
	return count, err
}
