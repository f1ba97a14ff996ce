package alerts

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
	"github.com/stocknexus/stocknexus-backend/pkg/pagination"
)

// Repository exposes persistence helpers for alerts and the aggregate stock
// read the reconciler depends on.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	SumQuantity(ctx context.Context, name string, department enums.Department) (int, error)
	HasUnresolved(ctx context.Context, name string, department enums.Department) (bool, error)
	Create(ctx context.Context, alert *models.Alert) error
	ResolveUnresolved(ctx context.Context, name string, department enums.Department, now time.Time) (int64, error)
	List(ctx context.Context, params listAlertsParams) ([]models.Alert, *pagination.Cursor, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an alerts repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listAlertsParams struct {
	Department     *enums.Department
	UnresolvedOnly bool
	Limit          int
	Cursor         *pagination.Cursor
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

// SumQuantity recomputes the aggregate stock level from source rows. No rows
// means zero.
func (r *repositoryImpl) SumQuantity(ctx context.Context, name string, department enums.Department) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("name = ? AND department = ?", name, department).
		Scan(&total).Error
	return total, err
}

func (r *repositoryImpl) HasUnresolved(ctx context.Context, name string, department enums.Department) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("item_name = ? AND department = ? AND is_resolved = ?", name, department, false).
		Count(&count).Error
	return count > 0, err
}

func (r *repositoryImpl) Create(ctx context.Context, alert *models.Alert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *repositoryImpl) ResolveUnresolved(ctx context.Context, name string, department enums.Department, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("item_name = ? AND department = ? AND is_resolved = ?", name, department, false).
		Updates(map[string]any{"is_resolved": true, "resolved_at": now})
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) List(ctx context.Context, params listAlertsParams) ([]models.Alert, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Alert{})
	if params.Department != nil {
		query = query.Where("department = ?", *params.Department)
	}
	if params.UnresolvedOnly {
		query = query.Where("is_resolved = ?", false)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var alerts []models.Alert
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&alerts).Error; err != nil {
		return nil, nil, err
	}

	alerts, more := pagination.TrimPage(alerts, normalized)
	if more {
		last := alerts[len(alerts)-1]
		return alerts, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return alerts, nil, nil
}
