package scrap

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
	"github.com/stocknexus/stocknexus-backend/pkg/pagination"
)

// Repository exposes persistence helpers for scrap snapshots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.ScrapItem) error
	List(ctx context.Context, params listScrapParams) ([]models.ScrapItem, *pagination.Cursor, error)
	ListByDepartment(ctx context.Context, department enums.Department) ([]models.ScrapItem, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a scrap repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listScrapParams struct {
	Department *enums.Department
	Limit      int
	Cursor     *pagination.Cursor
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, item *models.ScrapItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repositoryImpl) List(ctx context.Context, params listScrapParams) ([]models.ScrapItem, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.ScrapItem{})
	if params.Department != nil {
		query = query.Where("department = ?", *params.Department)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var items []models.ScrapItem
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&items).Error; err != nil {
		return nil, nil, err
	}

	items, more := pagination.TrimPage(items, normalized)
	if more {
		last := items[len(items)-1]
		return items, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return items, nil, nil
}

func (r *repositoryImpl) ListByDepartment(ctx context.Context, department enums.Department) ([]models.ScrapItem, error) {
	var items []models.ScrapItem
	err := r.db.WithContext(ctx).
		Where("department = ?", department).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}
