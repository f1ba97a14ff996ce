package maintenance

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
	"github.com/stocknexus/stocknexus-backend/pkg/pagination"
)

// Repository exposes persistence helpers for service records. Records carry no
// department of their own; scoping joins through the owning inventory row.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.ServiceRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceRecord, error)
	Update(ctx context.Context, record *models.ServiceRecord) error
	List(ctx context.Context, params listServiceParams) ([]models.ServiceRecord, *pagination.Cursor, error)
	ListByDepartment(ctx context.Context, department enums.Department) ([]models.ServiceRecord, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a service record repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listServiceParams struct {
	ItemID     *uuid.UUID
	Department *enums.Department
	Status     *enums.ServiceStatus
	Limit      int
	Cursor     *pagination.Cursor
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, record *models.ServiceRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceRecord, error) {
	var record models.ServiceRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repositoryImpl) Update(ctx context.Context, record *models.ServiceRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *repositoryImpl) List(ctx context.Context, params listServiceParams) ([]models.ServiceRecord, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.ServiceRecord{})
	if params.ItemID != nil {
		query = query.Where("service_records.item_id = ?", *params.ItemID)
	}
	if params.Department != nil {
		query = query.
			Joins("JOIN inventory_items ON inventory_items.id = service_records.item_id").
			Where("inventory_items.department = ?", *params.Department)
	}
	if params.Status != nil {
		query = query.Where("service_records.status = ?", *params.Status)
	}
	if params.Cursor != nil {
		query = query.Where("(service_records.created_at, service_records.id) < (?, ?)",
			params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var records []models.ServiceRecord
	err := query.Order("service_records.created_at DESC, service_records.id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, nil, err
	}

	records, more := pagination.TrimPage(records, normalized)
	if more {
		last := records[len(records)-1]
		return records, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return records, nil, nil
}

func (r *repositoryImpl) ListByDepartment(ctx context.Context, department enums.Department) ([]models.ServiceRecord, error) {
	var records []models.ServiceRecord
	err := r.db.WithContext(ctx).
		Joins("JOIN inventory_items ON inventory_items.id = service_records.item_id").
		Where("inventory_items.department = ?", department).
		Order("service_records.created_at DESC").
		Find(&records).Error
	return records, err
}
