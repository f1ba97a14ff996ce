package grievances

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/pagination"
)

// Repository exposes persistence helpers for grievances.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, grievance *models.Grievance) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Grievance, error)
	Update(ctx context.Context, grievance *models.Grievance) error
	List(ctx context.Context, params listGrievanceParams) ([]models.Grievance, *pagination.Cursor, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a grievance repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listGrievanceParams struct {
	CreatedBy *uuid.UUID
	Status    *string
	Limit     int
	Cursor    *pagination.Cursor
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, grievance *models.Grievance) error {
	if grievance.ID == uuid.Nil {
		grievance.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(grievance).Error
}

func (r *repositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Grievance, error) {
	var grievance models.Grievance
	if err := r.db.WithContext(ctx).First(&grievance, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &grievance, nil
}

func (r *repositoryImpl) Update(ctx context.Context, grievance *models.Grievance) error {
	return r.db.WithContext(ctx).Save(grievance).Error
}

func (r *repositoryImpl) List(ctx context.Context, params listGrievanceParams) ([]models.Grievance, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Grievance{})
	if params.CreatedBy != nil {
		query = query.Where("created_by = ?", *params.CreatedBy)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.Grievance
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	rows, more := pagination.TrimPage(rows, normalized)
	if more {
		last := rows[len(rows)-1]
		return rows, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return rows, nil, nil
}
