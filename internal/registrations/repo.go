package registrations

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
	"github.com/stocknexus/stocknexus-backend/pkg/pagination"
)

// Repository exposes persistence helpers for registration requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, request *models.RegistrationRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.RegistrationRequest, error)
	FindByEmail(ctx context.Context, email string) (*models.RegistrationRequest, error)
	Update(ctx context.Context, request *models.RegistrationRequest) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	List(ctx context.Context, params listRegistrationParams) ([]models.RegistrationRequest, *pagination.Cursor, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a registration repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listRegistrationParams struct {
	Status *enums.RegistrationStatus
	Limit  int
	Cursor *pagination.Cursor
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, request *models.RegistrationRequest) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	request.Email = strings.ToLower(strings.TrimSpace(request.Email))
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.RegistrationRequest, error) {
	var request models.RegistrationRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repositoryImpl) FindByEmail(ctx context.Context, email string) (*models.RegistrationRequest, error) {
	var request models.RegistrationRequest
	err := r.db.WithContext(ctx).
		First(&request, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repositoryImpl) Update(ctx context.Context, request *models.RegistrationRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.RegistrationRequest{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) List(ctx context.Context, params listRegistrationParams) ([]models.RegistrationRequest, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.RegistrationRequest{})
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.RegistrationRequest
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
