package maintenance

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stocknexus/stocknexus-backend/internal/authz"
	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
	pkgerrors "github.com/stocknexus/stocknexus-backend/pkg/errors"
	"github.com/stocknexus/stocknexus-backend/pkg/logger"
	"github.com/stocknexus/stocknexus-backend/pkg/pagination"
)

// CreateRecordRequest logs service work against one inventory item.
type CreateRecordRequest struct {
	ItemID         uuid.UUID           `json:"item_id" validate:"required"`
	Type           enums.ServiceType   `json:"type" validate:"required"`
	Nature         enums.ServiceNature `json:"nature" validate:"required"`
	ServiceDate    time.Time           `json:"service_date" validate:"required"`
	Status         enums.ServiceStatus `json:"status,omitempty"`
	TechnicianName string              `json:"technician_name" validate:"required"`
	Cost           decimal.Decimal     `json:"cost"`
	Remarks        string              `json:"remarks,omitempty"`
}

// UpdateRecordRequest carries partial updates; nil fields are left untouched.
type UpdateRecordRequest struct {
	Status         *enums.ServiceStatus `json:"status,omitempty"`
	TechnicianName *string              `json:"technician_name,omitempty"`
	ServiceDate    *time.Time           `json:"service_date,omitempty"`
	Cost           *decimal.Decimal     `json:"cost,omitempty"`
	Remarks        *string              `json:"remarks,omitempty"`
	BillPath       *string              `json:"bill_path,omitempty"`
}

// ListParams configures service record listing.
type ListParams struct {
	ItemID     *uuid.UUID
	Department *enums.Department
	Status     *enums.ServiceStatus
	Limit      int
	Cursor     string
}

// ListResult wraps returned records and the cursor for the next page.
type ListResult struct {
	Items  []models.ServiceRecord `json:"items"`
	Cursor string                 `json:"cursor"`
}

// Service manages maintenance and repair history for inventory items.
type Service interface {
	Create(ctx context.Context, actor authz.Actor, req CreateRecordRequest) (*models.ServiceRecord, error)
	Get(ctx context.Context, actor authz.Actor, id uuid.UUID) (*models.ServiceRecord, error)
	Update(ctx context.Context, actor authz.Actor, id uuid.UUID, req UpdateRecordRequest) (*models.ServiceRecord, error)
	List(ctx context.Context, actor authz.Actor, params ListParams) (*ListResult, error)
}

// itemGetter is the slice of the inventory repository this service reads.
type itemGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
}

// ServiceParams packages maintenance dependencies.
type ServiceParams struct {
	Repo   Repository
	Items  itemGetter
	Logger *logger.Logger
}

type service struct {
	repo  Repository
	items itemGetter
	logg  *logger.Logger
}

// NewService wires maintenance dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "service record repository required")
	}
	if params.Items == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "inventory repository required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: params.Repo, items: params.Items, logg: params.Logger}, nil
}

func (s *service) Create(ctx context.Context, actor authz.Actor, req CreateRecordRequest) (*models.ServiceRecord, error) {
	if req.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if !req.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown service type")
	}
	if !req.Nature.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown service nature")
	}
	if req.ServiceDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service date required")
	}
	if strings.TrimSpace(req.TechnicianName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "technician name required")
	}
	if req.Cost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost must not be negative")
	}
	status := req.Status
	if status == "" {
		status = enums.ServiceStatusScheduled
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown service status")
	}

	item, err := s.loadItem(ctx, actor, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !authz.CanWriteService(actor, item.Department) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}

	record := &models.ServiceRecord{
		ID:             uuid.New(),
		ItemID:         item.ID,
		Type:           req.Type,
		Nature:         req.Nature,
		ServiceDate:    req.ServiceDate,
		Status:         status,
		TechnicianName: req.TechnicianName,
		Cost:           req.Cost,
		Remarks:        req.Remarks,
		CreatedBy:      actor.UserID,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create service record")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"record_id": record.ID, "item_id": item.ID, "nature": record.Nature,
	}), "service record created")
	return record, nil
}

func (s *service) Get(ctx context.Context, actor authz.Actor, id uuid.UUID) (*models.ServiceRecord, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "record id required")
	}
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service record")
	}
	if _, err := s.loadItem(ctx, actor, record.ItemID); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) Update(ctx context.Context, actor authz.Actor, id uuid.UUID, req UpdateRecordRequest) (*models.ServiceRecord, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "record id required")
	}
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service record")
	}

	item, err := s.loadItem(ctx, actor, record.ItemID)
	if err != nil {
		return nil, err
	}
	if !authz.CanWriteService(actor, item.Department) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}

	if req.Status != nil {
		record.Status = *req.Status
	}
	if req.TechnicianName != nil {
		record.TechnicianName = *req.TechnicianName
	}
	if req.ServiceDate != nil {
		record.ServiceDate = *req.ServiceDate
	}
	if req.Cost != nil {
		record.Cost = *req.Cost
	}
	if req.Remarks != nil {
		record.Remarks = *req.Remarks
	}
	if req.BillPath != nil {
		record.BillPath = req.BillPath
	}

	if !record.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown service status")
	}
	if record.Cost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost must not be negative")
	}
	if strings.TrimSpace(record.TechnicianName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "technician name required")
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update service record")
	}
	return record, nil
}

func (s *service) List(ctx context.Context, actor authz.Actor, params ListParams) (*ListResult, error) {
	if !actor.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	scope := params.Department
	if actor.Role != enums.RoleAdmin {
		dept := actor.Department
		if scope != nil && *scope != dept {
			return &ListResult{Items: []models.ServiceRecord{}}, nil
		}
		scope = &dept
	}
	if scope != nil && !scope.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown department")
	}
	if params.Status != nil && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown service status")
	}

	query := listServiceParams{
		ItemID:     params.ItemID,
		Department: scope,
		Status:     params.Status,
		Limit:      params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	records, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list service records")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: records, Cursor: cursor}, nil
}

// loadItem resolves the owning inventory row and applies read scoping. Missing
// and unreadable items are indistinguishable to the caller.
func (s *service) loadItem(ctx context.Context, actor authz.Actor, itemID uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	if !authz.CanReadInventory(actor, item.Department) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return item, nil
}
