package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocknexus/stocknexus-backend/internal/authz"
	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
	pkgerrors "github.com/stocknexus/stocknexus-backend/pkg/errors"
	"github.com/stocknexus/stocknexus-backend/pkg/logger"
	"github.com/stocknexus/stocknexus-backend/pkg/pagination"
)

// Service defines inventory CRUD plus bulk import. Every write runs the alert
// reconciler inside the same transaction.
type Service interface {
	Create(ctx context.Context, actor authz.Actor, req CreateItemRequest) (*models.InventoryItem, error)
	Get(ctx context.Context, actor authz.Actor, id uuid.UUID) (*models.InventoryItem, error)
	Update(ctx context.Context, actor authz.Actor, id uuid.UUID, req UpdateItemRequest) (*models.InventoryItem, error)
	Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error
	List(ctx context.Context, actor authz.Actor, params ListParams) (*ListResult, error)
	ImportXLSX(ctx context.Context, actor authz.Actor, req ImportRequest) (*ImportResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type stockReconciler interface {
	Reconcile(ctx context.Context, tx *gorm.DB, itemID *uuid.UUID, name string, department enums.Department) error
}

// ServiceParams packages inventory dependencies.
type ServiceParams struct {
	DB         txRunner
	Repo       Repository
	Reconciler stockReconciler
	Logger     *logger.Logger
	MaxImport  int
}

type service struct {
	db         txRunner
	repo       Repository
	reconciler stockReconciler
	logg       *logger.Logger
	maxImport  int
}

// NewService wires inventory dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database client required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "inventory repository required")
	}
	if params.Reconciler == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "alert reconciler required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	maxImport := params.MaxImport
	if maxImport <= 0 {
		maxImport = 1000
	}
	return &service{
		db:         params.DB,
		repo:       params.Repo,
		reconciler: params.Reconciler,
		logg:       params.Logger,
		maxImport:  maxImport,
	}, nil
}

func (s *service) Create(ctx context.Context, actor authz.Actor, req CreateItemRequest) (*models.InventoryItem, error) {
	if !req.Department.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown department")
	}
	if !authz.CanWriteInventory(actor, req.Department) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	if req.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	status := req.Status
	if status == "" {
		status = enums.ItemStatusActive
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown item status")
	}
	threshold := req.LowStockThreshold
	if threshold <= 0 {
		threshold = 5
	}

	item := &models.InventoryItem{
		ID:                uuid.New(),
		Name:              req.Name,
		Category:          req.Category,
		Model:             req.Model,
		SerialNumber:      req.SerialNumber,
		Quantity:          req.Quantity,
		LowStockThreshold: threshold,
		Department:        req.Department,
		Location:          req.Location,
		CabinNumber:       req.CabinNumber,
		Specifications:    specsFromMap(req.Specifications),
		Status:            status,
		CreatedBy:         actor.UserID,
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory item")
		}
		return s.reconciler.Reconcile(ctx, tx, &item.ID, item.Name, item.Department)
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"item_id": item.ID, "department": item.Department, "quantity": item.Quantity,
	}), "inventory item created")
	return item, nil
}

// Get returns a single item. Callers outside the item's department see
// NOT_FOUND rather than a denial.
func (s *service) Get(ctx context.Context, actor authz.Actor, id uuid.UUID) (*models.InventoryItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	item, err := s.repo.GetByID(ctx, id)
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

func (s *service) Update(ctx context.Context, actor authz.Actor, id uuid.UUID, req UpdateItemRequest) (*models.InventoryItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	if !authz.CanReadInventory(actor, item.Department) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	// Write access is checked against the existing row's department.
	if !authz.CanWriteInventory(actor, item.Department) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}

	oldName := item.Name
	applyUpdate(item, req)
	if item.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if !item.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown item status")
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory item")
		}
		// A rename moves stock between aggregates, so both sides reconcile.
		if oldName != item.Name {
			if err := s.reconciler.Reconcile(ctx, tx, nil, oldName, item.Department); err != nil {
				return err
			}
		}
		return s.reconciler.Reconcile(ctx, tx, &item.ID, item.Name, item.Department)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	if !authz.CanReadInventory(actor, item.Department) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	if !authz.CanWriteInventory(actor, item.Department) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete inventory item")
		}
		return s.reconciler.Reconcile(ctx, tx, nil, item.Name, item.Department)
	})
}

func (s *service) List(ctx context.Context, actor authz.Actor, params ListParams) (*ListResult, error) {
	if !actor.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	scope := params.Department
	if actor.Role != enums.RoleAdmin {
		dept := actor.Department
		if scope != nil && *scope != dept {
			// Other departments look empty, never forbidden.
			return &ListResult{Items: []models.InventoryItem{}}, nil
		}
		scope = &dept
	}
	if scope != nil && !scope.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown department")
	}

	query := listInventoryParams{
		Department: scope,
		Name:       params.Name,
		Category:   params.Category,
		Limit:      params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func applyUpdate(item *models.InventoryItem, req UpdateItemRequest) {
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Model != nil {
		item.Model = *req.Model
	}
	if req.SerialNumber != nil {
		item.SerialNumber = *req.SerialNumber
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.LowStockThreshold != nil {
		item.LowStockThreshold = *req.LowStockThreshold
	}
	if req.Location != nil {
		item.Location = *req.Location
	}
	if req.CabinNumber != nil {
		item.CabinNumber = *req.CabinNumber
	}
	if req.Specifications != nil {
		item.Specifications = specsFromMap(req.Specifications)
	}
	if req.Status != nil {
		item.Status = *req.Status
	}
}
