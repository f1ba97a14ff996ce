package scrap

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocknexus/stocknexus-backend/internal/authz"
	"github.com/stocknexus/stocknexus-backend/internal/inventory"
	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
	pkgerrors "github.com/stocknexus/stocknexus-backend/pkg/errors"
	"github.com/stocknexus/stocknexus-backend/pkg/logger"
	"github.com/stocknexus/stocknexus-backend/pkg/pagination"
)

// ScrapRequest disposes part or all of one inventory row.
type ScrapRequest struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,gt=0"`
	Reason   string    `json:"reason" validate:"required"`
	Notes    string    `json:"notes,omitempty"`
}

// ListParams configures scrap history listing.
type ListParams struct {
	Department *enums.Department
	Limit      int
	Cursor     string
}

// ListResult wraps returned snapshots and the cursor for the next page.
type ListResult struct {
	Items  []models.ScrapItem `json:"items"`
	Cursor string             `json:"cursor"`
}

// Service records scrap disposals and serves the scrap history.
type Service interface {
	Scrap(ctx context.Context, actor authz.Actor, req ScrapRequest) (*models.ScrapItem, error)
	List(ctx context.Context, actor authz.Actor, params ListParams) (*ListResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type stockReconciler interface {
	Reconcile(ctx context.Context, tx *gorm.DB, itemID *uuid.UUID, name string, department enums.Department) error
}

// ServiceParams packages scrap dependencies.
type ServiceParams struct {
	DB         txRunner
	Repo       Repository
	Inventory  inventory.Repository
	Reconciler stockReconciler
	Logger     *logger.Logger
}

type service struct {
	db         txRunner
	repo       Repository
	inventory  inventory.Repository
	reconciler stockReconciler
	logg       *logger.Logger
}

// NewService wires scrap dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database client required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "scrap repository required")
	}
	if params.Inventory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "inventory repository required")
	}
	if params.Reconciler == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "alert reconciler required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		db:         params.DB,
		repo:       params.Repo,
		inventory:  params.Inventory,
		reconciler: params.Reconciler,
		logg:       params.Logger,
	}, nil
}

func (s *service) Scrap(ctx context.Context, actor authz.Actor, req ScrapRequest) (*models.ScrapItem, error) {
	if req.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	}

	item, err := s.inventory.GetByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	if !authz.CanReadInventory(actor, item.Department) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	if !authz.CanWriteScrap(actor, item.Department) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	if req.Quantity > item.Quantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds available stock")
	}

	snapshot := &models.ScrapItem{
		ID:           uuid.New(),
		ItemName:     item.Name,
		Model:        item.Model,
		SerialNumber: item.SerialNumber,
		Department:   item.Department,
		Quantity:     req.Quantity,
		Reason:       req.Reason,
		Notes:        req.Notes,
		ScrappedBy:   actor.UserID,
	}

	remaining := item.Quantity - req.Quantity
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, snapshot); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create scrap snapshot")
		}
		invRepo := s.inventory.WithTx(tx)
		if remaining == 0 {
			// A fully scrapped row is removed rather than left at zero.
			if _, err := invRepo.Delete(ctx, item.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete scrapped item")
			}
			return s.reconciler.Reconcile(ctx, tx, nil, item.Name, item.Department)
		}
		item.Quantity = remaining
		if err := invRepo.Update(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement scrapped item")
		}
		return s.reconciler.Reconcile(ctx, tx, &item.ID, item.Name, item.Department)
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"item_id": item.ID, "department": item.Department,
		"scrapped": req.Quantity, "remaining": remaining,
	}), "inventory item scrapped")
	return snapshot, nil
}

func (s *service) List(ctx context.Context, actor authz.Actor, params ListParams) (*ListResult, error) {
	if !actor.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	scope := params.Department
	if actor.Role != enums.RoleAdmin {
		dept := actor.Department
		if scope != nil && *scope != dept {
			return &ListResult{Items: []models.ScrapItem{}}, nil
		}
		scope = &dept
	}
	if scope != nil && !scope.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown department")
	}

	query := listScrapParams{Department: scope, Limit: params.Limit}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list scrap history")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}
