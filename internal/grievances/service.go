package grievances

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocknexus/stocknexus-backend/internal/authz"
	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
	pkgerrors "github.com/stocknexus/stocknexus-backend/pkg/errors"
	"github.com/stocknexus/stocknexus-backend/pkg/logger"
	"github.com/stocknexus/stocknexus-backend/pkg/pagination"
)

// CreateGrievanceRequest files a new complaint.
type CreateGrievanceRequest struct {
	Title          string                  `json:"title" validate:"required"`
	Description    string                  `json:"description" validate:"required"`
	Priority       enums.GrievancePriority `json:"priority,omitempty"`
	AttachmentPath *string                 `json:"attachment_path,omitempty"`
}

// ReviewGrievanceRequest moves a complaint through its lifecycle. Admin only.
type ReviewGrievanceRequest struct {
	Status          enums.GrievanceStatus `json:"status" validate:"required"`
	ResolutionNotes *string               `json:"resolution_notes,omitempty"`
}

// ListParams configures grievance listing.
type ListParams struct {
	Status *enums.GrievanceStatus
	Limit  int
	Cursor string
}

// ListResult wraps returned grievances and the cursor for the next page.
type ListResult struct {
	Items  []models.Grievance `json:"items"`
	Cursor string             `json:"cursor"`
}

// Service manages the grievance lifecycle. Non-admins only ever see their own
// rows.
type Service interface {
	Create(ctx context.Context, actor authz.Actor, req CreateGrievanceRequest) (*models.Grievance, error)
	Get(ctx context.Context, actor authz.Actor, id uuid.UUID) (*models.Grievance, error)
	Review(ctx context.Context, actor authz.Actor, id uuid.UUID, req ReviewGrievanceRequest) (*models.Grievance, error)
	List(ctx context.Context, actor authz.Actor, params ListParams) (*ListResult, error)
}

// ServiceParams packages grievance dependencies.
type ServiceParams struct {
	Repo   Repository
	Logger *logger.Logger
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService wires grievance dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "grievance repository required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

func (s *service) Create(ctx context.Context, actor authz.Actor, req CreateGrievanceRequest) (*models.Grievance, error) {
	if !authz.CanCreateGrievance(actor) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	priority := req.Priority
	if priority == "" {
		priority = enums.GrievancePriorityMedium
	}
	if !priority.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown priority")
	}

	grievance := &models.Grievance{
		ID:             uuid.New(),
		Title:          req.Title,
		Description:    req.Description,
		Status:         enums.GrievanceStatusPending,
		Priority:       priority,
		AttachmentPath: req.AttachmentPath,
		CreatedBy:      actor.UserID,
	}
	if err := s.repo.Create(ctx, grievance); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create grievance")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"grievance_id": grievance.ID, "priority": grievance.Priority,
	}), "grievance filed")
	return grievance, nil
}

// Get returns one grievance. Rows owned by other users read as missing unless
// the caller is an admin.
func (s *service) Get(ctx context.Context, actor authz.Actor, id uuid.UUID) (*models.Grievance, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "grievance id required")
	}
	grievance, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "grievance not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load grievance")
	}
	if !authz.CanReadGrievance(actor, grievance.CreatedBy) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "grievance not found")
	}
	return grievance, nil
}

func (s *service) Review(ctx context.Context, actor authz.Actor, id uuid.UUID, req ReviewGrievanceRequest) (*models.Grievance, error) {
	if !authz.CanUpdateGrievance(actor) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "grievance id required")
	}
	if !req.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown status")
	}

	grievance, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "grievance not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load grievance")
	}

	grievance.Status = req.Status
	if req.ResolutionNotes != nil {
		grievance.ResolutionNotes = req.ResolutionNotes
	}
	// Terminal states record who closed the complaint.
	if req.Status == enums.GrievanceStatusResolved || req.Status == enums.GrievanceStatusRejected {
		reviewer := actor.UserID
		grievance.ResolvedBy = &reviewer
	}

	if err := s.repo.Update(ctx, grievance); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update grievance")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"grievance_id": grievance.ID, "status": grievance.Status,
	}), "grievance reviewed")
	return grievance, nil
}

func (s *service) List(ctx context.Context, actor authz.Actor, params ListParams) (*ListResult, error) {
	if !actor.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if params.Status != nil && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown status")
	}

	query := listGrievanceParams{Limit: params.Limit}
	if params.Status != nil {
		status := params.Status.String()
		query.Status = &status
	}
	// Non-admins see their own complaints only.
	if !actor.IsAdmin() {
		owner := actor.UserID
		query.CreatedBy = &owner
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list grievances")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}
