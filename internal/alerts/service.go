package alerts

import (
	"context"

	"github.com/stocknexus/stocknexus-backend/internal/authz"
	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
	pkgerrors "github.com/stocknexus/stocknexus-backend/pkg/errors"
	"github.com/stocknexus/stocknexus-backend/pkg/pagination"
)

// Service defines the read-only alert surface. Alerts are created and
// resolved only by the reconciler, never through the API.
type Service interface {
	List(ctx context.Context, actor authz.Actor, params ListParams) (*ListResult, error)
}

type service struct {
	repo Repository
}

// ListParams configures alert listing.
type ListParams struct {
	Department     *enums.Department
	UnresolvedOnly bool
	Limit          int
	Cursor         string
}

// ListResult wraps returned alerts and the cursor for the next page.
type ListResult struct {
	Items  []models.Alert `json:"items"`
	Cursor string         `json:"cursor"`
}

// NewService wires alert dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "alerts repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, actor authz.Actor, params ListParams) (*ListResult, error) {
	if !actor.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	scope := params.Department
	switch actor.Role {
	case enums.RoleAdmin:
		// admins may filter by any department or none
	case enums.RoleHOD:
		dept := actor.Department
		if scope != nil && *scope != dept {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
		}
		scope = &dept
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	if scope != nil && !scope.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown department")
	}

	query := listAlertsParams{
		Department:     scope,
		UnresolvedOnly: params.UnresolvedOnly,
		Limit:          params.Limit,
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list alerts")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}
