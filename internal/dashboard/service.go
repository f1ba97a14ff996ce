package dashboard

import (
	"context"

	"github.com/stocknexus/stocknexus-backend/internal/authz"
	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
	pkgerrors "github.com/stocknexus/stocknexus-backend/pkg/errors"
	"github.com/stocknexus/stocknexus-backend/pkg/logger"
)

const recentActivityLimit = 5

// DepartmentSummary is the dashboard card for one department.
type DepartmentSummary struct {
	Department       enums.Department       `json:"department"`
	ItemCount        int64                  `json:"item_count"`
	TotalQuantity    int64                  `json:"total_quantity"`
	LowStockCount    int64                  `json:"low_stock_count"`
	OutOfStockCount  int64                  `json:"out_of_stock_count"`
	UnresolvedAlerts int64                  `json:"unresolved_alerts"`
	RecentScrap      []models.ScrapItem     `json:"recent_scrap"`
	RecentService    []models.ServiceRecord `json:"recent_service"`
}

// AdminOverview extends the per-department view with system-wide counters.
type AdminOverview struct {
	Departments          []DepartmentSummary             `json:"departments"`
	GrievancesByStatus   map[enums.GrievanceStatus]int64 `json:"grievances_by_status"`
	PendingRegistrations int64                           `json:"pending_registrations"`
}

// Service assembles dashboard aggregates.
type Service interface {
	DepartmentDashboard(ctx context.Context, actor authz.Actor, department *enums.Department) (*DepartmentSummary, error)
	Overview(ctx context.Context, actor authz.Actor) (*AdminOverview, error)
}

// ServiceParams packages dashboard dependencies.
type ServiceParams struct {
	Repo   Repository
	Logger *logger.Logger
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService wires dashboard dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "dashboard repository required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

// DepartmentDashboard returns the card for one department. Non-admins always
// get their own department, whatever they ask for.
func (s *service) DepartmentDashboard(ctx context.Context, actor authz.Actor, department *enums.Department) (*DepartmentSummary, error) {
	if !actor.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	dept := actor.Department
	if actor.IsAdmin() && department != nil {
		dept = *department
	}
	if !dept.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown department")
	}

	return s.buildSummary(ctx, dept)
}

// Overview returns every department plus system-wide counters. Admin only.
func (s *service) Overview(ctx context.Context, actor authz.Actor) (*AdminOverview, error) {
	if !actor.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}

	overview := &AdminOverview{}
	for _, dept := range enums.Departments() {
		summary, err := s.buildSummary(ctx, dept)
		if err != nil {
			return nil, err
		}
		overview.Departments = append(overview.Departments, *summary)
	}

	grievances, err := s.repo.GrievanceCountsByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count grievances")
	}
	overview.GrievancesByStatus = grievances

	pending, err := s.repo.PendingRegistrationCount(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pending registrations")
	}
	overview.PendingRegistrations = pending
	return overview, nil
}

func (s *service) buildSummary(ctx context.Context, dept enums.Department) (*DepartmentSummary, error) {
	counts, err := s.repo.StockCounts(ctx, dept)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate stock counts")
	}
	alerts, err := s.repo.UnresolvedAlertCount(ctx, dept)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unresolved alerts")
	}
	scrap, err := s.repo.RecentScrap(ctx, dept, recentActivityLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recent scrap")
	}
	service, err := s.repo.RecentService(ctx, dept, recentActivityLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recent service records")
	}

	return &DepartmentSummary{
		Department:       dept,
		ItemCount:        counts.ItemCount,
		TotalQuantity:    counts.TotalQuantity,
		LowStockCount:    counts.LowStock,
		OutOfStockCount:  counts.OutOfStock,
		UnresolvedAlerts: alerts,
		RecentScrap:      scrap,
		RecentService:    service,
	}, nil
}
