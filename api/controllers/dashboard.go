package controllers

import (
	"net/http"

	"github.com/stocknexus/stocknexus-backend/api/middleware"
	"github.com/stocknexus/stocknexus-backend/api/responses"
	"github.com/stocknexus/stocknexus-backend/api/validators"
	"github.com/stocknexus/stocknexus-backend/internal/dashboard"
	pkgerrors "github.com/stocknexus/stocknexus-backend/pkg/errors"
	"github.com/stocknexus/stocknexus-backend/pkg/logger"
)

// DashboardDepartment serves the per-department summary. Non-admins always
// get their own department regardless of the query parameter.
func DashboardDepartment(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		department, err := validators.ParseQueryDepartment(r, "department")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.DepartmentDashboard(r.Context(), middleware.ActorFromContext(r.Context()), department)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

// DashboardOverview serves the system-wide rollup. Admin only.
func DashboardOverview(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		overview, err := svc.Overview(r.Context(), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, overview)
	}
}
