package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/stocknexus/stocknexus-backend/api/middleware"
	"github.com/stocknexus/stocknexus-backend/api/responses"
	"github.com/stocknexus/stocknexus-backend/api/validators"
	"github.com/stocknexus/stocknexus-backend/internal/alerts"
	pkgerrors "github.com/stocknexus/stocknexus-backend/pkg/errors"
	"github.com/stocknexus/stocknexus-backend/pkg/logger"
	"github.com/stocknexus/stocknexus-backend/pkg/pagination"
)

// AlertList pages through stock alerts within the caller's scope.
func AlertList(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "alert service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		department, err := validators.ParseQueryDepartment(r, "department")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := alerts.ListParams{
			Department: department,
			Limit:      limit,
			Cursor:     strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("unresolved")); raw != "" {
			unresolved, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be boolean").WithDetails(map[string]any{"field": "unresolved"}))
				return
			}
			params.UnresolvedOnly = unresolved
		}

		result, err := svc.List(r.Context(), middleware.ActorFromContext(r.Context()), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
