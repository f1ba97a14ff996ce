package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/stocknexus/stocknexus-backend/api/middleware"
	"github.com/stocknexus/stocknexus-backend/api/responses"
	"github.com/stocknexus/stocknexus-backend/api/validators"
	"github.com/stocknexus/stocknexus-backend/internal/grievances"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
	pkgerrors "github.com/stocknexus/stocknexus-backend/pkg/errors"
	"github.com/stocknexus/stocknexus-backend/pkg/logger"
	"github.com/stocknexus/stocknexus-backend/pkg/pagination"
)

// GrievanceCreate files a complaint on behalf of the caller.
func GrievanceCreate(svc grievances.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "grievance service unavailable"))
			return
		}

		var body grievances.CreateGrievanceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		grievance, err := svc.Create(r.Context(), middleware.ActorFromContext(r.Context()), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, grievance)
	}
}

// GrievanceGet returns one complaint. Non-admins only see their own.
func GrievanceGet(svc grievances.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "grievance service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "grievanceId"), "grievance_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		grievance, err := svc.Get(r.Context(), middleware.ActorFromContext(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, grievance)
	}
}

// GrievanceReview moves a complaint through its lifecycle. Admin only.
func GrievanceReview(svc grievances.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "grievance service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "grievanceId"), "grievance_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body grievances.ReviewGrievanceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		grievance, err := svc.Review(r.Context(), middleware.ActorFromContext(r.Context()), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, grievance)
	}
}

// GrievanceList pages through complaints visible to the caller.
func GrievanceList(svc grievances.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "grievance service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := grievances.ListParams{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.GrievanceStatus(raw)
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown grievance status").WithDetails(map[string]any{"field": "status"}))
				return
			}
			params.Status = &status
		}

		result, err := svc.List(r.Context(), middleware.ActorFromContext(r.Context()), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
