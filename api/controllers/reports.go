package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/stocknexus/stocknexus-backend/api/middleware"
	"github.com/stocknexus/stocknexus-backend/api/responses"
	"github.com/stocknexus/stocknexus-backend/api/validators"
	"github.com/stocknexus/stocknexus-backend/internal/reports"
	pkgerrors "github.com/stocknexus/stocknexus-backend/pkg/errors"
	"github.com/stocknexus/stocknexus-backend/pkg/logger"
)

// ReportExport streams a generated report file. The envelope is skipped here;
// the body is the file itself.
func ReportExport(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}

		department, err := validators.ParseQueryDepartment(r, "department")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req := reports.ExportRequest{
			Kind:       reports.Kind(strings.TrimSpace(r.URL.Query().Get("kind"))),
			Department: department,
			Format:     reports.Format(strings.TrimSpace(r.URL.Query().Get("format"))),
		}

		result, err := svc.Export(r.Context(), middleware.ActorFromContext(r.Context()), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", result.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(result.Data); err != nil && logg != nil {
			logg.Error(r.Context(), "report.write", err)
		}
	}
}
