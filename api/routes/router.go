package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stocknexus/stocknexus-backend/api/controllers"
	"github.com/stocknexus/stocknexus-backend/api/middleware"
	"github.com/stocknexus/stocknexus-backend/internal/alerts"
	"github.com/stocknexus/stocknexus-backend/internal/attachments"
	"github.com/stocknexus/stocknexus-backend/internal/auth"
	"github.com/stocknexus/stocknexus-backend/internal/dashboard"
	"github.com/stocknexus/stocknexus-backend/internal/grievances"
	"github.com/stocknexus/stocknexus-backend/internal/inventory"
	"github.com/stocknexus/stocknexus-backend/internal/maintenance"
	"github.com/stocknexus/stocknexus-backend/internal/registrations"
	"github.com/stocknexus/stocknexus-backend/internal/reports"
	"github.com/stocknexus/stocknexus-backend/internal/scrap"
	"github.com/stocknexus/stocknexus-backend/pkg/auth/session"
	"github.com/stocknexus/stocknexus-backend/pkg/config"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
	"github.com/stocknexus/stocknexus-backend/pkg/logger"
	"github.com/stocknexus/stocknexus-backend/pkg/redis"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Deps collects everything the router wires into handlers.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      pinger
	Redis   *redis.Client
	GCS     pinger
	Metrics prometheus.Gatherer

	Sessions sessionManager

	Auth          auth.Service
	Inventory     inventory.Service
	Scrap         scrap.Service
	Maintenance   maintenance.Service
	Grievances    grievances.Service
	Registrations registrations.Service
	Alerts        alerts.Service
	Dashboard     dashboard.Service
	Reports       reports.Service
	Attachments   attachments.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App),
	)

	loginPolicy := middleware.LoginRateLimitPolicy(cfg.AuthRateLimit)
	registerPolicy := middleware.RegisterRateLimitPolicy(cfg.AuthRateLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis, deps.GCS))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))
			r.Get("/me", controllers.AuthMe(deps.Auth, logg))
			r.Post("/change-password", controllers.AuthChangePassword(deps.Auth, logg))
		})
	})

	// Registration submission is the only unauthenticated write surface.
	r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
		Post("/api/v1/registrations", controllers.RegistrationSubmit(deps.Registrations, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.InventoryList(deps.Inventory, logg))
			r.Post("/", controllers.InventoryCreate(deps.Inventory, logg))
			r.Post("/import", controllers.InventoryImport(deps.Inventory, logg))
			r.Get("/{itemId}", controllers.InventoryGet(deps.Inventory, logg))
			r.Patch("/{itemId}", controllers.InventoryUpdate(deps.Inventory, logg))
			r.Delete("/{itemId}", controllers.InventoryDelete(deps.Inventory, logg))
		})

		r.Route("/scrap", func(r chi.Router) {
			r.Get("/", controllers.ScrapList(deps.Scrap, logg))
			r.Post("/", controllers.ScrapCreate(deps.Scrap, logg))
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", controllers.ServiceRecordList(deps.Maintenance, logg))
			r.Post("/", controllers.ServiceRecordCreate(deps.Maintenance, logg))
			r.Get("/{recordId}", controllers.ServiceRecordGet(deps.Maintenance, logg))
			r.Patch("/{recordId}", controllers.ServiceRecordUpdate(deps.Maintenance, logg))
		})

		r.Route("/grievances", func(r chi.Router) {
			r.Get("/", controllers.GrievanceList(deps.Grievances, logg))
			r.Post("/", controllers.GrievanceCreate(deps.Grievances, logg))
			r.Get("/{grievanceId}", controllers.GrievanceGet(deps.Grievances, logg))
			r.With(middleware.RequireRole(string(enums.RoleAdmin), logg)).
				Post("/{grievanceId}/review", controllers.GrievanceReview(deps.Grievances, logg))
		})

		r.Route("/registrations", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.RoleAdmin), logg))
			r.Get("/", controllers.RegistrationList(deps.Registrations, logg))
			r.Post("/{requestId}/approve", controllers.RegistrationApprove(deps.Registrations, logg))
			r.Post("/{requestId}/reject", controllers.RegistrationReject(deps.Registrations, logg))
			r.Delete("/{requestId}", controllers.RegistrationDelete(deps.Registrations, logg))
		})

		r.Get("/alerts", controllers.AlertList(deps.Alerts, logg))

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", controllers.DashboardDepartment(deps.Dashboard, logg))
			r.With(middleware.RequireRole(string(enums.RoleAdmin), logg)).
				Get("/overview", controllers.DashboardOverview(deps.Dashboard, logg))
		})

		r.With(middleware.RequireAnyRole(logg, string(enums.RoleAdmin), string(enums.RoleHOD))).
			Get("/reports/export", controllers.ReportExport(deps.Reports, logg))

		r.Route("/attachments", func(r chi.Router) {
			r.Post("/", controllers.AttachmentUpload(deps.Attachments, logg))
			r.Get("/download-url", controllers.AttachmentDownloadURL(deps.Attachments, logg))
		})
	})

	return r
}
