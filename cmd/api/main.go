package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/stocknexus/stocknexus-backend/api/routes"
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
	"github.com/stocknexus/stocknexus-backend/internal/users"
	"github.com/stocknexus/stocknexus-backend/pkg/auth/session"
	"github.com/stocknexus/stocknexus-backend/pkg/config"
	"github.com/stocknexus/stocknexus-backend/pkg/db"
	"github.com/stocknexus/stocknexus-backend/pkg/logger"
	"github.com/stocknexus/stocknexus-backend/pkg/metrics"
	"github.com/stocknexus/stocknexus-backend/pkg/migrate"
	"github.com/stocknexus/stocknexus-backend/pkg/redis"
	"github.com/stocknexus/stocknexus-backend/pkg/storage/gcs"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	// GCS is optional; attachments are disabled when no bucket is configured.
	var gcsClient *gcs.Client
	if cfg.GCS.BucketName != "" {
		gcsClient, err = gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap gcs", err)
			os.Exit(1)
		}
		defer func() {
			if err := gcsClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing gcs", err)
			}
		}()
	}

	registry := prometheus.NewRegistry()
	reconcilerMetrics := metrics.NewReconcilerMetrics(registry)

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)
	inventoryRepo := inventory.NewRepository(gormDB)
	scrapRepo := scrap.NewRepository(gormDB)
	maintenanceRepo := maintenance.NewRepository(gormDB)
	grievancesRepo := grievances.NewRepository(gormDB)
	registrationsRepo := registrations.NewRepository(gormDB)
	alertsRepo := alerts.NewRepository(gormDB)
	dashboardRepo := dashboard.NewRepository(gormDB)

	reconciler, err := alerts.NewReconciler(alertsRepo, reconcilerMetrics, logg)
	if err != nil {
		fatal(logg, "alert reconciler", err)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Users:       usersRepo,
		Sessions:    sessionManager,
		JWT:         cfg.JWT,
		PasswordCfg: cfg.Password,
		Logger:      logg,
	})
	if err != nil {
		fatal(logg, "auth service", err)
	}

	inventoryService, err := inventory.NewService(inventory.ServiceParams{
		DB:         dbClient,
		Repo:       inventoryRepo,
		Reconciler: reconciler,
		Logger:     logg,
		MaxImport:  cfg.Imports.MaxRows,
	})
	if err != nil {
		fatal(logg, "inventory service", err)
	}

	scrapService, err := scrap.NewService(scrap.ServiceParams{
		DB:         dbClient,
		Repo:       scrapRepo,
		Inventory:  inventoryRepo,
		Reconciler: reconciler,
		Logger:     logg,
	})
	if err != nil {
		fatal(logg, "scrap service", err)
	}

	maintenanceService, err := maintenance.NewService(maintenance.ServiceParams{
		Repo:   maintenanceRepo,
		Items:  inventoryRepo,
		Logger: logg,
	})
	if err != nil {
		fatal(logg, "maintenance service", err)
	}

	grievancesService, err := grievances.NewService(grievances.ServiceParams{
		Repo:   grievancesRepo,
		Logger: logg,
	})
	if err != nil {
		fatal(logg, "grievance service", err)
	}

	registrationsService, err := registrations.NewService(registrations.ServiceParams{
		DB:          dbClient,
		Repo:        registrationsRepo,
		Users:       usersRepo,
		PasswordCfg: cfg.Password,
		Logger:      logg,
	})
	if err != nil {
		fatal(logg, "registration service", err)
	}

	alertsService, err := alerts.NewService(alertsRepo)
	if err != nil {
		fatal(logg, "alert service", err)
	}

	dashboardService, err := dashboard.NewService(dashboard.ServiceParams{
		Repo:   dashboardRepo,
		Logger: logg,
	})
	if err != nil {
		fatal(logg, "dashboard service", err)
	}

	reportsService, err := reports.NewService(reports.ServiceParams{
		Inventory: inventoryRepo,
		Scrap:     scrapRepo,
		Records:   maintenanceRepo,
		Logger:    logg,
	})
	if err != nil {
		fatal(logg, "report service", err)
	}

	var attachmentsService attachments.Service
	if gcsClient != nil {
		attachmentsService, err = attachments.NewService(attachments.ServiceParams{
			Store:  gcsClient,
			Config: cfg.GCS,
			Logger: logg,
		})
		if err != nil {
			fatal(logg, "attachment service", err)
		}
	}

	deps := routes.Deps{
		Config:        cfg,
		Logger:        logg,
		DB:            dbClient,
		Redis:         redisClient,
		Metrics:       registry,
		Sessions:      sessionManager,
		Auth:          authService,
		Inventory:     inventoryService,
		Scrap:         scrapService,
		Maintenance:   maintenanceService,
		Grievances:    grievancesService,
		Registrations: registrationsService,
		Alerts:        alertsService,
		Dashboard:     dashboardService,
		Reports:       reportsService,
		Attachments:   attachmentsService,
	}
	if gcsClient != nil {
		deps.GCS = gcsClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(deps),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

func fatal(logg *logger.Logger, component string, err error) {
	logg.Error(context.Background(), "failed to create "+component, err)
	os.Exit(1)
}
