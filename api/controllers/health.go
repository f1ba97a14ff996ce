package controllers

import (
	"context"
	"net/http"

	"github.com/stocknexus/stocknexus-backend/api/responses"
	"github.com/stocknexus/stocknexus-backend/pkg/config"
	pkgerrors "github.com/stocknexus/stocknexus-backend/pkg/errors"
	"github.com/stocknexus/stocknexus-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-StockNexus-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every wired dependency. Nil pingers are optional
// components and count as healthy.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP, gcsP pinger) http.HandlerFunc {
	probes := []struct {
		name string
		ping pinger
	}{
		{"db", dbP},
		{"redis", redisP},
		{"gcs", gcsP},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-StockNexus-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true
		for _, probe := range probes {
			if probe.ping == nil {
				continue
			}
			if err := probe.ping.Ping(r.Context()); err != nil {
				checks[probe.name] = "down"
				healthy = false
				if logg != nil {
					logg.Error(r.Context(), "health.probe."+probe.name, err)
				}
				continue
			}
			checks[probe.name] = "up"
		}

		if !healthy {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(checks))
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
