package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/umkmdelicious/backend/api/responses"
	"github.com/umkmdelicious/backend/pkg/config"
	pkgerrors "github.com/umkmdelicious/backend/pkg/errors"
	"github.com/umkmdelicious/backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-UMKM-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the database and cache are reachable before reporting
// ready, so load balancers stop routing to a half-dead instance.
func HealthReady(cfg *config.Config, database, cache Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-UMKM-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if database != nil {
			if err := database.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

// ServiceBanner is the API root: a small identity payload for uptime checks.
func ServiceBanner() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccessMessage(w, "UMKM Delicious API", map[string]string{
			"service":   "umkm-delicious-backend",
			"version":   "1.0.0",
			"status":    "running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
