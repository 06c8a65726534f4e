package controllers

import (
	"net/http"

	"github.com/umkmdelicious/backend/api/responses"
	dashboardsvc "github.com/umkmdelicious/backend/internal/dashboard"
	"github.com/umkmdelicious/backend/pkg/logger"
)

func DashboardStats(svc dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
