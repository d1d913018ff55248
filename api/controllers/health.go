package controllers

import (
	"net/http"

	"github.com/mvolkova/shopbot-backend/api/responses"
	"github.com/mvolkova/shopbot-backend/pkg/config"
	"github.com/mvolkova/shopbot-backend/pkg/db"
	pkgerrors "github.com/mvolkova/shopbot-backend/pkg/errors"
	"github.com/mvolkova/shopbot-backend/pkg/logger"
)

// Healthz reports liveness and verifies the datastore answers a ping.
func Healthz(cfg *config.Config, logg *logger.Logger, dbP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Shopbot-Env", cfg.App.Env)

		if dbP == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "database unavailable"))
			return
		}
		if err := dbP.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database ping"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}
