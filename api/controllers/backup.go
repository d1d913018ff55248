package controllers

import (
	"net/http"

	"github.com/mvolkova/shopbot-backend/api/responses"
	"github.com/mvolkova/shopbot-backend/api/validators"
	"github.com/mvolkova/shopbot-backend/internal/backup"
	pkgerrors "github.com/mvolkova/shopbot-backend/pkg/errors"
	"github.com/mvolkova/shopbot-backend/pkg/logger"
)

type restoreRequest struct {
	Path string `json:"path"`
}

// BackupExport writes a catalog snapshot and returns its path.
func BackupExport(svc backup.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "backup service unavailable"))
			return
		}

		path, err := svc.Export(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"path": path})
	}
}

// BackupRestore imports a snapshot into the catalog. The body is optional;
// without a path the newest snapshot in the backup directory is used.
func BackupRestore(svc backup.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "backup service unavailable"))
			return
		}

		var payload restoreRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		result, err := svc.Import(r.Context(), payload.Path)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
