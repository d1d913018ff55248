package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mvolkova/shopbot-backend/api/responses"
	"github.com/mvolkova/shopbot-backend/api/validators"
	"github.com/mvolkova/shopbot-backend/internal/users"
	pkgerrors "github.com/mvolkova/shopbot-backend/pkg/errors"
	"github.com/mvolkova/shopbot-backend/pkg/logger"
)

type upsertUserRequest struct {
	ExternalID int64  `json:"external_id" validate:"required"`
	Username   string `json:"username"`
	IsAdmin    bool   `json:"is_admin"`
}

type userResponse struct {
	ID         uint    `json:"id"`
	ExternalID int64   `json:"external_id"`
	Username   *string `json:"username"`
	IsAdmin    bool    `json:"is_admin"`
}

// UserUpsert registers a shopper or refreshes their identity fields.
func UserUpsert(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		var payload upsertUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Upsert(r.Context(), users.UpsertInput{
			ExternalID: payload.ExternalID,
			Username:   strings.TrimSpace(payload.Username),
			IsAdmin:    payload.IsAdmin,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, userResponse{
			ID:         user.ID,
			ExternalID: user.ExternalID,
			Username:   user.Username,
			IsAdmin:    user.IsAdmin,
		})
	}
}

// UserAdminFlag reports whether the shopper with the given platform id is an
// admin. Unknown shoppers are plain shoppers.
func UserAdminFlag(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		externalID, err := parseExternalIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		isAdmin, err := svc.IsAdmin(r.Context(), externalID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"is_admin": isAdmin})
	}
}

func parseExternalIDParam(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return parsed, nil
}
