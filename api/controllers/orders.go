package controllers

import (
	"net/http"

	"github.com/mvolkova/shopbot-backend/api/responses"
	"github.com/mvolkova/shopbot-backend/api/validators"
	"github.com/mvolkova/shopbot-backend/internal/orders"
	pkgerrors "github.com/mvolkova/shopbot-backend/pkg/errors"
	"github.com/mvolkova/shopbot-backend/pkg/logger"
)

type createOrderRequest struct {
	UserID int64 `json:"user_id" validate:"required"`
}

// OrderCreate converts the shopper's cart into an order. An empty or missing
// cart is not an error; the result reports created=false and nothing changes.
func OrderCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), payload.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// OrderDetail returns the receipt view of an order.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := parseUintParam(r, "id", "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Details(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}
