package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/growwithgreen/growwithgreen-backend/api/responses"
	"github.com/growwithgreen/growwithgreen-backend/api/validators"
	"github.com/growwithgreen/growwithgreen-backend/internal/orders"
	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
	pkgerrors "github.com/growwithgreen/growwithgreen-backend/pkg/errors"
	"github.com/growwithgreen/growwithgreen-backend/pkg/logger"
)

type checkoutRequest struct {
	PaymentMethod   string    `json:"payment_method" validate:"required"`
	DeliveryZoneID  uuid.UUID `json:"delivery_zone_id" validate:"required"`
	DeliveryAddress string    `json:"delivery_address" validate:"required"`
	DeliveryPhone   string    `json:"delivery_phone" validate:"required"`
	Notes           *string   `json:"notes"`
	PromoCode       string    `json:"promo_code"`
}

type checkoutResponse struct {
	Order        any    `json:"order"`
	PromoWarning string `json:"promo_warning,omitempty"`
}

// Checkout turns the caller's cart into a pending order.
func Checkout(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req checkoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(req.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		result, err := svc.Checkout(r.Context(), orders.CheckoutInput{
			UserID:          userID,
			CustomerClass:   callerClass(r),
			PaymentMethod:   method,
			DeliveryZoneID:  req.DeliveryZoneID,
			DeliveryAddress: req.DeliveryAddress,
			DeliveryPhone:   req.DeliveryPhone,
			Notes:           req.Notes,
			PromoCode:       req.PromoCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			Order:        result.Order,
			PromoWarning: result.PromoWarning,
		})
	}
}

// OrdersList serves the caller's order history, newest first.
func OrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), userID, queryCursor(r), queryLimit(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"orders":      page.Orders,
			"next_cursor": page.NextCursor,
		})
	}
}

// OrderGetByNumber serves one of the caller's orders by its public number.
func OrderGetByNumber(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		number := strings.TrimSpace(chi.URLParam(r, "orderNumber"))
		order, err := svc.GetByNumber(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if order.UserID != userID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}
		responses.WriteSuccess(w, order)
	}
}
