package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/growwithgreen/growwithgreen-backend/api/responses"
	"github.com/growwithgreen/growwithgreen-backend/internal/orders"
	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
	pkgerrors "github.com/growwithgreen/growwithgreen-backend/pkg/errors"
	"github.com/growwithgreen/growwithgreen-backend/pkg/logger"
)

// AdminOrdersList serves all orders, optionally filtered by status.
func AdminOrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var status *enums.OrderStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			status = &parsed
		}

		page, err := svc.ListAll(r.Context(), status, queryCursor(r), queryLimit(r))
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

func orderTransition(svc orders.Service, logg *logger.Logger, result string, apply func(context.Context, uuid.UUID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := apply(r.Context(), orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": result})
	}
}

// AdminOrderMarkPaid confirms receipt of payment for a pending order.
func AdminOrderMarkPaid(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderTransition(svc, logg, "paid", func(ctx context.Context, id uuid.UUID) error {
		return svc.MarkPaid(ctx, id)
	})
}

// AdminOrderConfirm confirms a paid order and debits stock.
func AdminOrderConfirm(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderTransition(svc, logg, string(enums.OrderStatusConfirmed), func(ctx context.Context, id uuid.UUID) error {
		return svc.Confirm(ctx, id)
	})
}

// AdminOrderPrepare moves a confirmed order into preparation.
func AdminOrderPrepare(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderTransition(svc, logg, string(enums.OrderStatusPreparing), func(ctx context.Context, id uuid.UUID) error {
		return svc.Prepare(ctx, id)
	})
}

// AdminOrderShip marks a prepared order as shipped.
func AdminOrderShip(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderTransition(svc, logg, string(enums.OrderStatusShipped), func(ctx context.Context, id uuid.UUID) error {
		return svc.Ship(ctx, id)
	})
}

// AdminOrderDeliver marks a shipped order as delivered.
func AdminOrderDeliver(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderTransition(svc, logg, string(enums.OrderStatusDelivered), func(ctx context.Context, id uuid.UUID) error {
		return svc.Deliver(ctx, id)
	})
}

// AdminOrderCancel cancels a pending or confirmed order.
func AdminOrderCancel(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderTransition(svc, logg, string(enums.OrderStatusCancelled), func(ctx context.Context, id uuid.UUID) error {
		return svc.Cancel(ctx, id)
	})
}
