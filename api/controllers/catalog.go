package controllers

import (
	"net/http"
	"strings"

	"github.com/growwithgreen/growwithgreen-backend/api/middleware"
	"github.com/growwithgreen/growwithgreen-backend/api/responses"
	"github.com/growwithgreen/growwithgreen-backend/internal/catalog"
	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
	pkgerrors "github.com/growwithgreen/growwithgreen-backend/pkg/errors"
	"github.com/growwithgreen/growwithgreen-backend/pkg/logger"
)

// callerClass resolves the pricing class for the request. Anonymous
// callers get retail pricing.
func callerClass(r *http.Request) enums.CustomerClass {
	class := middleware.CustomerClassFromContext(r.Context())
	if !class.IsValid() {
		return enums.CustomerClassConsumer
	}
	return class
}

// CatalogListProducts serves the paginated public catalog.
func CatalogListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		page, err := svc.ListProducts(r.Context(), callerClass(r), queryCursor(r), queryLimit(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// CatalogGetProduct serves one product detail.
func CatalogGetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetProduct(r.Context(), callerClass(r), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CatalogSearch matches products by name or vegetable type.
func CatalogSearch(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		query := strings.TrimSpace(r.URL.Query().Get("q"))
		items, err := svc.SearchProducts(r.Context(), callerClass(r), query, queryLimit(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

// ZonesList serves the active delivery zones with their fees.
func ZonesList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		zones, err := svc.ListZones(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"zones": zones})
	}
}
