package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/growwithgreen/growwithgreen-backend/api/responses"
	"github.com/growwithgreen/growwithgreen-backend/api/validators"
	"github.com/growwithgreen/growwithgreen-backend/internal/catalog"
	"github.com/growwithgreen/growwithgreen-backend/internal/promo"
	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
	pkgerrors "github.com/growwithgreen/growwithgreen-backend/pkg/errors"
	"github.com/growwithgreen/growwithgreen-backend/pkg/logger"
)

type productCreateRequest struct {
	VegetableID uuid.UUID       `json:"vegetable_id" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Description *string         `json:"description"`
	PriceB2C    decimal.Decimal `json:"price_b2c"`
	PriceB2B    decimal.Decimal `json:"price_b2b"`
	ImageURL    *string         `json:"image_url"`
}

type productUpdateRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	PriceB2C    *decimal.Decimal `json:"price_b2c"`
	PriceB2B    *decimal.Decimal `json:"price_b2b"`
	ImageURL    *string          `json:"image_url"`
	IsActive    *bool            `json:"is_active"`
}

type vegetableCreateRequest struct {
	Type            string  `json:"type" validate:"required"`
	Description     *string `json:"description"`
	GrowthCycleDays int     `json:"growth_cycle_days" validate:"required,gt=0"`
}

type promoCreateRequest struct {
	Code          string          `json:"code" validate:"required"`
	Description   *string         `json:"description"`
	DiscountType  string          `json:"discount_type" validate:"required"`
	Value         decimal.Decimal `json:"value"`
	MinimumAmount decimal.Decimal `json:"minimum_amount"`
	StartsAt      time.Time       `json:"starts_at" validate:"required"`
	EndsAt        time.Time       `json:"ends_at" validate:"required"`
	MaxUses       int             `json:"max_uses" validate:"required,gt=0"`
}

// ProductCreate publishes a new listing.
func ProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var req productCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			VegetableID: req.VegetableID,
			Name:        req.Name,
			Description: req.Description,
			PriceB2C:    req.PriceB2C,
			PriceB2B:    req.PriceB2B,
			ImageURL:    req.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductUpdate applies a partial update to a listing.
func ProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
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

		var req productUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err = svc.UpdateProduct(r.Context(), productID, catalog.UpdateProductInput{
			Name:        req.Name,
			Description: req.Description,
			PriceB2C:    req.PriceB2C,
			PriceB2B:    req.PriceB2B,
			ImageURL:    req.ImageURL,
			IsActive:    req.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"updated": true})
	}
}

// VegetableCreate defines a new crop.
func VegetableCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var req vegetableCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vegType, err := enums.ParseVegetableType(req.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vegetable type"))
			return
		}

		vegetable, err := svc.CreateVegetable(r.Context(), catalog.CreateVegetableInput{
			Type:            vegType,
			Description:     req.Description,
			GrowthCycleDays: req.GrowthCycleDays,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, vegetable)
	}
}

// PromoCreate registers a new discount code.
func PromoCreate(svc promo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}

		var req promoCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discountType, err := enums.ParseDiscountType(req.DiscountType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount type"))
			return
		}

		code, err := svc.Create(r.Context(), promo.CreateInput{
			Code:          req.Code,
			Description:   req.Description,
			DiscountType:  discountType,
			Value:         req.Value,
			MinimumAmount: req.MinimumAmount,
			StartsAt:      req.StartsAt,
			EndsAt:        req.EndsAt,
			MaxUses:       req.MaxUses,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, code)
	}
}

// PromoList serves every promo code with its usage counters.
func PromoList(svc promo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}

		codes, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"codes": codes})
	}
}
