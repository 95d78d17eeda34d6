package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/growwithgreen/growwithgreen-backend/api/responses"
	"github.com/growwithgreen/growwithgreen-backend/api/validators"
	"github.com/growwithgreen/growwithgreen-backend/internal/production"
	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
	pkgerrors "github.com/growwithgreen/growwithgreen-backend/pkg/errors"
	"github.com/growwithgreen/growwithgreen-backend/pkg/logger"
)

const dateLayout = "2006-01-02"

type plantingCreateRequest struct {
	VegetableID uuid.UUID       `json:"vegetable_id" validate:"required"`
	Parcel      string          `json:"parcel" validate:"required"`
	AreaSqm     decimal.Decimal `json:"area_sqm"`
	PlantedOn   string          `json:"planted_on" validate:"required"`
	Notes       *string         `json:"notes"`
}

type harvestRecordRequest struct {
	QuantityKg  decimal.Decimal `json:"quantity_kg"`
	Quality     string          `json:"quality" validate:"required"`
	HarvestedOn string          `json:"harvested_on"`
	Notes       *string         `json:"notes"`
}

func parseDate(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, value)
}

// PlantingCreate records a new planting on a parcel.
func PlantingCreate(svc production.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "production service unavailable"))
			return
		}

		var req plantingCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		plantedOn, err := parseDate(req.PlantedOn)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid planting date"))
			return
		}

		planting, err := svc.CreatePlanting(r.Context(), production.CreatePlantingInput{
			VegetableID: req.VegetableID,
			Parcel:      req.Parcel,
			AreaSqm:     req.AreaSqm,
			PlantedOn:   plantedOn,
			Notes:       req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, planting)
	}
}

// PlantingsList serves plantings, optionally filtered by status.
func PlantingsList(svc production.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "production service unavailable"))
			return
		}

		var status *enums.PlantingStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParsePlantingStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			status = &parsed
		}

		plantings, err := svc.ListPlantings(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"plantings": plantings})
	}
}

// HarvestRecord closes a planting and credits the stock ledger.
func HarvestRecord(svc production.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "production service unavailable"))
			return
		}

		plantingID, err := pathUUID(r, "plantingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req harvestRecordRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quality, err := enums.ParseHarvestQuality(req.Quality)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid harvest quality"))
			return
		}
		harvestedOn, err := parseDate(req.HarvestedOn)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid harvest date"))
			return
		}

		harvest, err := svc.RecordHarvest(r.Context(), production.RecordHarvestInput{
			PlantingID:  plantingID,
			QuantityKg:  req.QuantityKg,
			Quality:     quality,
			HarvestedOn: harvestedOn,
			Notes:       req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, harvest)
	}
}

// HarvestsList serves harvest intakes, optionally per vegetable.
func HarvestsList(svc production.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "production service unavailable"))
			return
		}

		var vegetableID *uuid.UUID
		if raw := strings.TrimSpace(r.URL.Query().Get("vegetable_id")); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vegetable_id"))
				return
			}
			vegetableID = &parsed
		}

		harvests, err := svc.ListHarvests(r.Context(), vegetableID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"harvests": harvests})
	}
}
