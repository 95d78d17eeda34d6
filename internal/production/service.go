package production

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/growwithgreen/growwithgreen-backend/internal/catalog"
	"github.com/growwithgreen/growwithgreen-backend/internal/stock"
	"github.com/growwithgreen/growwithgreen-backend/pkg/db/models"
	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
	pkgerrors "github.com/growwithgreen/growwithgreen-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages plantings and harvest intake.
type Service interface {
	CreatePlanting(ctx context.Context, input CreatePlantingInput) (*models.Planting, error)
	ListPlantings(ctx context.Context, status *enums.PlantingStatus) ([]models.Planting, error)
	RecordHarvest(ctx context.Context, input RecordHarvestInput) (*models.Harvest, error)
	ListHarvests(ctx context.Context, vegetableID *uuid.UUID) ([]models.Harvest, error)
}

// CreatePlantingInput carries the fields for a new planting.
type CreatePlantingInput struct {
	VegetableID uuid.UUID
	Parcel      string
	AreaSqm     decimal.Decimal
	PlantedOn   time.Time
	Notes       *string
}

// RecordHarvestInput carries the fields for a harvest intake.
type RecordHarvestInput struct {
	PlantingID  uuid.UUID
	QuantityKg  decimal.Decimal
	Quality     enums.HarvestQuality
	HarvestedOn time.Time
	Notes       *string
}

type service struct {
	repo    *Repository
	catalog *catalog.Repository
	stock   stock.Service
	tx      txRunner
}

// NewService builds the production service.
func NewService(repo *Repository, catalogRepo *catalog.Repository, stockSvc stock.Service, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("production repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if stockSvc == nil {
		return nil, fmt.Errorf("stock service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, catalog: catalogRepo, stock: stockSvc, tx: tx}, nil
}

func (s *service) CreatePlanting(ctx context.Context, input CreatePlantingInput) (*models.Planting, error) {
	if input.VegetableID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vegetable id required")
	}
	if input.Parcel == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "parcel required")
	}
	if !input.AreaSqm.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "area must be positive")
	}
	if input.PlantedOn.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "planting date required")
	}

	vegetable, err := s.catalog.FindVegetableByID(ctx, input.VegetableID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vegetable not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vegetable")
	}

	planting := &models.Planting{
		ID:                uuid.New(),
		VegetableID:       input.VegetableID,
		Parcel:            input.Parcel,
		AreaSqm:           input.AreaSqm,
		PlantedOn:         input.PlantedOn,
		ExpectedHarvestOn: input.PlantedOn.AddDate(0, 0, vegetable.GrowthCycleDays),
		Status:            enums.PlantingStatusGrowing,
		Notes:             input.Notes,
	}
	if err := s.repo.CreatePlanting(ctx, planting); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create planting")
	}
	return planting, nil
}

func (s *service) ListPlantings(ctx context.Context, status *enums.PlantingStatus) ([]models.Planting, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid planting status")
	}
	plantings, err := s.repo.ListPlantings(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list plantings")
	}
	return plantings, nil
}

// RecordHarvest writes the harvest, marks the planting harvested, and
// credits the stock ledger inside one transaction.
func (s *service) RecordHarvest(ctx context.Context, input RecordHarvestInput) (*models.Harvest, error) {
	if input.PlantingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "planting id required")
	}
	if !input.QuantityKg.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if !input.Quality.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid harvest quality")
	}
	if input.HarvestedOn.IsZero() {
		input.HarvestedOn = time.Now().UTC()
	}

	planting, err := s.repo.FindPlanting(ctx, input.PlantingID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "planting not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load planting")
	}
	if planting.Status != enums.PlantingStatusGrowing {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "planting already harvested")
	}

	harvest := &models.Harvest{
		ID:          uuid.New(),
		PlantingID:  planting.ID,
		VegetableID: planting.VegetableID,
		QuantityKg:  input.QuantityKg,
		Quality:     input.Quality,
		HarvestedOn: input.HarvestedOn,
		Notes:       input.Notes,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		marked, err := s.repo.MarkPlantingHarvested(ctx, tx, planting.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark planting harvested")
		}
		if !marked {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "planting already harvested")
		}
		if err := s.repo.CreateHarvest(ctx, tx, harvest); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create harvest")
		}
		return s.stock.Add(ctx, tx, planting.VegetableID, input.QuantityKg)
	})
	if err != nil {
		return nil, err
	}
	return harvest, nil
}

func (s *service) ListHarvests(ctx context.Context, vegetableID *uuid.UUID) ([]models.Harvest, error) {
	harvests, err := s.repo.ListHarvests(ctx, vegetableID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list harvests")
	}
	return harvests, nil
}
