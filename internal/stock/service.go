package stock

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/growwithgreen/growwithgreen-backend/pkg/db/models"
	pkgerrors "github.com/growwithgreen/growwithgreen-backend/pkg/errors"
	"github.com/growwithgreen/growwithgreen-backend/pkg/logger"
)

// Service exposes the stock ledger to the rest of the application.
type Service interface {
	Add(ctx context.Context, tx *gorm.DB, vegetableID uuid.UUID, qty decimal.Decimal) error
	Remove(ctx context.Context, tx *gorm.DB, vegetableID uuid.UUID, qty decimal.Decimal) error
	Available(ctx context.Context, vegetableID uuid.UUID) (decimal.Decimal, error)
	Entry(ctx context.Context, vegetableID uuid.UUID) (*models.StockEntry, error)
	List(ctx context.Context) ([]models.StockEntry, error)
	LowStock(ctx context.Context) ([]models.StockEntry, error)
	SetThreshold(ctx context.Context, vegetableID uuid.UUID, threshold decimal.Decimal) error
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService builds the stock service.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Add(ctx context.Context, tx *gorm.DB, vegetableID uuid.UUID, qty decimal.Decimal) error {
	if vegetableID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "vegetable id required")
	}
	if !qty.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if err := s.repo.Increment(ctx, tx, vegetableID, qty); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment stock")
	}
	return nil
}

func (s *service) Remove(ctx context.Context, tx *gorm.DB, vegetableID uuid.UUID, qty decimal.Decimal) error {
	if vegetableID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "vegetable id required")
	}
	if !qty.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	outcome, err := s.repo.Decrement(ctx, tx, vegetableID, qty)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
	}

	switch outcome {
	case DecrementClamped:
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"vegetable_id": vegetableID,
			"requested_kg": qty,
		}), "stock decrement exceeded ledger quantity, floored at zero")
	case DecrementMissing:
		s.logg.Warn(s.logg.WithField(ctx, "vegetable_id", vegetableID),
			"stock decrement skipped, no ledger row")
	}
	return nil
}

// Available returns the quantity on hand for a vegetable. A vegetable
// without a ledger row has nothing to sell.
func (s *service) Available(ctx context.Context, vegetableID uuid.UUID) (decimal.Decimal, error) {
	entry, err := s.repo.Find(ctx, vegetableID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return decimal.Zero, nil
		}
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock entry")
	}
	return entry.QuantityKg, nil
}

func (s *service) Entry(ctx context.Context, vegetableID uuid.UUID) (*models.StockEntry, error) {
	entry, err := s.repo.Find(ctx, vegetableID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock entry")
	}
	return entry, nil
}

func (s *service) List(ctx context.Context) ([]models.StockEntry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock entries")
	}
	return entries, nil
}

func (s *service) LowStock(ctx context.Context) ([]models.StockEntry, error) {
	entries, err := s.repo.ListBelowThreshold(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock entries")
	}
	return entries, nil
}

func (s *service) SetThreshold(ctx context.Context, vegetableID uuid.UUID, threshold decimal.Decimal) error {
	if vegetableID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "vegetable id required")
	}
	if threshold.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "threshold must not be negative")
	}

	updated, err := s.repo.SetThreshold(ctx, vegetableID, threshold)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set stock threshold")
	}
	if !updated {
		return pkgerrors.New(pkgerrors.CodeNotFound, "stock entry not found")
	}
	return nil
}
