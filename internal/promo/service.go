package promo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/growwithgreen/growwithgreen-backend/pkg/db/models"
	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
	pkgerrors "github.com/growwithgreen/growwithgreen-backend/pkg/errors"
)

var percentDivisor = decimal.NewFromInt(100)

// Service validates promo codes and applies their usage accounting.
type Service interface {
	// Validate checks a code against an order amount without side effects.
	// On success it returns the code and the discount it would grant.
	Validate(ctx context.Context, code string, amount decimal.Decimal, now time.Time) (*models.PromoCode, decimal.Decimal, error)
	// RecordUsage consumes one usage slot inside the caller's transaction.
	RecordUsage(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Create(ctx context.Context, input CreateInput) (*models.PromoCode, error)
	List(ctx context.Context) ([]models.PromoCode, error)
}

// CreateInput carries the fields for a new promo code.
type CreateInput struct {
	Code          string
	Description   *string
	DiscountType  enums.DiscountType
	Value         decimal.Decimal
	MinimumAmount decimal.Decimal
	StartsAt      time.Time
	EndsAt        time.Time
	MaxUses       int
}

type service struct {
	repo *Repository
}

// NewService builds the promo service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promo repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Validate(ctx context.Context, code string, amount decimal.Decimal, now time.Time) (*models.PromoCode, decimal.Decimal, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodePromoInvalid, "promo code required")
	}

	promo, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodePromoInvalid, "unknown promo code")
		}
		return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promo code")
	}

	// Check order matters: state first, then window, then cap, then amount.
	switch {
	case !promo.IsActive:
		return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodePromoInvalid, "promo code is inactive")
	case now.Before(promo.StartsAt):
		return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodePromoInvalid, "promo code is not yet active")
	case now.After(promo.EndsAt):
		return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodePromoInvalid, "promo code has expired")
	case promo.UseCount >= promo.MaxUses:
		return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodePromoInvalid, "promo code has been exhausted")
	case amount.LessThan(promo.MinimumAmount):
		return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodePromoInvalid, "order amount below promo minimum")
	}

	return promo, Discount(promo, amount), nil
}

// Discount computes the reduction a promo grants on an amount. A fixed
// discount never exceeds the amount itself.
func Discount(promo *models.PromoCode, amount decimal.Decimal) decimal.Decimal {
	switch promo.DiscountType {
	case enums.DiscountTypePercentage:
		return amount.Mul(promo.Value).Div(percentDivisor)
	case enums.DiscountTypeFixed:
		if promo.Value.GreaterThan(amount) {
			return amount
		}
		return promo.Value
	default:
		return decimal.Zero
	}
}

func (s *service) RecordUsage(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "promo id required")
	}

	used, err := s.repo.IncrementUsage(ctx, tx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment promo usage")
	}
	if !used {
		return pkgerrors.New(pkgerrors.CodePromoInvalid, "promo code has been exhausted")
	}
	return nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.PromoCode, error) {
	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	if input.Code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code required")
	}
	if !input.DiscountType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount type")
	}
	if input.Value.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "value must not be negative")
	}
	if input.DiscountType == enums.DiscountTypePercentage && input.Value.GreaterThan(percentDivisor) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage cannot exceed 100")
	}
	if !input.EndsAt.After(input.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date must follow start date")
	}
	if input.MaxUses <= 0 {
		input.MaxUses = 100
	}

	promo := &models.PromoCode{
		ID:            uuid.New(),
		Code:          input.Code,
		Description:   input.Description,
		DiscountType:  input.DiscountType,
		Value:         input.Value,
		MinimumAmount: input.MinimumAmount,
		StartsAt:      input.StartsAt,
		EndsAt:        input.EndsAt,
		MaxUses:       input.MaxUses,
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, promo); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create promo code")
	}
	return promo, nil
}

func (s *service) List(ctx context.Context) ([]models.PromoCode, error) {
	promos, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list promo codes")
	}
	return promos, nil
}
