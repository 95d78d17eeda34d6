package loyalty

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/growwithgreen/growwithgreen-backend/pkg/db/models"
	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
	pkgerrors "github.com/growwithgreen/growwithgreen-backend/pkg/errors"
)

var pointsPerCurrencyUnit = decimal.NewFromInt(100)

// Service keeps the loyalty point ledger and derived tiers.
type Service interface {
	// AwardForOrder credits checkout points inside the caller's transaction.
	AwardForOrder(ctx context.Context, tx *gorm.DB, userID, orderID uuid.UUID, amount decimal.Decimal) error
	GrantBonus(ctx context.Context, userID uuid.UUID, points int, description string) error
	Redeem(ctx context.Context, userID uuid.UUID, points int, description string) error
	Account(ctx context.Context, userID uuid.UUID) (*models.LoyaltyAccount, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]models.LoyaltyHistoryEntry, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService builds the loyalty service.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("loyalty repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// PointsForAmount converts an order total into points. One point per
// full hundred FCFA, fractions dropped.
func PointsForAmount(amount decimal.Decimal) int {
	if amount.IsNegative() {
		return 0
	}
	return int(amount.Div(pointsPerCurrencyUnit).IntPart())
}

// TierForBalance maps a point balance onto its tier.
func TierForBalance(balance int) enums.LoyaltyTier {
	switch {
	case balance >= 10000:
		return enums.LoyaltyTierPlatinum
	case balance >= 5000:
		return enums.LoyaltyTierGold
	case balance >= 2000:
		return enums.LoyaltyTierSilver
	default:
		return enums.LoyaltyTierBronze
	}
}

func (s *service) AwardForOrder(ctx context.Context, tx *gorm.DB, userID, orderID uuid.UUID, amount decimal.Decimal) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	points := PointsForAmount(amount)
	if points <= 0 {
		return nil
	}

	account, err := s.repo.FindOrCreateAccount(ctx, tx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load loyalty account")
	}

	entry := &models.LoyaltyHistoryEntry{
		ID:          uuid.New(),
		AccountID:   account.ID,
		Type:        enums.LoyaltyEventEarn,
		Points:      points,
		Description: fmt.Sprintf("Points earned on order payment of %s FCFA", amount.StringFixed(0)),
		OrderID:     &orderID,
	}
	return s.credit(ctx, tx, account.ID, points, entry)
}

func (s *service) GrantBonus(ctx context.Context, userID uuid.UUID, points int, description string) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if points <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "points must be positive")
	}
	if description == "" {
		description = "Bonus points"
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		account, err := s.repo.FindOrCreateAccount(ctx, tx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load loyalty account")
		}
		entry := &models.LoyaltyHistoryEntry{
			ID:          uuid.New(),
			AccountID:   account.ID,
			Type:        enums.LoyaltyEventBonus,
			Points:      points,
			Description: description,
		}
		return s.credit(ctx, tx, account.ID, points, entry)
	})
}

func (s *service) Redeem(ctx context.Context, userID uuid.UUID, points int, description string) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if points <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "points must be positive")
	}
	if description == "" {
		description = "Points redeemed"
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		account, err := s.repo.FindOrCreateAccount(ctx, tx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load loyalty account")
		}

		deducted, err := s.repo.DeductPoints(ctx, tx, account.ID, points)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deduct points")
		}
		if !deducted {
			return pkgerrors.New(pkgerrors.CodeConflict, "insufficient loyalty points")
		}

		entry := &models.LoyaltyHistoryEntry{
			ID:          uuid.New(),
			AccountID:   account.ID,
			Type:        enums.LoyaltyEventSpend,
			Points:      -points,
			Description: description,
		}
		if err := s.repo.CreateHistoryEntry(ctx, tx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record loyalty history")
		}
		return s.refreshTier(ctx, tx, account.ID)
	})
}

func (s *service) Account(ctx context.Context, userID uuid.UUID) (*models.LoyaltyAccount, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	account, err := s.repo.FindOrCreateAccount(ctx, nil, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load loyalty account")
	}
	return account, nil
}

func (s *service) History(ctx context.Context, userID uuid.UUID, limit int) ([]models.LoyaltyHistoryEntry, error) {
	account, err := s.Account(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListHistory(ctx, account.ID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list loyalty history")
	}
	return entries, nil
}

func (s *service) credit(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, points int, entry *models.LoyaltyHistoryEntry) error {
	if err := s.repo.AddPoints(ctx, tx, accountID, points); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit points")
	}
	if err := s.repo.CreateHistoryEntry(ctx, tx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record loyalty history")
	}
	return s.refreshTier(ctx, tx, accountID)
}

func (s *service) refreshTier(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) error {
	balance, err := s.repo.CurrentBalance(ctx, tx, accountID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read balance")
	}
	if err := s.repo.SetTier(ctx, tx, accountID, TierForBalance(balance)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update tier")
	}
	return nil
}
