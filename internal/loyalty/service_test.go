package loyalty

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/growwithgreen/growwithgreen-backend/pkg/db/models"
	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
	pkgerrors "github.com/growwithgreen/growwithgreen-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupLoyaltyTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS loyalty_accounts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  points_balance INTEGER NOT NULL DEFAULT 0,
  tier TEXT NOT NULL DEFAULT 'bronze',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS loyalty_history_entries (
  id TEXT PRIMARY KEY,
  account_id TEXT NOT NULL,
  type TEXT NOT NULL,
  points INTEGER NOT NULL,
  description TEXT NOT NULL,
  order_id TEXT,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newLoyaltyService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(db), gormTxRunner{db: db})
	require.NoError(t, err)
	return svc
}

func accountFor(t *testing.T, db *gorm.DB, userID uuid.UUID) models.LoyaltyAccount {
	t.Helper()

	var account models.LoyaltyAccount
	require.NoError(t, db.Where("user_id = ?", userID).First(&account).Error)
	return account
}

func TestPointsForAmountTruncates(t *testing.T) {
	assert.Equal(t, 2, PointsForAmount(decimal.NewFromInt(250)))
	assert.Equal(t, 100, PointsForAmount(decimal.NewFromInt(10000)))
	assert.Equal(t, 0, PointsForAmount(decimal.NewFromInt(99)))
	assert.Equal(t, 0, PointsForAmount(decimal.NewFromInt(-500)))
}

func TestTierForBalance(t *testing.T) {
	assert.Equal(t, enums.LoyaltyTierBronze, TierForBalance(0))
	assert.Equal(t, enums.LoyaltyTierBronze, TierForBalance(1999))
	assert.Equal(t, enums.LoyaltyTierSilver, TierForBalance(2000))
	assert.Equal(t, enums.LoyaltyTierGold, TierForBalance(5000))
	assert.Equal(t, enums.LoyaltyTierPlatinum, TierForBalance(10000))
}

func TestAwardForOrderCreditsAndRecords(t *testing.T) {
	db := setupLoyaltyTestDB(t)
	svc := newLoyaltyService(t, db)
	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()

	require.NoError(t, svc.AwardForOrder(ctx, nil, userID, orderID, decimal.NewFromInt(10000)))

	account := accountFor(t, db, userID)
	assert.Equal(t, 100, account.PointsBalance)
	assert.Equal(t, enums.LoyaltyTierBronze, account.Tier)

	entries, err := svc.History(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, enums.LoyaltyEventEarn, entries[0].Type)
	assert.Equal(t, 100, entries[0].Points)
	require.NotNil(t, entries[0].OrderID)
	assert.Equal(t, orderID, *entries[0].OrderID)
}

func TestAwardForOrderSkipsZeroPoints(t *testing.T) {
	db := setupLoyaltyTestDB(t)
	svc := newLoyaltyService(t, db)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.AwardForOrder(ctx, nil, userID, uuid.New(), decimal.NewFromInt(50)))

	var count int64
	require.NoError(t, db.Model(&models.LoyaltyHistoryEntry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTierPromotionOnAward(t *testing.T) {
	db := setupLoyaltyTestDB(t)
	svc := newLoyaltyService(t, db)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.GrantBonus(ctx, userID, 2500, "welcome bonus"))
	assert.Equal(t, enums.LoyaltyTierSilver, accountFor(t, db, userID).Tier)

	require.NoError(t, svc.GrantBonus(ctx, userID, 8000, "campaign bonus"))
	assert.Equal(t, enums.LoyaltyTierPlatinum, accountFor(t, db, userID).Tier)
}

func TestRedeemInsufficientBalance(t *testing.T) {
	db := setupLoyaltyTestDB(t)
	svc := newLoyaltyService(t, db)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.GrantBonus(ctx, userID, 100, "bonus"))

	err := svc.Redeem(ctx, userID, 500, "big spend")
	var domainErr *pkgerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, pkgerrors.CodeConflict, domainErr.Code())

	// balance untouched on failure
	assert.Equal(t, 100, accountFor(t, db, userID).PointsBalance)
}

func TestRedeemDebitsAndDemotes(t *testing.T) {
	db := setupLoyaltyTestDB(t)
	svc := newLoyaltyService(t, db)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.GrantBonus(ctx, userID, 2200, "bonus"))
	require.NoError(t, svc.Redeem(ctx, userID, 500, "discount voucher"))

	account := accountFor(t, db, userID)
	assert.Equal(t, 1700, account.PointsBalance)
	assert.Equal(t, enums.LoyaltyTierBronze, account.Tier)

	entries, err := svc.History(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, enums.LoyaltyEventSpend, entries[0].Type)
	assert.Equal(t, -500, entries[0].Points)
}

func TestAccountAutoCreates(t *testing.T) {
	db := setupLoyaltyTestDB(t)
	svc := newLoyaltyService(t, db)

	account, err := svc.Account(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, account.PointsBalance)
	assert.Equal(t, enums.LoyaltyTierBronze, account.Tier)
}
