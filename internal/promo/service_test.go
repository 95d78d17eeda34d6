package promo

import (
	"context"
	"testing"
	"time"

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

func setupPromoTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	promoCodes := `
CREATE TABLE IF NOT EXISTS promo_codes (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  description TEXT,
  discount_type TEXT NOT NULL,
  value NUMERIC NOT NULL,
  minimum_amount NUMERIC NOT NULL DEFAULT 0,
  starts_at DATETIME NOT NULL,
  ends_at DATETIME NOT NULL,
  max_uses INTEGER NOT NULL DEFAULT 100,
  use_count INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(promoCodes).Error)
	return db
}

func newPromoService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func seedPromo(t *testing.T, db *gorm.DB, code string, dt enums.DiscountType, value, minimum int64, startsAt, endsAt time.Time, maxUses, useCount int) *models.PromoCode {
	t.Helper()

	promo := &models.PromoCode{
		ID:            uuid.New(),
		Code:          code,
		DiscountType:  dt,
		Value:         decimal.NewFromInt(value),
		MinimumAmount: decimal.NewFromInt(minimum),
		StartsAt:      startsAt,
		EndsAt:        endsAt,
		MaxUses:       maxUses,
		UseCount:      useCount,
		IsActive:      true,
	}
	require.NoError(t, db.Create(promo).Error)
	return promo
}

func promoInvalidMessage(t *testing.T, err error) string {
	t.Helper()

	var domainErr *pkgerrors.Error
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, pkgerrors.CodePromoInvalid, domainErr.Code())
	return domainErr.Message()
}

func TestValidatePercentageDiscount(t *testing.T) {
	db := setupPromoTestDB(t)
	svc := newPromoService(t, db)
	ctx := context.Background()
	now := time.Now().UTC()

	seedPromo(t, db, "SAVE10", enums.DiscountTypePercentage, 10, 5000, now.Add(-time.Hour), now.Add(time.Hour), 100, 0)

	promo, discount, err := svc.Validate(ctx, "SAVE10", decimal.NewFromInt(10000), now)
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", promo.Code)
	assert.True(t, discount.Equal(decimal.NewFromInt(1000)))
}

func TestValidateFixedDiscountCappedAtAmount(t *testing.T) {
	db := setupPromoTestDB(t)
	svc := newPromoService(t, db)
	ctx := context.Background()
	now := time.Now().UTC()

	seedPromo(t, db, "FLAT2000", enums.DiscountTypeFixed, 2000, 0, now.Add(-time.Hour), now.Add(time.Hour), 100, 0)

	_, discount, err := svc.Validate(ctx, "FLAT2000", decimal.NewFromInt(1500), now)
	require.NoError(t, err)
	assert.True(t, discount.Equal(decimal.NewFromInt(1500)))

	_, discount, err = svc.Validate(ctx, "FLAT2000", decimal.NewFromInt(9000), now)
	require.NoError(t, err)
	assert.True(t, discount.Equal(decimal.NewFromInt(2000)))
}

func TestValidateRejectionOrder(t *testing.T) {
	db := setupPromoTestDB(t)
	svc := newPromoService(t, db)
	ctx := context.Background()
	now := time.Now().UTC()
	amount := decimal.NewFromInt(10000)

	_, _, err := svc.Validate(ctx, "NOPE", amount, now)
	assert.Equal(t, "unknown promo code", promoInvalidMessage(t, err))

	inactive := seedPromo(t, db, "OFF", enums.DiscountTypePercentage, 10, 0, now.Add(-time.Hour), now.Add(time.Hour), 100, 0)
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)
	_, _, err = svc.Validate(ctx, "OFF", amount, now)
	assert.Equal(t, "promo code is inactive", promoInvalidMessage(t, err))

	seedPromo(t, db, "SOON", enums.DiscountTypePercentage, 10, 0, now.Add(time.Hour), now.Add(2*time.Hour), 100, 0)
	_, _, err = svc.Validate(ctx, "SOON", amount, now)
	assert.Equal(t, "promo code is not yet active", promoInvalidMessage(t, err))

	seedPromo(t, db, "LATE", enums.DiscountTypePercentage, 10, 0, now.Add(-2*time.Hour), now.Add(-time.Hour), 100, 0)
	_, _, err = svc.Validate(ctx, "LATE", amount, now)
	assert.Equal(t, "promo code has expired", promoInvalidMessage(t, err))

	seedPromo(t, db, "FULL", enums.DiscountTypePercentage, 10, 0, now.Add(-time.Hour), now.Add(time.Hour), 5, 5)
	_, _, err = svc.Validate(ctx, "FULL", amount, now)
	assert.Equal(t, "promo code has been exhausted", promoInvalidMessage(t, err))

	seedPromo(t, db, "BIGMIN", enums.DiscountTypePercentage, 10, 50000, now.Add(-time.Hour), now.Add(time.Hour), 100, 0)
	_, _, err = svc.Validate(ctx, "BIGMIN", amount, now)
	assert.Equal(t, "order amount below promo minimum", promoInvalidMessage(t, err))
}

func TestValidateHasNoSideEffects(t *testing.T) {
	db := setupPromoTestDB(t)
	svc := newPromoService(t, db)
	ctx := context.Background()
	now := time.Now().UTC()

	promo := seedPromo(t, db, "SAVE10", enums.DiscountTypePercentage, 10, 0, now.Add(-time.Hour), now.Add(time.Hour), 100, 0)

	_, _, err := svc.Validate(ctx, "SAVE10", decimal.NewFromInt(10000), now)
	require.NoError(t, err)

	var stored models.PromoCode
	require.NoError(t, db.Where("id = ?", promo.ID).First(&stored).Error)
	assert.Equal(t, 0, stored.UseCount)
}

func TestRecordUsageRespectsCap(t *testing.T) {
	db := setupPromoTestDB(t)
	svc := newPromoService(t, db)
	ctx := context.Background()
	now := time.Now().UTC()

	promo := seedPromo(t, db, "LAST1", enums.DiscountTypeFixed, 500, 0, now.Add(-time.Hour), now.Add(time.Hour), 1, 0)

	require.NoError(t, svc.RecordUsage(ctx, nil, promo.ID))

	err := svc.RecordUsage(ctx, nil, promo.ID)
	assert.Equal(t, "promo code has been exhausted", promoInvalidMessage(t, err))

	var stored models.PromoCode
	require.NoError(t, db.Where("id = ?", promo.ID).First(&stored).Error)
	assert.Equal(t, 1, stored.UseCount)
}

func TestCreateNormalizesCode(t *testing.T) {
	db := setupPromoTestDB(t)
	svc := newPromoService(t, db)
	ctx := context.Background()
	now := time.Now().UTC()

	promo, err := svc.Create(ctx, CreateInput{
		Code:         "  save20 ",
		DiscountType: enums.DiscountTypePercentage,
		Value:        decimal.NewFromInt(20),
		StartsAt:     now,
		EndsAt:       now.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "SAVE20", promo.Code)
	assert.Equal(t, 100, promo.MaxUses)
}

func TestCreateRejectsOversizedPercentage(t *testing.T) {
	db := setupPromoTestDB(t)
	svc := newPromoService(t, db)
	now := time.Now().UTC()

	_, err := svc.Create(context.Background(), CreateInput{
		Code:         "TOOBIG",
		DiscountType: enums.DiscountTypePercentage,
		Value:        decimal.NewFromInt(150),
		StartsAt:     now,
		EndsAt:       now.Add(time.Hour),
	})
	var domainErr *pkgerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, pkgerrors.CodeValidation, domainErr.Code())
}
