package catalog

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

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	vegetables := `
CREATE TABLE IF NOT EXISTS vegetables (
  id TEXT PRIMARY KEY,
  type TEXT NOT NULL,
  description TEXT,
  growth_cycle_days INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  vegetable_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  price_b2c NUMERIC NOT NULL,
  price_b2b NUMERIC NOT NULL,
  image_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	stockEntries := `
CREATE TABLE IF NOT EXISTS stock_entries (
  id TEXT PRIMARY KEY,
  vegetable_id TEXT NOT NULL,
  quantity_kg NUMERIC NOT NULL DEFAULT 0,
  alert_threshold_kg NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	zones := `
CREATE TABLE IF NOT EXISTS delivery_zones (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  fee NUMERIC NOT NULL,
  estimated_days INTEGER NOT NULL DEFAULT 1,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(vegetables).Error)
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(stockEntries).Error)
	require.NoError(t, db.Exec(zones).Error)
	return db
}

func newVegetable(t *testing.T, db *gorm.DB, vt enums.VegetableType) *models.Vegetable {
	t.Helper()

	vegetable := &models.Vegetable{
		ID:              uuid.New(),
		Type:            vt,
		GrowthCycleDays: 60,
	}
	require.NoError(t, db.Create(vegetable).Error)
	return vegetable
}

func newProduct(t *testing.T, db *gorm.DB, vegetableID uuid.UUID, name string, b2c, b2b int64, active bool, created time.Time) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:          uuid.New(),
		VegetableID: vegetableID,
		Name:        name,
		PriceB2C:    decimal.NewFromInt(b2c),
		PriceB2B:    decimal.NewFromInt(b2b),
		IsActive:    active,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	require.NoError(t, db.Create(product).Error)
	if !active {
		// gorm skips zero-valued fields that carry a column default
		require.NoError(t, db.Model(product).Update("is_active", false).Error)
	}
	return product
}

func TestListProductsResolvesPriceAndStock(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	okra := newVegetable(t, db, enums.VegetableTypeOkra)
	squash := newVegetable(t, db, enums.VegetableTypeSquash)
	now := time.Now().UTC()

	newProduct(t, db, okra.ID, "Fresh okra", 1500, 1200, true, now.Add(-time.Hour))
	newProduct(t, db, squash.ID, "Butternut squash", 900, 700, true, now)
	newProduct(t, db, squash.ID, "Retired squash", 900, 700, false, now)

	require.NoError(t, db.Create(&models.StockEntry{
		ID:          uuid.New(),
		VegetableID: okra.ID,
		QuantityKg:  decimal.NewFromInt(25),
	}).Error)

	page, err := svc.ListProducts(ctx, enums.CustomerClassBusiness, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Empty(t, page.NextCursor)

	// newest first
	assert.Equal(t, "Butternut squash", page.Items[0].Name)
	assert.True(t, page.Items[0].UnitPrice.Equal(decimal.NewFromInt(700)))
	assert.False(t, page.Items[0].InStock)
	assert.True(t, page.Items[0].AvailableKg.IsZero())

	assert.Equal(t, "Fresh okra", page.Items[1].Name)
	assert.True(t, page.Items[1].UnitPrice.Equal(decimal.NewFromInt(1200)))
	assert.True(t, page.Items[1].InStock)
	assert.True(t, page.Items[1].AvailableKg.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, enums.VegetableTypeOkra, page.Items[1].Vegetable)
}

func TestListProductsPaginates(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	okra := newVegetable(t, db, enums.VegetableTypeOkra)
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		newProduct(t, db, okra.ID, "Okra batch", 1000, 800, true, base.Add(time.Duration(i)*time.Minute))
	}

	first, err := svc.ListProducts(ctx, enums.CustomerClassConsumer, "", 2)
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.ListProducts(ctx, enums.CustomerClassConsumer, first.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Empty(t, second.NextCursor)
}

func TestSearchProductsMatchesNameAndVegetable(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	okra := newVegetable(t, db, enums.VegetableTypeOkra)
	squash := newVegetable(t, db, enums.VegetableTypeSquash)
	now := time.Now().UTC()

	newProduct(t, db, okra.ID, "Fresh okra", 1500, 1200, true, now)
	newProduct(t, db, squash.ID, "Butternut box", 900, 700, true, now)
	newProduct(t, db, squash.ID, "Retired squash", 900, 700, false, now)

	items, err := svc.SearchProducts(ctx, enums.CustomerClassConsumer, "OKRA", 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Fresh okra", items[0].Name)
	assert.True(t, items[0].UnitPrice.Equal(decimal.NewFromInt(1500)))

	// vegetable type matches even when the name does not mention it
	items, err = svc.SearchProducts(ctx, enums.CustomerClassConsumer, "squash", 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Butternut box", items[0].Name)

	_, err = svc.SearchProducts(ctx, enums.CustomerClassConsumer, "  ", 10)
	var domainErr *pkgerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, pkgerrors.CodeValidation, domainErr.Code())
}

func TestGetProductConsumerPriceAndMissingStock(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	squash := newVegetable(t, db, enums.VegetableTypeSquash)
	product := newProduct(t, db, squash.ID, "Butternut squash", 900, 700, true, time.Now().UTC())

	view, err := svc.GetProduct(ctx, enums.CustomerClassConsumer, product.ID)
	require.NoError(t, err)
	assert.True(t, view.UnitPrice.Equal(decimal.NewFromInt(900)))
	assert.True(t, view.AvailableKg.IsZero())
	assert.False(t, view.InStock)
}

func TestGetProductHidesInactive(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	squash := newVegetable(t, db, enums.VegetableTypeSquash)
	product := newProduct(t, db, squash.ID, "Retired squash", 900, 700, false, time.Now().UTC())

	_, err = svc.GetProduct(ctx, enums.CustomerClassConsumer, product.ID)
	var domainErr *pkgerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, pkgerrors.CodeNotFound, domainErr.Code())
}

func TestListZonesSkipsInactive(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.DeliveryZone{
		ID:   uuid.New(),
		Name: "Cocody",
		Fee:  decimal.NewFromInt(1000),
	}).Error)
	inactive := &models.DeliveryZone{
		ID:   uuid.New(),
		Name: "Bingerville",
		Fee:  decimal.NewFromInt(2000),
	}
	require.NoError(t, db.Create(inactive).Error)
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	zones, err := svc.ListZones(ctx)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "Cocody", zones[0].Name)
}
