package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/growwithgreen/growwithgreen-backend/internal/catalog"
	"github.com/growwithgreen/growwithgreen-backend/internal/wishlist"
	pkgauth "github.com/growwithgreen/growwithgreen-backend/pkg/auth"
	"github.com/growwithgreen/growwithgreen-backend/pkg/config"
	"github.com/growwithgreen/growwithgreen-backend/pkg/db/models"
	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
	"github.com/growwithgreen/growwithgreen-backend/pkg/logger"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

func setupRouterTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS vegetables (
  id TEXT PRIMARY KEY,
  type TEXT NOT NULL UNIQUE,
  description TEXT,
  growth_cycle_days INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  vegetable_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  price_b2c NUMERIC NOT NULL DEFAULT 0,
  price_b2b NUMERIC NOT NULL DEFAULT 0,
  image_url TEXT,
  is_active BOOLEAN NOT NULL DEFAULT TRUE,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS stock_entries (
  id TEXT PRIMARY KEY,
  vegetable_id TEXT NOT NULL UNIQUE,
  quantity_kg NUMERIC NOT NULL DEFAULT 0,
  alert_threshold_kg NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS wishlist_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, product_id)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newTestDeps(t *testing.T, db *gorm.DB) Deps {
	t.Helper()

	catalogRepo := catalog.NewRepository(db)
	catalogSvc, err := catalog.NewService(catalogRepo)
	require.NoError(t, err)
	wishlistSvc, err := wishlist.NewService(wishlist.NewRepository(db), catalogRepo)
	require.NoError(t, err)

	return Deps{
		Config: &config.Config{
			JWT: config.JWTConfig{
				Secret:            "router-test-secret",
				Issuer:            "growwithgreen-test",
				ExpirationMinutes: 15,
			},
		},
		Logger:      logger.New(logger.Options{Level: zerolog.Disabled}),
		DB:          stubPinger{},
		RedisPinger: stubPinger{},
		Catalog:     catalogSvc,
		Wishlist:    wishlistSvc,
	}
}

func seedRouterProduct(t *testing.T, db *gorm.DB) *models.Product {
	t.Helper()

	vegetable := &models.Vegetable{
		ID:              uuid.New(),
		Type:            enums.VegetableTypeOkra,
		GrowthCycleDays: 55,
	}
	require.NoError(t, db.Create(vegetable).Error)

	product := &models.Product{
		ID:          uuid.New(),
		VegetableID: vegetable.ID,
		Name:        "Fresh Okra",
		PriceB2C:    decimal.NewFromInt(1500),
		PriceB2B:    decimal.NewFromInt(1200),
		IsActive:    true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func mintTestToken(t *testing.T, deps Deps, userID uuid.UUID, class enums.CustomerClass) string {
	t.Helper()

	token, err := pkgauth.MintAccessToken(deps.Config.JWT, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID:        userID,
		CustomerClass: class,
		JTI:           uuid.NewString(),
	})
	require.NoError(t, err)
	return token
}

func TestHealthEndpoints(t *testing.T) {
	db := setupRouterTestDB(t)
	deps := newTestDeps(t, db)
	router := NewRouter(deps)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	deps.DB = stubPinger{err: errors.New("connection refused")}
	router = NewRouter(deps)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPublicCatalogServesProducts(t *testing.T) {
	db := setupRouterTestDB(t)
	deps := newTestDeps(t, db)
	seedRouterProduct(t, db)
	router := NewRouter(deps)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/catalog/products", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Data struct {
			Items []struct {
				Name      string          `json:"name"`
				UnitPrice decimal.Decimal `json:"unit_price"`
			} `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Data.Items, 1)
	assert.Equal(t, "Fresh Okra", payload.Data.Items[0].Name)
	assert.True(t, payload.Data.Items[0].UnitPrice.Equal(decimal.NewFromInt(1500)))
}

func TestAuthenticatedWishlistFlow(t *testing.T) {
	db := setupRouterTestDB(t)
	deps := newTestDeps(t, db)
	product := seedRouterProduct(t, db)
	router := NewRouter(deps)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/wishlist", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := mintTestToken(t, deps, uuid.New(), enums.CustomerClassConsumer)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/wishlist/"+product.ID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/wishlist", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), product.ID.String())
}

func TestAdminRoutesRequireAdminClass(t *testing.T) {
	db := setupRouterTestDB(t)
	deps := newTestDeps(t, db)
	router := NewRouter(deps)

	token := mintTestToken(t, deps, uuid.New(), enums.CustomerClassConsumer)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
