package reviews

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

type stubProductStore struct {
	db *gorm.DB
}

func (s stubProductStore) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func setupReviewsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
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
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  number TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT NOT NULL,
  payment_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
  product_amount NUMERIC NOT NULL DEFAULT 0,
  delivery_fee NUMERIC NOT NULL DEFAULT 0,
  discount_amount NUMERIC NOT NULL DEFAULT 0,
  total_amount NUMERIC NOT NULL DEFAULT 0,
  delivery_address TEXT NOT NULL DEFAULT '',
  delivery_phone TEXT NOT NULL DEFAULT '',
  notes TEXT,
  promo_code_id TEXT,
  delivery_zone_id TEXT,
  confirmed_at DATETIME,
  shipped_at DATETIME,
  delivered_at DATETIME,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_lines (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  vegetable_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  quantity_kg NUMERIC NOT NULL,
  unit_price NUMERIC NOT NULL,
  line_total NUMERIC NOT NULL,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS reviews (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  rating INTEGER NOT NULL,
  title TEXT,
  body TEXT NOT NULL,
  is_verified_purchase BOOLEAN NOT NULL DEFAULT FALSE,
  helpful_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (product_id, user_id)
);`,
		`CREATE TABLE IF NOT EXISTS review_votes (
  id TEXT PRIMARY KEY,
  review_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (review_id, user_id)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newReviewsService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(db), stubProductStore{db: db}, gormTxRunner{db: db})
	require.NoError(t, err)
	return svc
}

func seedProduct(t *testing.T, db *gorm.DB) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:          uuid.New(),
		VegetableID: uuid.New(),
		Name:        "Fresh Okra",
		PriceB2C:    decimal.NewFromInt(1200),
		PriceB2B:    decimal.NewFromInt(1000),
		IsActive:    true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedDeliveredOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, productID uuid.UUID) {
	t.Helper()

	order := &models.Order{
		ID:            uuid.New(),
		Number:        "GWG-" + uuid.NewString()[:8],
		UserID:        userID,
		Status:        enums.OrderStatusDelivered,
		PaymentMethod: enums.PaymentMethodOrangeMoney,
	}
	require.NoError(t, db.Create(order).Error)

	line := &models.OrderLine{
		ID:          uuid.New(),
		OrderID:     order.ID,
		ProductID:   productID,
		VegetableID: uuid.New(),
		ProductName: "Fresh Okra",
		QuantityKg:  decimal.NewFromInt(2),
		UnitPrice:   decimal.NewFromInt(1200),
		LineTotal:   decimal.NewFromInt(2400),
	}
	require.NoError(t, db.Create(line).Error)
}

func TestCreateReviewUnverified(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewsService(t, db)
	product := seedProduct(t, db)

	review, err := svc.Create(context.Background(), CreateInput{
		UserID:    uuid.New(),
		ProductID: product.ID,
		Rating:    4,
		Title:     "Good",
		Body:      "Crisp and fresh.",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)
	assert.False(t, review.IsVerifiedPurchase)
}

func TestCreateReviewVerifiedPurchase(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewsService(t, db)
	product := seedProduct(t, db)
	userID := uuid.New()
	seedDeliveredOrder(t, db, userID, product.ID)

	review, err := svc.Create(context.Background(), CreateInput{
		UserID:    userID,
		ProductID: product.ID,
		Rating:    5,
		Body:      "Arrived in great condition.",
	})
	require.NoError(t, err)
	assert.True(t, review.IsVerifiedPurchase)
}

func TestCreateReviewDuplicateRejected(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewsService(t, db)
	product := seedProduct(t, db)
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{UserID: userID, ProductID: product.ID, Rating: 5, Body: "Great."})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{UserID: userID, ProductID: product.ID, Rating: 2, Body: "Changed my mind."})
	var domainErr *pkgerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, pkgerrors.CodeConflict, domainErr.Code())
}

func TestCreateReviewValidation(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewsService(t, db)
	product := seedProduct(t, db)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{UserID: uuid.New(), ProductID: product.ID, Rating: 6, Body: "Too good."})
	var domainErr *pkgerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, pkgerrors.CodeValidation, domainErr.Code())

	_, err = svc.Create(ctx, CreateInput{UserID: uuid.New(), ProductID: product.ID, Rating: 3})
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, pkgerrors.CodeValidation, domainErr.Code())

	_, err = svc.Create(ctx, CreateInput{UserID: uuid.New(), ProductID: uuid.New(), Rating: 3, Body: "Unknown product."})
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, pkgerrors.CodeNotFound, domainErr.Code())
}

func TestListForProductAggregates(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewsService(t, db)
	product := seedProduct(t, db)
	ctx := context.Background()

	for _, rating := range []int{5, 4, 3} {
		_, err := svc.Create(ctx, CreateInput{
			UserID:    uuid.New(),
			ProductID: product.ID,
			Rating:    rating,
			Body:      "Review body.",
		})
		require.NoError(t, err)
	}

	page, err := svc.ListForProduct(ctx, product.ID, 10)
	require.NoError(t, err)
	assert.Len(t, page.Reviews, 3)
	assert.Equal(t, int64(3), page.ReviewCount)
	assert.InDelta(t, 4.0, page.AverageRating, 0.001)
}

func TestToggleHelpfulVote(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewsService(t, db)
	product := seedProduct(t, db)
	ctx := context.Background()

	review, err := svc.Create(ctx, CreateInput{UserID: uuid.New(), ProductID: product.ID, Rating: 5, Body: "Great."})
	require.NoError(t, err)
	voterID := uuid.New()

	voted, err := svc.ToggleHelpful(ctx, review.ID, voterID)
	require.NoError(t, err)
	assert.True(t, voted)

	stored, err := NewRepository(db).FindByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.HelpfulCount)

	voted, err = svc.ToggleHelpful(ctx, review.ID, voterID)
	require.NoError(t, err)
	assert.False(t, voted)

	stored, err = NewRepository(db).FindByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.HelpfulCount)
}

func TestToggleHelpfulUnknownReview(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewsService(t, db)

	_, err := svc.ToggleHelpful(context.Background(), uuid.New(), uuid.New())
	var domainErr *pkgerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, pkgerrors.CodeNotFound, domainErr.Code())
}

func TestDeleteReviewOwnership(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewsService(t, db)
	product := seedProduct(t, db)
	ctx := context.Background()
	ownerID := uuid.New()

	review, err := svc.Create(ctx, CreateInput{UserID: ownerID, ProductID: product.ID, Rating: 5, Body: "Great."})
	require.NoError(t, err)

	err = svc.Delete(ctx, review.ID, uuid.New())
	var domainErr *pkgerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, pkgerrors.CodeNotFound, domainErr.Code())

	require.NoError(t, svc.Delete(ctx, review.ID, ownerID))

	_, err = NewRepository(db).FindByID(ctx, review.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
