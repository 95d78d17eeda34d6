package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/growwithgreen/growwithgreen-backend/pkg/db/models"
	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
	pkgerrors "github.com/growwithgreen/growwithgreen-backend/pkg/errors"
)

// Service exposes the public catalog plus the admin listing operations.
type Service interface {
	ListProducts(ctx context.Context, class enums.CustomerClass, cursor string, limit int) (ProductPage, error)
	GetProduct(ctx context.Context, class enums.CustomerClass, id uuid.UUID) (ProductView, error)
	SearchProducts(ctx context.Context, class enums.CustomerClass, query string, limit int) ([]ProductView, error)
	ListZones(ctx context.Context) ([]ZoneView, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) error
	CreateVegetable(ctx context.Context, input CreateVegetableInput) (*models.Vegetable, error)
}

// CreateProductInput carries the fields needed to publish a listing.
type CreateProductInput struct {
	VegetableID uuid.UUID
	Name        string
	Description *string
	PriceB2C    decimal.Decimal
	PriceB2B    decimal.Decimal
	ImageURL    *string
}

// UpdateProductInput carries optional listing changes. Nil fields are left untouched.
type UpdateProductInput struct {
	Name        *string
	Description *string
	PriceB2C    *decimal.Decimal
	PriceB2B    *decimal.Decimal
	ImageURL    *string
	IsActive    *bool
}

// CreateVegetableInput defines a new crop.
type CreateVegetableInput struct {
	Type            enums.VegetableType
	Description     *string
	GrowthCycleDays int
}

type service struct {
	repo *Repository
}

// NewService builds the catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, class enums.CustomerClass, cursor string, limit int) (ProductPage, error) {
	products, stock, nextCursor, err := s.repo.ListActiveProducts(ctx, cursor, limit)
	if err != nil {
		return ProductPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	items := make([]ProductView, 0, len(products))
	for i := range products {
		items = append(items, s.toView(&products[i], class, stock[products[i].ID]))
	}
	return ProductPage{Items: items, NextCursor: nextCursor}, nil
}

func (s *service) GetProduct(ctx context.Context, class enums.CustomerClass, id uuid.UUID) (ProductView, error) {
	if id == uuid.Nil {
		return ProductView{}, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ProductView{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return ProductView{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return ProductView{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	available, err := s.repo.StockForVegetable(ctx, product.VegetableID)
	if err != nil {
		return ProductView{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock")
	}
	return s.toView(product, class, available), nil
}

func (s *service) SearchProducts(ctx context.Context, class enums.CustomerClass, query string, limit int) ([]ProductView, error) {
	if strings.TrimSpace(query) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query required")
	}

	products, stock, err := s.repo.SearchActiveProducts(ctx, query, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search products")
	}

	items := make([]ProductView, 0, len(products))
	for i := range products {
		items = append(items, s.toView(&products[i], class, stock[products[i].ID]))
	}
	return items, nil
}

func (s *service) ListZones(ctx context.Context) ([]ZoneView, error) {
	zones, err := s.repo.ListActiveZones(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list delivery zones")
	}

	views := make([]ZoneView, 0, len(zones))
	for _, zone := range zones {
		views = append(views, ZoneView{
			ID:            zone.ID,
			Name:          zone.Name,
			Fee:           zone.Fee,
			EstimatedDays: zone.EstimatedDays,
		})
	}
	return views, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.VegetableID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vegetable id required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if input.PriceB2C.IsNegative() || input.PriceB2B.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices must not be negative")
	}

	if _, err := s.repo.FindVegetableByID(ctx, input.VegetableID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vegetable not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vegetable")
	}

	product := &models.Product{
		ID:          uuid.New(),
		VegetableID: input.VegetableID,
		Name:        input.Name,
		Description: input.Description,
		PriceB2C:    input.PriceB2C,
		PriceB2B:    input.PriceB2B,
		ImageURL:    input.ImageURL,
		IsActive:    true,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	if _, err := s.repo.FindProductByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.PriceB2C != nil {
		if input.PriceB2C.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		updates["price_b2c"] = *input.PriceB2C
	}
	if input.PriceB2B != nil {
		if input.PriceB2B.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		updates["price_b2b"] = *input.PriceB2B
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return nil
	}

	if err := s.repo.UpdateProduct(ctx, id, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return nil
}

func (s *service) CreateVegetable(ctx context.Context, input CreateVegetableInput) (*models.Vegetable, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid vegetable type")
	}
	if input.GrowthCycleDays <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "growth cycle must be positive")
	}

	vegetable := &models.Vegetable{
		ID:              uuid.New(),
		Type:            input.Type,
		Description:     input.Description,
		GrowthCycleDays: input.GrowthCycleDays,
	}
	if err := s.repo.CreateVegetable(ctx, vegetable); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vegetable")
	}
	return vegetable, nil
}

func (s *service) toView(product *models.Product, class enums.CustomerClass, available decimal.Decimal) ProductView {
	view := ProductView{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		UnitPrice:   UnitPriceFor(product, class),
		ImageURL:    product.ImageURL,
		AvailableKg: available,
		InStock:     available.IsPositive(),
		CreatedAt:   product.CreatedAt,
	}
	if product.Vegetable != nil {
		view.Vegetable = product.Vegetable.Type
	}
	return view
}
