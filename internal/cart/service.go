package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/growwithgreen/growwithgreen-backend/internal/catalog"
	"github.com/growwithgreen/growwithgreen-backend/pkg/db/models"
	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
	pkgerrors "github.com/growwithgreen/growwithgreen-backend/pkg/errors"
)

// LineView is one priced cart line. The unit price reflects the
// requesting user's customer class at read time.
type LineView struct {
	ProductID  uuid.UUID       `json:"product_id"`
	Name       string          `json:"name"`
	QuantityKg decimal.Decimal `json:"quantity_kg"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

// View is the priced cart.
type View struct {
	CartID uuid.UUID       `json:"cart_id"`
	Lines  []LineView      `json:"lines"`
	Total  decimal.Decimal `json:"total"`
}

// StockReader reports the sellable quantity for a vegetable.
type StockReader interface {
	Available(ctx context.Context, vegetableID uuid.UUID) (decimal.Decimal, error)
}

// Service exposes cart operations.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID, class enums.CustomerClass) (View, error)
	AddItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID, qty decimal.Decimal) error
	SetItemQuantity(ctx context.Context, userID uuid.UUID, productID uuid.UUID, qty decimal.Decimal) error
	RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo    *Repository
	catalog *catalog.Repository
	stock   StockReader
}

// NewService builds the cart service.
func NewService(repo *Repository, catalogRepo *catalog.Repository, stock StockReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock reader required")
	}
	return &service{repo: repo, catalog: catalogRepo, stock: stock}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID, class enums.CustomerClass) (View, error) {
	if userID == uuid.Nil {
		return View{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	cart, err := s.repo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	lines, err := s.repo.ListLines(ctx, cart.ID)
	if err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart lines")
	}

	return BuildView(cart.ID, lines, class), nil
}

// BuildView prices raw cart lines for a customer class. Lines whose
// product has been deactivated or deleted are skipped rather than
// priced stale.
func BuildView(cartID uuid.UUID, lines []models.CartLine, class enums.CustomerClass) View {
	view := View{CartID: cartID, Lines: []LineView{}, Total: decimal.Zero}
	for i := range lines {
		product := lines[i].Product
		if product == nil || !product.IsActive {
			continue
		}
		unitPrice := catalog.UnitPriceFor(product, class)
		lineTotal := unitPrice.Mul(lines[i].QuantityKg)
		view.Lines = append(view.Lines, LineView{
			ProductID:  product.ID,
			Name:       product.Name,
			QuantityKg: lines[i].QuantityKg,
			UnitPrice:  unitPrice,
			LineTotal:  lineTotal,
		})
		view.Total = view.Total.Add(lineTotal)
	}
	return view
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID, qty decimal.Decimal) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if !qty.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.catalog.FindProductByID(ctx, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	cart, err := s.repo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	existing, err := s.repo.LineQuantity(ctx, cart.ID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	if err := s.checkStock(ctx, product, existing.Add(qty)); err != nil {
		return err
	}

	if err := s.repo.UpsertLine(ctx, cart.ID, productID, qty); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart line")
	}
	return nil
}

// checkStock rejects a cart quantity the ledger cannot cover.
func (s *service) checkStock(ctx context.Context, product *models.Product, wantKg decimal.Decimal) error {
	available, err := s.stock.Available(ctx, product.VegetableID)
	if err != nil {
		return err
	}
	if wantKg.GreaterThan(available) {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock,
			fmt.Sprintf("only %s kg of %s available", available.String(), product.Name)).
			WithDetails(map[string]any{
				"available_kg": available,
				"requested_kg": wantKg,
			})
	}
	return nil
}

func (s *service) SetItemQuantity(ctx context.Context, userID uuid.UUID, productID uuid.UUID, qty decimal.Decimal) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if !qty.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.catalog.FindProductByID(ctx, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	cart, err := s.repo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	existing, err := s.repo.LineQuantity(ctx, cart.ID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	if existing.IsZero() {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	if err := s.checkStock(ctx, product, qty); err != nil {
		return err
	}

	updated, err := s.repo.SetLineQuantity(ctx, cart.ID, productID, qty)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}
	if !updated {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	return nil
}

func (s *service) RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	cart, err := s.repo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	if err := s.repo.DeleteLine(ctx, cart.ID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	return nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	cart, err := s.repo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	if err := s.repo.DeleteAllLines(ctx, nil, cart.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
