package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/growwithgreen/growwithgreen-backend/internal/catalog"
	"github.com/growwithgreen/growwithgreen-backend/pkg/db"
	"github.com/growwithgreen/growwithgreen-backend/pkg/db/models"
	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
	pkgerrors "github.com/growwithgreen/growwithgreen-backend/pkg/errors"
	"github.com/growwithgreen/growwithgreen-backend/pkg/logger"
)

const (
	orderNumberPrefix   = "GWG-"
	orderNumberAttempts = 3
)

// Service drives the order lifecycle from checkout to delivery.
type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (CheckoutResult, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	GetByNumber(ctx context.Context, number string) (*models.Order, error)
	List(ctx context.Context, userID uuid.UUID, cursor string, limit int) (Page, error)
	ListAll(ctx context.Context, status *enums.OrderStatus, cursor string, limit int) (Page, error)
	MarkPaid(ctx context.Context, orderID uuid.UUID) error
	Confirm(ctx context.Context, orderID uuid.UUID) error
	Prepare(ctx context.Context, orderID uuid.UUID) error
	Ship(ctx context.Context, orderID uuid.UUID) error
	Deliver(ctx context.Context, orderID uuid.UUID) error
	Cancel(ctx context.Context, orderID uuid.UUID) error
}

type service struct {
	repo     Repository
	tx       txRunner
	carts    cartStore
	zones    zoneStore
	promos   promoEngine
	stock    stockLedger
	loyalty  loyaltyAwarder
	notifier Notifier
	mailer   Mailer
	logg     *logger.Logger
}

// NewService builds the order service with its collaborators.
func NewService(
	repo Repository,
	tx txRunner,
	carts cartStore,
	zones zoneStore,
	promos promoEngine,
	stockLedger stockLedger,
	loyalty loyaltyAwarder,
	notifier Notifier,
	mailer Mailer,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if zones == nil {
		return nil, fmt.Errorf("zone store required")
	}
	if promos == nil {
		return nil, fmt.Errorf("promo engine required")
	}
	if stockLedger == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	if loyalty == nil {
		return nil, fmt.Errorf("loyalty awarder required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if mailer == nil {
		return nil, fmt.Errorf("mailer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		carts:    carts,
		zones:    zones,
		promos:   promos,
		stock:    stockLedger,
		loyalty:  loyalty,
		notifier: notifier,
		mailer:   mailer,
		logg:     logg,
	}, nil
}

func newOrderNumber() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return orderNumberPrefix + strings.ToUpper(raw[:8])
}

func priceLines(lines []models.CartLine, class enums.CustomerClass) []pricedLine {
	priced := make([]pricedLine, 0, len(lines))
	for i := range lines {
		product := lines[i].Product
		if product == nil || !product.IsActive {
			continue
		}
		unitPrice := catalog.UnitPriceFor(product, class)
		priced = append(priced, pricedLine{
			productID:   product.ID,
			vegetableID: product.VegetableID,
			name:        product.Name,
			quantityKg:  lines[i].QuantityKg,
			unitPrice:   unitPrice,
			lineTotal:   unitPrice.Mul(lines[i].QuantityKg),
		})
	}
	return priced
}

func (s *service) Checkout(ctx context.Context, input CheckoutInput) (CheckoutResult, error) {
	if input.UserID == uuid.Nil {
		return CheckoutResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.CustomerClass.IsValid() {
		return CheckoutResult{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid customer class")
	}
	if !input.PaymentMethod.IsValid() {
		return CheckoutResult{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if input.DeliveryZoneID == uuid.Nil {
		return CheckoutResult{}, pkgerrors.New(pkgerrors.CodeValidation, "delivery zone required")
	}
	if strings.TrimSpace(input.DeliveryAddress) == "" {
		return CheckoutResult{}, pkgerrors.New(pkgerrors.CodeValidation, "delivery address required")
	}
	if strings.TrimSpace(input.DeliveryPhone) == "" {
		return CheckoutResult{}, pkgerrors.New(pkgerrors.CodeValidation, "delivery phone required")
	}

	cart, err := s.carts.FindOrCreateByUser(ctx, input.UserID)
	if err != nil {
		return CheckoutResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	lines, err := s.carts.ListLines(ctx, cart.ID)
	if err != nil {
		return CheckoutResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart lines")
	}

	priced := priceLines(lines, input.CustomerClass)
	if len(priced) == 0 {
		return CheckoutResult{}, pkgerrors.New(pkgerrors.CodeCartEmpty, "cart is empty")
	}

	cartTotal := decimal.Zero
	for _, line := range priced {
		cartTotal = cartTotal.Add(line.lineTotal)
	}

	zone, err := s.zones.FindZoneByID(ctx, input.DeliveryZoneID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return CheckoutResult{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery zone")
		}
		return CheckoutResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery zone")
	}
	if !zone.IsActive {
		return CheckoutResult{}, pkgerrors.New(pkgerrors.CodeValidation, "delivery zone is not served")
	}

	now := time.Now().UTC()
	discount := decimal.Zero
	warning := ""
	var promoID *uuid.UUID
	if strings.TrimSpace(input.PromoCode) != "" {
		promo, promoDiscount, err := s.promos.Validate(ctx, input.PromoCode, cartTotal, now)
		if err != nil {
			domainErr := pkgerrors.As(err)
			if domainErr == nil || domainErr.Code() != pkgerrors.CodePromoInvalid {
				return CheckoutResult{}, err
			}
			warning = domainErr.Message()
		} else {
			id := promo.ID
			promoID = &id
			discount = promoDiscount
		}
	}

	var order *models.Order
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order = s.buildOrder(input, cart.ID, zone, cartTotal, discount, promoID)

		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)

			if order.PromoCodeID != nil {
				if err := s.promos.RecordUsage(ctx, tx, *order.PromoCodeID); err != nil {
					domainErr := pkgerrors.As(err)
					if domainErr == nil || domainErr.Code() != pkgerrors.CodePromoInvalid {
						return err
					}
					// lost the race for the last usage slot, fall back to full price
					warning = domainErr.Message()
					order.PromoCodeID = nil
					order.DiscountAmount = decimal.Zero
					order.ProductAmount = cartTotal
					order.TotalAmount = cartTotal.Add(zone.Fee)
				}
			}

			if err := repo.CreateOrder(ctx, order); err != nil {
				return err
			}

			orderLines := make([]models.OrderLine, 0, len(priced))
			for _, line := range priced {
				orderLines = append(orderLines, models.OrderLine{
					ID:          uuid.New(),
					OrderID:     order.ID,
					ProductID:   line.productID,
					VegetableID: line.vegetableID,
					ProductName: line.name,
					QuantityKg:  line.quantityKg,
					UnitPrice:   line.unitPrice,
					LineTotal:   line.lineTotal,
				})
			}
			if err := repo.CreateLines(ctx, orderLines); err != nil {
				return err
			}
			order.Lines = orderLines

			if err := s.carts.DeleteAllLines(ctx, tx, cart.ID); err != nil {
				return err
			}

			return s.loyalty.AwardForOrder(ctx, tx, input.UserID, order.ID, order.TotalAmount)
		})
		if err == nil {
			break
		}
		if db.IsUniqueViolation(err, "") && attempt < orderNumberAttempts-1 {
			continue
		}
		if pkgerrors.As(err) != nil {
			return CheckoutResult{}, err
		}
		return CheckoutResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	if err != nil {
		return CheckoutResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	s.afterCheckout(ctx, order)

	return CheckoutResult{Order: order, PromoWarning: warning}, nil
}

func (s *service) buildOrder(input CheckoutInput, cartID uuid.UUID, zone *models.DeliveryZone, cartTotal, discount decimal.Decimal, promoID *uuid.UUID) *models.Order {
	productAmount := cartTotal.Sub(discount)
	if productAmount.IsNegative() {
		productAmount = decimal.Zero
	}
	zoneID := zone.ID

	return &models.Order{
		ID:              uuid.New(),
		Number:          newOrderNumber(),
		UserID:          input.UserID,
		Status:          enums.OrderStatusPending,
		PaymentMethod:   input.PaymentMethod,
		ProductAmount:   productAmount,
		DeliveryFee:     zone.Fee,
		TotalAmount:     productAmount.Add(zone.Fee),
		DiscountAmount:  discount,
		PromoCodeID:     promoID,
		DeliveryZoneID:  &zoneID,
		DeliveryAddress: strings.TrimSpace(input.DeliveryAddress),
		DeliveryPhone:   strings.TrimSpace(input.DeliveryPhone),
		Notes:           input.Notes,
	}
}

// afterCheckout records the in-app notification and sends the order
// confirmation email. Both are best-effort, the order stands either way.
func (s *service) afterCheckout(ctx context.Context, order *models.Order) {
	s.notifyTransition(ctx, order, enums.NotificationKindOrder, "Order received",
		fmt.Sprintf("Your order %s has been received and is awaiting payment.", order.Number),
		s.mailer.OrderConfirmation)
}

func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}

	order, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, cursor string, limit int) (Page, error) {
	if userID == uuid.Nil {
		return Page{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	orders, nextCursor, err := s.repo.ListByUser(ctx, userID, cursor, limit)
	if err != nil {
		return Page{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return Page{Orders: orders, NextCursor: nextCursor}, nil
}

func (s *service) ListAll(ctx context.Context, status *enums.OrderStatus, cursor string, limit int) (Page, error) {
	if status != nil && !status.IsValid() {
		return Page{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	orders, nextCursor, err := s.repo.ListAll(ctx, status, cursor, limit)
	if err != nil {
		return Page{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return Page{Orders: orders, NextCursor: nextCursor}, nil
}

func (s *service) MarkPaid(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.PaymentConfirmed {
		return nil
	}

	updated, err := s.repo.SetPaymentConfirmed(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order paid")
	}
	if !updated {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "payment can only be confirmed while pending")
	}
	return nil
}

// Confirm moves a paid pending order to confirmed and debits the stock
// ledger for every line. A vegetable without a ledger row is skipped.
func (s *service) Confirm(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status != enums.OrderStatusPending {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending orders can be confirmed")
	}
	if !order.PaymentConfirmed {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "payment must be confirmed first")
	}

	now := time.Now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		moved, err := repo.UpdateStatusGuarded(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusConfirmed, map[string]any{"confirmed_at": now})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm order")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending orders can be confirmed")
		}

		for _, line := range order.Lines {
			if err := s.stock.Remove(ctx, tx, line.VegetableID, line.QuantityKg); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	order.Status = enums.OrderStatusConfirmed
	s.notifyTransition(ctx, order, enums.NotificationKindOrder, "Order confirmed",
		fmt.Sprintf("Your order %s has been confirmed and will be prepared shortly.", order.Number),
		nil)
	return nil
}

func (s *service) Prepare(ctx context.Context, orderID uuid.UUID) error {
	return s.transition(ctx, orderID, enums.OrderStatusConfirmed, enums.OrderStatusPreparing, nil)
}

func (s *service) Ship(ctx context.Context, orderID uuid.UUID) error {
	now := time.Now().UTC()
	err := s.transition(ctx, orderID, enums.OrderStatusPreparing, enums.OrderStatusShipped, map[string]any{"shipped_at": now})
	if err != nil {
		return err
	}

	if order, loadErr := s.repo.FindByID(ctx, orderID); loadErr == nil {
		s.notifyTransition(ctx, order, enums.NotificationKindDelivery, "Order shipped",
			fmt.Sprintf("Your order %s is on its way.", order.Number),
			s.mailer.OrderShipped)
	}
	return nil
}

func (s *service) Deliver(ctx context.Context, orderID uuid.UUID) error {
	now := time.Now().UTC()
	err := s.transition(ctx, orderID, enums.OrderStatusShipped, enums.OrderStatusDelivered, map[string]any{"delivered_at": now})
	if err != nil {
		return err
	}

	if order, loadErr := s.repo.FindByID(ctx, orderID); loadErr == nil {
		s.notifyTransition(ctx, order, enums.NotificationKindDelivery, "Order delivered",
			fmt.Sprintf("Your order %s has been delivered. Enjoy!", order.Number),
			s.mailer.OrderDelivered)
	}
	return nil
}

// Cancel aborts a pending or confirmed order. Stock debited at
// confirmation is credited back.
func (s *service) Cancel(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.Status.CanTransitionTo(enums.OrderStatusCancelled) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled")
	}

	now := time.Now().UTC()
	wasConfirmed := order.Status == enums.OrderStatusConfirmed

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		moved, err := repo.UpdateStatusGuarded(ctx, order.ID, order.Status, enums.OrderStatusCancelled, map[string]any{"cancelled_at": now})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled")
		}

		if wasConfirmed {
			for _, line := range order.Lines {
				if err := s.stock.Add(ctx, tx, line.VegetableID, line.QuantityKg); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (s *service) transition(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus, stamps map[string]any) error {
	if _, err := s.loadOrder(ctx, orderID); err != nil {
		return err
	}

	moved, err := s.repo.UpdateStatusGuarded(ctx, orderID, from, to, stamps)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	if !moved {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order must be %s to become %s", from, to))
	}
	return nil
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// notifyTransition records the in-app notification and, when send is
// non-nil, emails the customer. Failures are logged, never surfaced.
func (s *service) notifyTransition(ctx context.Context, order *models.Order, kind enums.NotificationKind, title, body string, send func(context.Context, *models.User, *models.Order) error) {
	orderID := order.ID
	if err := s.notifier.Notify(ctx, order.UserID, kind, title, body, &orderID); err != nil {
		s.logg.Error(s.logg.WithOrderNumber(ctx, order.Number), "record order notification", err)
	}
	if send == nil {
		return
	}

	user, err := s.repo.FindUser(ctx, order.UserID)
	if err != nil {
		s.logg.Error(s.logg.WithOrderNumber(ctx, order.Number), "load user for order email", err)
		return
	}
	if err := send(ctx, user, order); err != nil {
		s.logg.Error(s.logg.WithOrderNumber(ctx, order.Number), "send order email", err)
	}
}
