package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/growwithgreen/growwithgreen-backend/pkg/db/models"
	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
)

// Repository defines order persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateLines(ctx context.Context, lines []models.OrderLine) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByNumber(ctx context.Context, number string) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]models.Order, string, error)
	ListAll(ctx context.Context, status *enums.OrderStatus, cursor string, limit int) ([]models.Order, string, error)
	// UpdateStatusGuarded moves an order between statuses with the old
	// status enforced in the update itself. stamps are extra columns set
	// alongside the transition.
	UpdateStatusGuarded(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus, stamps map[string]any) (bool, error)
	SetPaymentConfirmed(ctx context.Context, id uuid.UUID) (bool, error)
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartStore interface {
	FindOrCreateByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	ListLines(ctx context.Context, cartID uuid.UUID) ([]models.CartLine, error)
	DeleteAllLines(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error
}

type zoneStore interface {
	FindZoneByID(ctx context.Context, id uuid.UUID) (*models.DeliveryZone, error)
}

type promoEngine interface {
	Validate(ctx context.Context, code string, amount decimal.Decimal, now time.Time) (*models.PromoCode, decimal.Decimal, error)
	RecordUsage(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type stockLedger interface {
	Add(ctx context.Context, tx *gorm.DB, vegetableID uuid.UUID, qty decimal.Decimal) error
	Remove(ctx context.Context, tx *gorm.DB, vegetableID uuid.UUID, qty decimal.Decimal) error
}

type loyaltyAwarder interface {
	AwardForOrder(ctx context.Context, tx *gorm.DB, userID, orderID uuid.UUID, amount decimal.Decimal) error
}

// Notifier records an in-app notification for a user.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationKind, title, body string, orderID *uuid.UUID) error
}

// Mailer sends the order lifecycle emails.
type Mailer interface {
	OrderConfirmation(ctx context.Context, user *models.User, order *models.Order) error
	OrderShipped(ctx context.Context, user *models.User, order *models.Order) error
	OrderDelivered(ctx context.Context, user *models.User, order *models.Order) error
}
