package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/growwithgreen/growwithgreen-backend/pkg/db/models"
	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
)

// CheckoutInput carries everything needed to turn a cart into an order.
type CheckoutInput struct {
	UserID          uuid.UUID
	CustomerClass   enums.CustomerClass
	PaymentMethod   enums.PaymentMethod
	DeliveryZoneID  uuid.UUID
	DeliveryAddress string
	DeliveryPhone   string
	Notes           *string
	PromoCode       string
}

// CheckoutResult returns the created order. PromoWarning is set when a
// supplied code was rejected and checkout proceeded at full price.
type CheckoutResult struct {
	Order        *models.Order
	PromoWarning string
}

// Page is one cursor page of a user's orders.
type Page struct {
	Orders     []models.Order
	NextCursor string
}

type pricedLine struct {
	productID   uuid.UUID
	vegetableID uuid.UUID
	name        string
	quantityKg  decimal.Decimal
	unitPrice   decimal.Decimal
	lineTotal   decimal.Decimal
}
