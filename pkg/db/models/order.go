package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
)

// Order is an immutable snapshot of a checked-out cart plus its
// fulfillment state. Amounts are frozen at creation.
type Order struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Number           string              `gorm:"column:number;not null;uniqueIndex"`
	UserID           uuid.UUID           `gorm:"column:user_id;type:uuid;not null"`
	Status           enums.OrderStatus   `gorm:"column:status;type:order_status;not null;default:'pending'"`
	PaymentMethod    enums.PaymentMethod `gorm:"column:payment_method;type:payment_method;not null"`
	PaymentConfirmed bool                `gorm:"column:payment_confirmed;not null;default:false"`
	ProductAmount    decimal.Decimal     `gorm:"column:product_amount;type:numeric(12,2);not null"`
	DeliveryFee      decimal.Decimal     `gorm:"column:delivery_fee;type:numeric(12,2);not null"`
	TotalAmount      decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	DiscountAmount   decimal.Decimal     `gorm:"column:discount_amount;type:numeric(12,2);not null;default:0"`
	PromoCodeID      *uuid.UUID          `gorm:"column:promo_code_id;type:uuid"`
	DeliveryZoneID   *uuid.UUID          `gorm:"column:delivery_zone_id;type:uuid"`
	DeliveryAddress  string              `gorm:"column:delivery_address;not null"`
	DeliveryPhone    string              `gorm:"column:delivery_phone;not null"`
	Notes            *string             `gorm:"column:notes"`
	ConfirmedAt      *time.Time          `gorm:"column:confirmed_at"`
	ShippedAt        *time.Time          `gorm:"column:shipped_at"`
	DeliveredAt      *time.Time          `gorm:"column:delivered_at"`
	CancelledAt      *time.Time          `gorm:"column:cancelled_at"`
	Lines            []OrderLine         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PromoCode        *PromoCode          `gorm:"foreignKey:PromoCodeID"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
