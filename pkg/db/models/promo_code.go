package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
)

// PromoCode is a redeemable discount. UseCount moves through an atomic
// increment guarded by MaxUses.
type PromoCode struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code          string             `gorm:"column:code;not null;uniqueIndex"`
	Description   *string            `gorm:"column:description"`
	DiscountType  enums.DiscountType `gorm:"column:discount_type;type:discount_type;not null"`
	Value         decimal.Decimal    `gorm:"column:value;type:numeric(12,2);not null"`
	MinimumAmount decimal.Decimal    `gorm:"column:minimum_amount;type:numeric(12,2);not null;default:0"`
	StartsAt      time.Time          `gorm:"column:starts_at;not null"`
	EndsAt        time.Time          `gorm:"column:ends_at;not null"`
	MaxUses       int                `gorm:"column:max_uses;not null;default:100"`
	UseCount      int                `gorm:"column:use_count;not null;default:0"`
	IsActive      bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
