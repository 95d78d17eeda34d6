package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a sellable listing for exactly one vegetable.
// Prices are per kilogram in FCFA, with separate consumer and
// business rates.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VegetableID uuid.UUID       `gorm:"column:vegetable_id;type:uuid;not null;uniqueIndex"`
	Name        string          `gorm:"column:name;not null"`
	Description *string         `gorm:"column:description"`
	PriceB2C    decimal.Decimal `gorm:"column:price_b2c;type:numeric(12,2);not null"`
	PriceB2B    decimal.Decimal `gorm:"column:price_b2b;type:numeric(12,2);not null"`
	ImageURL    *string         `gorm:"column:image_url"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`
	Vegetable   *Vegetable      `gorm:"foreignKey:VegetableID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
