package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockEntry is the single ledger row per vegetable. Quantities move
// through atomic increments and decrements, never full rewrites.
type StockEntry struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VegetableID      uuid.UUID       `gorm:"column:vegetable_id;type:uuid;not null;uniqueIndex"`
	QuantityKg       decimal.Decimal `gorm:"column:quantity_kg;type:numeric(10,3);not null;default:0"`
	AlertThresholdKg decimal.Decimal `gorm:"column:alert_threshold_kg;type:numeric(10,3);not null;default:0"`
	Vegetable        *Vegetable      `gorm:"foreignKey:VegetableID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
