package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryZone maps a served area to its flat delivery fee.
type DeliveryZone struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string          `gorm:"column:name;not null;uniqueIndex"`
	Fee           decimal.Decimal `gorm:"column:fee;type:numeric(12,2);not null"`
	EstimatedDays int             `gorm:"column:estimated_days;not null;default:1"`
	IsActive      bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
