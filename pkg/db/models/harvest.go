package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
)

// Harvest records produce brought in from a planting. Recording a
// harvest feeds the stock ledger.
type Harvest struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PlantingID  uuid.UUID            `gorm:"column:planting_id;type:uuid;not null"`
	VegetableID uuid.UUID            `gorm:"column:vegetable_id;type:uuid;not null"`
	QuantityKg  decimal.Decimal      `gorm:"column:quantity_kg;type:numeric(10,3);not null"`
	Quality     enums.HarvestQuality `gorm:"column:quality;type:harvest_quality;not null"`
	HarvestedOn time.Time            `gorm:"column:harvested_on;type:date;not null"`
	Notes       *string              `gorm:"column:notes"`
	Planting    *Planting            `gorm:"foreignKey:PlantingID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
}
