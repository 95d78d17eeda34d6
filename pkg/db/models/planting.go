package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
)

// Planting records a batch of a vegetable put in the ground. The
// expected harvest date is fixed at creation from the vegetable's
// growth cycle.
type Planting struct {
	ID                uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VegetableID       uuid.UUID            `gorm:"column:vegetable_id;type:uuid;not null"`
	Parcel            string               `gorm:"column:parcel;not null"`
	AreaSqm           decimal.Decimal      `gorm:"column:area_sqm;type:numeric(10,2);not null"`
	PlantedOn         time.Time            `gorm:"column:planted_on;type:date;not null"`
	ExpectedHarvestOn time.Time            `gorm:"column:expected_harvest_on;type:date;not null"`
	Status            enums.PlantingStatus `gorm:"column:status;type:planting_status;not null;default:'growing'"`
	Notes             *string              `gorm:"column:notes"`
	Vegetable         *Vegetable           `gorm:"foreignKey:VegetableID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
