package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
)

// Vegetable is a crop the farm grows. Stock and production both hang
// off the vegetable, while the sellable listing lives on Product.
type Vegetable struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Type            enums.VegetableType `gorm:"column:type;type:vegetable_type;not null;uniqueIndex"`
	Description     *string             `gorm:"column:description"`
	GrowthCycleDays int                 `gorm:"column:growth_cycle_days;not null"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
