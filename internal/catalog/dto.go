package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/growwithgreen/growwithgreen-backend/pkg/db/models"
	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
)

// ProductView is a listing entry with the unit price already resolved
// for the requesting customer class.
type ProductView struct {
	ID           uuid.UUID           `json:"id"`
	Name         string              `json:"name"`
	Description  *string             `json:"description,omitempty"`
	Vegetable    enums.VegetableType `json:"vegetable"`
	UnitPrice    decimal.Decimal     `json:"unit_price"`
	ImageURL     *string             `json:"image_url,omitempty"`
	InStock      bool                `json:"in_stock"`
	AvailableKg  decimal.Decimal     `json:"available_kg"`
	CreatedAt    time.Time           `json:"created_at"`
}

// ProductPage is one cursor page of the catalog.
type ProductPage struct {
	Items      []ProductView `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// ZoneView describes a delivery zone and its fee.
type ZoneView struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Fee           decimal.Decimal `json:"fee"`
	EstimatedDays int             `json:"estimated_days"`
}

// UnitPriceFor resolves the per-kg price of a product for a customer class.
// Business accounts get the wholesale rate, everyone else pays retail.
func UnitPriceFor(p *models.Product, class enums.CustomerClass) decimal.Decimal {
	if class == enums.CustomerClassBusiness {
		return p.PriceB2B
	}
	return p.PriceB2C
}
