package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
)

// LoyaltyAccount keeps one point balance per user. The tier is derived
// from the balance and recomputed on every mutation.
type LoyaltyAccount struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID         `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	PointsBalance int               `gorm:"column:points_balance;not null;default:0"`
	Tier          enums.LoyaltyTier `gorm:"column:tier;type:loyalty_tier;not null;default:'bronze'"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
