package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
)

// LoyaltyHistoryEntry is the append-only trail behind a loyalty
// account balance.
type LoyaltyHistoryEntry struct {
	ID          uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID   uuid.UUID              `gorm:"column:account_id;type:uuid;not null"`
	Type        enums.LoyaltyEventType `gorm:"column:type;type:loyalty_event_type;not null"`
	Points      int                    `gorm:"column:points;not null"`
	Description string                 `gorm:"column:description;not null"`
	OrderID     *uuid.UUID             `gorm:"column:order_id;type:uuid"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
}
