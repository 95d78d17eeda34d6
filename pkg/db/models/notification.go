package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
)

// Notification is an in-app message shown to a user until read.
type Notification struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID              `gorm:"column:user_id;type:uuid;not null"`
	Kind      enums.NotificationKind `gorm:"column:kind;type:notification_kind;not null"`
	Title     string                 `gorm:"column:title;not null"`
	Body      string                 `gorm:"column:body;not null"`
	IsRead    bool                   `gorm:"column:is_read;not null;default:false"`
	OrderID   *uuid.UUID             `gorm:"column:order_id;type:uuid"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
}
