package models

import (
	"time"

	"github.com/google/uuid"
)

// ReviewVote marks one user finding one review helpful. The pair is
// unique so votes toggle instead of stacking.
type ReviewVote struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ReviewID  uuid.UUID `gorm:"column:review_id;type:uuid;not null;uniqueIndex:idx_review_votes_review_user"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_review_votes_review_user"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
