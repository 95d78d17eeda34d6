package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/growwithgreen/growwithgreen-backend/internal/repo"
	"github.com/growwithgreen/growwithgreen-backend/pkg/db/models"
	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
)

// Repository encapsulates review persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a reviews repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a review. The (product, user) unique index rejects a
// second review from the same user.
func (r *Repository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	return r.DB(ctx).Create(review).Error
}

// FindByID loads one review.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.DB(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ListForProduct returns reviews for a product, newest first.
func (r *Repository) ListForProduct(ctx context.Context, productID uuid.UUID, limit int) ([]models.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var reviews []models.Review
	err := r.DB(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// RatingSummary aggregates count and average rating for a product.
func (r *Repository) RatingSummary(ctx context.Context, productID uuid.UUID) (int64, float64, error) {
	var result struct {
		Count   int64
		Average float64
	}
	err := r.DB(ctx).
		Model(&models.Review{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").
		Where("product_id = ?", productID).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.Count, result.Average, nil
}

// HasDeliveredOrderWithProduct reports whether the user received the
// product in a delivered order. Drives the verified purchase flag.
func (r *Repository) HasDeliveredOrderWithProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).
		Table("order_lines").
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Where("orders.user_id = ? AND orders.status = ? AND order_lines.product_id = ?",
			userID, enums.OrderStatusDelivered, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteOwned removes a review only when the caller wrote it.
func (r *Repository) DeleteOwned(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	res := r.DB(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Review{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// InsertVote records a helpful vote, reporting false on duplicates.
func (r *Repository) InsertVote(ctx context.Context, tx *gorm.DB, reviewID, userID uuid.UUID) (bool, error) {
	conn := r.Conn(tx)
	res := conn.WithContext(ctx).Exec(`
		INSERT INTO review_votes (id, review_id, user_id, created_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (review_id, user_id) DO NOTHING
	`, uuid.New(), reviewID, userID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteVote removes a helpful vote if present.
func (r *Repository) DeleteVote(ctx context.Context, tx *gorm.DB, reviewID, userID uuid.UUID) (bool, error) {
	conn := r.Conn(tx)
	res := conn.WithContext(ctx).
		Where("review_id = ? AND user_id = ?", reviewID, userID).
		Delete(&models.ReviewVote{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AdjustHelpfulCount moves the denormalized vote counter, never below zero.
func (r *Repository) AdjustHelpfulCount(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, delta int) error {
	conn := r.Conn(tx)
	return conn.WithContext(ctx).Exec(`
		UPDATE reviews
		SET helpful_count = CASE WHEN helpful_count + ? < 0 THEN 0 ELSE helpful_count + ? END,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, delta, delta, reviewID).Error
}
