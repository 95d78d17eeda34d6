package promo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/growwithgreen/growwithgreen-backend/internal/repo"
	"github.com/growwithgreen/growwithgreen-backend/pkg/db/models"
)

// Repository encapsulates promo code persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a promo repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindByCode loads a promo code by its exact code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := r.DB(ctx).Where("code = ?", code).First(&promo).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

// IncrementUsage bumps the usage counter while the cap still allows it.
// The guard runs inside the update so two concurrent checkouts cannot
// both take the last slot.
func (r *Repository) IncrementUsage(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	res := r.Conn(tx).WithContext(ctx).Exec(`
		UPDATE promo_codes
		SET use_count = use_count + 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND use_count < max_uses
	`, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Create inserts a promo code.
func (r *Repository) Create(ctx context.Context, promo *models.PromoCode) error {
	if promo.ID == uuid.Nil {
		promo.ID = uuid.New()
	}
	return r.DB(ctx).Create(promo).Error
}

// List returns all promo codes newest first.
func (r *Repository) List(ctx context.Context) ([]models.PromoCode, error) {
	var promos []models.PromoCode
	if err := r.DB(ctx).Order("created_at DESC").Find(&promos).Error; err != nil {
		return nil, err
	}
	return promos, nil
}
