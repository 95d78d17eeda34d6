package loyalty

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/growwithgreen/growwithgreen-backend/internal/repo"
	"github.com/growwithgreen/growwithgreen-backend/pkg/db/models"
	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
)

// Repository encapsulates loyalty persistence. Point movements run as
// single-statement counter updates.
type Repository struct {
	repo.Base
}

// NewRepository constructs a loyalty repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindOrCreateAccount returns the user's account, creating an empty
// bronze account on first touch.
func (r *Repository) FindOrCreateAccount(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*models.LoyaltyAccount, error) {
	conn := r.Conn(tx).WithContext(ctx)

	var account models.LoyaltyAccount
	err := conn.Where("user_id = ?", userID).First(&account).Error
	if err == nil {
		return &account, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	account = models.LoyaltyAccount{
		ID:     uuid.New(),
		UserID: userID,
		Tier:   enums.LoyaltyTierBronze,
	}
	if err := conn.Create(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// AddPoints credits an account.
func (r *Repository) AddPoints(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, points int) error {
	return r.Conn(tx).WithContext(ctx).Exec(`
		UPDATE loyalty_accounts
		SET points_balance = points_balance + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, points, accountID).Error
}

// DeductPoints debits an account only while the balance covers it.
func (r *Repository) DeductPoints(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, points int) (bool, error) {
	res := r.Conn(tx).WithContext(ctx).Exec(`
		UPDATE loyalty_accounts
		SET points_balance = points_balance - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND points_balance >= ?
	`, points, accountID, points)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CurrentBalance reads the balance as stored.
func (r *Repository) CurrentBalance(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) (int, error) {
	var account models.LoyaltyAccount
	err := r.Conn(tx).WithContext(ctx).
		Select("points_balance").
		Where("id = ?", accountID).
		First(&account).Error
	if err != nil {
		return 0, err
	}
	return account.PointsBalance, nil
}

// SetTier stores the derived tier.
func (r *Repository) SetTier(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, tier enums.LoyaltyTier) error {
	return r.Conn(tx).WithContext(ctx).
		Model(&models.LoyaltyAccount{}).
		Where("id = ?", accountID).
		Updates(map[string]any{
			"tier":       tier,
			"updated_at": time.Now().UTC(),
		}).Error
}

// CreateHistoryEntry appends to the account trail.
func (r *Repository) CreateHistoryEntry(ctx context.Context, tx *gorm.DB, entry *models.LoyaltyHistoryEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.Conn(tx).WithContext(ctx).Create(entry).Error
}

// ListHistory returns the newest history entries for an account.
func (r *Repository) ListHistory(ctx context.Context, accountID uuid.UUID, limit int) ([]models.LoyaltyHistoryEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var entries []models.LoyaltyHistoryEntry
	err := r.DB(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
