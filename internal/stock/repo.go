package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/growwithgreen/growwithgreen-backend/internal/repo"
	"github.com/growwithgreen/growwithgreen-backend/pkg/db/models"
)

// DecrementOutcome reports how a stock decrement was applied.
type DecrementOutcome int

const (
	// DecrementApplied means the full quantity was subtracted.
	DecrementApplied DecrementOutcome = iota
	// DecrementClamped means the ledger held less than requested and was floored at zero.
	DecrementClamped
	// DecrementMissing means no ledger row exists for the vegetable.
	DecrementMissing
)

// Repository encapsulates the stock ledger. All quantity movements go
// through single-statement updates so concurrent writers never lose
// increments.
type Repository struct {
	repo.Base
}

// NewRepository constructs a stock repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Increment adds quantity to a vegetable's ledger row, creating it on first use.
func (r *Repository) Increment(ctx context.Context, tx *gorm.DB, vegetableID uuid.UUID, qty decimal.Decimal) error {
	return r.Conn(tx).WithContext(ctx).Exec(`
		INSERT INTO stock_entries (id, vegetable_id, quantity_kg, alert_threshold_kg, created_at, updated_at)
		VALUES (?, ?, ?, 0, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (vegetable_id) DO UPDATE
		SET quantity_kg = stock_entries.quantity_kg + excluded.quantity_kg,
			updated_at = CURRENT_TIMESTAMP
	`, uuid.New(), vegetableID, qty).Error
}

// Decrement subtracts quantity from a vegetable's ledger row. When the
// row holds less than requested it is floored at zero, and a missing
// row is left untouched.
func (r *Repository) Decrement(ctx context.Context, tx *gorm.DB, vegetableID uuid.UUID, qty decimal.Decimal) (DecrementOutcome, error) {
	conn := r.Conn(tx).WithContext(ctx)

	res := conn.Exec(`
		UPDATE stock_entries
		SET quantity_kg = quantity_kg - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE vegetable_id = ? AND quantity_kg >= ?
	`, qty, vegetableID, qty)
	if res.Error != nil {
		return DecrementMissing, res.Error
	}
	if res.RowsAffected > 0 {
		return DecrementApplied, nil
	}

	res = conn.Exec(`
		UPDATE stock_entries
		SET quantity_kg = 0,
			updated_at = CURRENT_TIMESTAMP
		WHERE vegetable_id = ?
	`, vegetableID)
	if res.Error != nil {
		return DecrementMissing, res.Error
	}
	if res.RowsAffected > 0 {
		return DecrementClamped, nil
	}
	return DecrementMissing, nil
}

// Find returns the ledger row for a vegetable.
func (r *Repository) Find(ctx context.Context, vegetableID uuid.UUID) (*models.StockEntry, error) {
	var entry models.StockEntry
	err := r.DB(ctx).
		Where("vegetable_id = ?", vegetableID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns every ledger row with its vegetable.
func (r *Repository) List(ctx context.Context) ([]models.StockEntry, error) {
	var entries []models.StockEntry
	err := r.DB(ctx).
		Preload("Vegetable").
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListBelowThreshold returns the rows at or under their alert threshold.
func (r *Repository) ListBelowThreshold(ctx context.Context) ([]models.StockEntry, error) {
	var entries []models.StockEntry
	err := r.DB(ctx).
		Preload("Vegetable").
		Where("quantity_kg <= alert_threshold_kg").
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// SetThreshold updates the alert threshold for a vegetable's ledger row.
func (r *Repository) SetThreshold(ctx context.Context, vegetableID uuid.UUID, threshold decimal.Decimal) (bool, error) {
	res := r.DB(ctx).Exec(`
		UPDATE stock_entries
		SET alert_threshold_kg = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE vegetable_id = ?
	`, threshold, vegetableID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
