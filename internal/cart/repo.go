package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/growwithgreen/growwithgreen-backend/internal/repo"
	"github.com/growwithgreen/growwithgreen-backend/pkg/db/models"
)

// Repository encapsulates cart persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a cart repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindOrCreateByUser returns the user's cart, creating it on first use.
func (r *Repository) FindOrCreateByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB(ctx).Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	cart = models.Cart{ID: uuid.New(), UserID: userID}
	if err := r.DB(ctx).Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpsertLine adds quantity to an existing cart line or inserts a new one.
func (r *Repository) UpsertLine(ctx context.Context, cartID, productID uuid.UUID, qty decimal.Decimal) error {
	return r.DB(ctx).Exec(`
		INSERT INTO cart_lines (id, cart_id, product_id, quantity_kg, created_at, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (cart_id, product_id) DO UPDATE
		SET quantity_kg = cart_lines.quantity_kg + excluded.quantity_kg,
			updated_at = CURRENT_TIMESTAMP
	`, uuid.New(), cartID, productID, qty).Error
}

// LineQuantity returns the quantity already in the cart for a product,
// zero when the product has no line yet.
func (r *Repository) LineQuantity(ctx context.Context, cartID, productID uuid.UUID) (decimal.Decimal, error) {
	var line models.CartLine
	err := r.DB(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&line).Error
	if err == gorm.ErrRecordNotFound {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return line.QuantityKg, nil
}

// SetLineQuantity overwrites the quantity of an existing line.
func (r *Repository) SetLineQuantity(ctx context.Context, cartID, productID uuid.UUID, qty decimal.Decimal) (bool, error) {
	res := r.DB(ctx).
		Model(&models.CartLine{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Updates(map[string]any{
			"quantity_kg": qty,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteLine removes one product from the cart if present.
func (r *Repository) DeleteLine(ctx context.Context, cartID, productID uuid.UUID) error {
	return r.DB(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartLine{}).Error
}

// DeleteAllLines empties the cart. Safe to call on an already empty cart.
func (r *Repository) DeleteAllLines(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error {
	return r.Conn(tx).WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartLine{}).Error
}

// ListLines returns the cart lines with their products, oldest first.
func (r *Repository) ListLines(ctx context.Context, cartID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.DB(ctx).
		Preload("Product").
		Preload("Product.Vegetable").
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
