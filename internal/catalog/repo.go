package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/growwithgreen/growwithgreen-backend/internal/repo"
	"github.com/growwithgreen/growwithgreen-backend/pkg/db/models"
	"github.com/growwithgreen/growwithgreen-backend/pkg/pagination"
)

// Repository encapsulates catalog persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a catalog repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

type productListingRecord struct {
	models.Product
	StockKg decimal.NullDecimal `gorm:"column:stock_kg"`
}

// ListActiveProducts returns a cursor page of active products joined with
// their vegetable and current stock. A missing stock row reads as zero.
func (r *Repository) ListActiveProducts(ctx context.Context, cursor string, limit int) ([]models.Product, map[uuid.UUID]decimal.Decimal, string, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return nil, nil, "", err
	}

	query := r.DB(ctx).
		Table("products").
		Select("products.*, s.quantity_kg AS stock_kg").
		Joins("LEFT JOIN stock_entries s ON s.vegetable_id = products.vegetable_id").
		Where("products.is_active = ?", true)

	if decodedCursor != nil {
		query = query.Where("(products.created_at < ?) OR (products.created_at = ? AND products.id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var records []productListingRecord
	if err := query.
		Order("products.created_at DESC").
		Order("products.id DESC").
		Limit(limitWithBuffer).
		Scan(&records).Error; err != nil {
		return nil, nil, "", err
	}

	nextCursor := ""
	if len(records) > normalizedLimit {
		records = records[:normalizedLimit]
		last := records[len(records)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	products := make([]models.Product, 0, len(records))
	stock := make(map[uuid.UUID]decimal.Decimal, len(records))
	for _, record := range records {
		products = append(products, record.Product)
		if record.StockKg.Valid {
			stock[record.Product.ID] = record.StockKg.Decimal
		}
	}

	if err := r.attachVegetables(ctx, products); err != nil {
		return nil, nil, "", err
	}

	return products, stock, nextCursor, nil
}

func (r *Repository) attachVegetables(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.VegetableID)
	}
	var vegetables []models.Vegetable
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&vegetables).Error; err != nil {
		return err
	}
	byID := make(map[uuid.UUID]models.Vegetable, len(vegetables))
	for _, v := range vegetables {
		byID[v.ID] = v
	}
	for i := range products {
		if v, ok := byID[products[i].VegetableID]; ok {
			veg := v
			products[i].Vegetable = &veg
		}
	}
	return nil
}

// SearchActiveProducts matches active products whose name or vegetable
// type contains the query, case-insensitively.
func (r *Repository) SearchActiveProducts(ctx context.Context, query string, limit int) ([]models.Product, map[uuid.UUID]decimal.Decimal, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	var records []productListingRecord
	err := r.DB(ctx).
		Table("products").
		Select("products.*, s.quantity_kg AS stock_kg").
		Joins("JOIN vegetables v ON v.id = products.vegetable_id").
		Joins("LEFT JOIN stock_entries s ON s.vegetable_id = products.vegetable_id").
		Where("products.is_active = ?", true).
		Where("LOWER(products.name) LIKE ? OR LOWER(v.type) LIKE ?", pattern, pattern).
		Order("products.name ASC").
		Limit(limit).
		Scan(&records).Error
	if err != nil {
		return nil, nil, err
	}

	products := make([]models.Product, 0, len(records))
	stock := make(map[uuid.UUID]decimal.Decimal, len(records))
	for _, record := range records {
		products = append(products, record.Product)
		if record.StockKg.Valid {
			stock[record.Product.ID] = record.StockKg.Decimal
		}
	}
	if err := r.attachVegetables(ctx, products); err != nil {
		return nil, nil, err
	}
	return products, stock, nil
}

// FindProductByID loads one product with its vegetable.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.DB(ctx).
		Preload("Vegetable").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// StockForVegetable reads the current stock quantity, zero when no row exists.
func (r *Repository) StockForVegetable(ctx context.Context, vegetableID uuid.UUID) (decimal.Decimal, error) {
	var entry models.StockEntry
	err := r.DB(ctx).
		Where("vegetable_id = ?", vegetableID).
		First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return entry.QuantityKg, nil
}

// CreateProduct inserts a new listing.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	return r.DB(ctx).Create(product).Error
}

// UpdateProduct applies a partial update to a listing.
func (r *Repository) UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now().UTC()
	return r.DB(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// FindVegetableByID loads one vegetable.
func (r *Repository) FindVegetableByID(ctx context.Context, id uuid.UUID) (*models.Vegetable, error) {
	var vegetable models.Vegetable
	if err := r.DB(ctx).Where("id = ?", id).First(&vegetable).Error; err != nil {
		return nil, err
	}
	return &vegetable, nil
}

// ListVegetables returns all known vegetables.
func (r *Repository) ListVegetables(ctx context.Context) ([]models.Vegetable, error) {
	var vegetables []models.Vegetable
	if err := r.DB(ctx).Order("type ASC").Find(&vegetables).Error; err != nil {
		return nil, err
	}
	return vegetables, nil
}

// CreateVegetable inserts a new crop definition.
func (r *Repository) CreateVegetable(ctx context.Context, vegetable *models.Vegetable) error {
	if vegetable.ID == uuid.Nil {
		vegetable.ID = uuid.New()
	}
	return r.DB(ctx).Create(vegetable).Error
}

// ListActiveZones returns the active delivery zones ordered by name.
func (r *Repository) ListActiveZones(ctx context.Context) ([]models.DeliveryZone, error) {
	var zones []models.DeliveryZone
	err := r.DB(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&zones).Error
	if err != nil {
		return nil, err
	}
	return zones, nil
}

// FindZoneByID loads one delivery zone.
func (r *Repository) FindZoneByID(ctx context.Context, id uuid.UUID) (*models.DeliveryZone, error) {
	var zone models.DeliveryZone
	if err := r.DB(ctx).Where("id = ?", id).First(&zone).Error; err != nil {
		return nil, err
	}
	return &zone, nil
}

// CreateZone inserts a delivery zone.
func (r *Repository) CreateZone(ctx context.Context, zone *models.DeliveryZone) error {
	if zone.ID == uuid.Nil {
		zone.ID = uuid.New()
	}
	return r.DB(ctx).Create(zone).Error
}
