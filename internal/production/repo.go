package production

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/growwithgreen/growwithgreen-backend/internal/repo"
	"github.com/growwithgreen/growwithgreen-backend/pkg/db/models"
	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
)

// Repository encapsulates planting and harvest persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a production repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CreatePlanting inserts a new planting.
func (r *Repository) CreatePlanting(ctx context.Context, planting *models.Planting) error {
	if planting.ID == uuid.Nil {
		planting.ID = uuid.New()
	}
	return r.DB(ctx).Create(planting).Error
}

// FindPlanting loads one planting with its vegetable.
func (r *Repository) FindPlanting(ctx context.Context, id uuid.UUID) (*models.Planting, error) {
	var planting models.Planting
	err := r.DB(ctx).
		Preload("Vegetable").
		Where("id = ?", id).
		First(&planting).Error
	if err != nil {
		return nil, err
	}
	return &planting, nil
}

// ListPlantings returns plantings, optionally filtered by status.
func (r *Repository) ListPlantings(ctx context.Context, status *enums.PlantingStatus) ([]models.Planting, error) {
	query := r.DB(ctx).Preload("Vegetable").Order("planted_on DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var plantings []models.Planting
	if err := query.Find(&plantings).Error; err != nil {
		return nil, err
	}
	return plantings, nil
}

// MarkPlantingHarvested flips a growing planting to harvested.
func (r *Repository) MarkPlantingHarvested(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	res := r.Conn(tx).WithContext(ctx).
		Model(&models.Planting{}).
		Where("id = ? AND status = ?", id, enums.PlantingStatusGrowing).
		Updates(map[string]any{
			"status":     enums.PlantingStatusHarvested,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CreateHarvest inserts a harvest record.
func (r *Repository) CreateHarvest(ctx context.Context, tx *gorm.DB, harvest *models.Harvest) error {
	if harvest.ID == uuid.Nil {
		harvest.ID = uuid.New()
	}
	return r.Conn(tx).WithContext(ctx).Create(harvest).Error
}

// ListHarvests returns harvests newest first, optionally for one vegetable.
func (r *Repository) ListHarvests(ctx context.Context, vegetableID *uuid.UUID) ([]models.Harvest, error) {
	query := r.DB(ctx).Order("harvested_on DESC")
	if vegetableID != nil {
		query = query.Where("vegetable_id = ?", *vegetableID)
	}

	var harvests []models.Harvest
	if err := query.Find(&harvests).Error; err != nil {
		return nil, err
	}
	return harvests, nil
}
