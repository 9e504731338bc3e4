package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"sparestock/models"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db}
}

func (r *InventoryRepository) GetAll() ([]models.InventoryPart, error) {
	var parts []models.InventoryPart
	err := r.db.Order("id ASC").Find(&parts).Error
	return parts, err
}

func (r *InventoryRepository) GetByID(id string) (*models.InventoryPart, error) {
	var part models.InventoryPart
	if err := r.db.First(&part, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &part, nil
}

func (r *InventoryRepository) FetchInventoryParts(ids []string) ([]models.InventoryPart, error) {
	var parts []models.InventoryPart
	err := r.db.Where("id IN ?", ids).Find(&parts).Error
	return parts, err
}

// ConditionalUpdateStock is the compare-and-swap on the shared pool: the
// update filters on the previously read total_stock, so a concurrent write
// since that read makes this one affect zero rows.
func (r *InventoryRepository) ConditionalUpdateStock(partID string, expectedPrevious, newValue int, ts time.Time) (int64, error) {
	res := r.db.Model(&models.InventoryPart{}).
		Where("id = ? AND total_stock = ?", partID, expectedPrevious).
		Updates(map[string]interface{}{
			"total_stock":  newValue,
			"last_updated": ts,
		})
	return res.RowsAffected, res.Error
}

func (r *InventoryRepository) Create(part *models.InventoryPart) error {
	part.LastUpdated = time.Now()
	return r.db.Create(part).Error
}

func (r *InventoryRepository) GetLowStock() ([]models.InventoryPart, error) {
	var parts []models.InventoryPart
	err := r.db.Where("total_stock <= min_stock").Order("id ASC").Find(&parts).Error
	return parts, err
}
