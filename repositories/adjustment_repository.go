package repositories

import (
	"gorm.io/gorm"

	"sparestock/models"
)

type AdjustmentRepository struct {
	db *gorm.DB
}

func NewAdjustmentRepository(db *gorm.DB) *AdjustmentRepository {
	return &AdjustmentRepository{db}
}

func (r *AdjustmentRepository) ListByEngineer(engineerID string, limit int) ([]models.StockAdjustment, error) {
	var adjustments []models.StockAdjustment
	q := r.db.Where("engineer_id = ?", engineerID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&adjustments).Error
	return adjustments, err
}

func (r *AdjustmentRepository) ListByPart(partID string, limit int) ([]models.StockAdjustment, error) {
	var adjustments []models.StockAdjustment
	q := r.db.Where("part_id = ?", partID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&adjustments).Error
	return adjustments, err
}
