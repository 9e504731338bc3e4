package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sparestock/models"
)

type EngineerStockRepository struct {
	db *gorm.DB
}

func NewEngineerStockRepository(db *gorm.DB) *EngineerStockRepository {
	return &EngineerStockRepository{db}
}

func (r *EngineerStockRepository) Get(engineerID, partID string) (*models.EngineerStock, error) {
	var stock models.EngineerStock
	err := r.db.Where("engineer_id = ? AND part_id = ?", engineerID, partID).First(&stock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stock, nil
}

func (r *EngineerStockRepository) ListByEngineer(engineerID string) ([]models.EngineerStock, error) {
	var stocks []models.EngineerStock
	err := r.db.Where("engineer_id = ?", engineerID).Order("part_id ASC").Find(&stocks).Error
	return stocks, err
}

func (r *EngineerStockRepository) Upsert(stock *models.EngineerStock) error {
	return upsertStock(r.db, stock)
}

// ApplyCorrection writes the audit row and the stock upsert in one
// transaction, audit first, so a failed audit insert never leaves an
// unexplained quantity change behind.
func (r *EngineerStockRepository) ApplyCorrection(stock *models.EngineerStock, adj *models.StockAdjustment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(adj).Error; err != nil {
			return fmt.Errorf("failed to write adjustment log: %w", err)
		}
		if err := upsertStock(tx, stock); err != nil {
			return fmt.Errorf("failed to update engineer stock: %w", err)
		}
		return nil
	})
}

func upsertStock(db *gorm.DB, stock *models.EngineerStock) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "engineer_id"}, {Name: "part_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"quantity", "min_stock", "last_sync",
		}),
	}).Create(stock).Error
}
