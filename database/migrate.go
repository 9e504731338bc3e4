package database

import (
	"gorm.io/gorm"

	"sparestock/models"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.InventoryPart{},
		&models.EngineerStock{},
		&models.StockAdjustment{},
		&models.MonthlyRequest{},
	)
}
