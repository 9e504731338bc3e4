package database

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"sparestock/models"
)

func RunSeeders(db *gorm.DB) {
	SeedParts(db)
	SeedProfiles(db)
}

func SeedParts(db *gorm.DB) {
	parts := []models.InventoryPart{
		{ID: "BP-SENSOR-01", PartName: "SpO2 Sensor Clip", TotalStock: 25, MinStock: 5},
		{ID: "BP-TUBE-02", PartName: "Silicone Air Tube 2m", TotalStock: 40, MinStock: 10},
		{ID: "BP-FILTER-03", PartName: "Bacteria Filter", TotalStock: 60, MinStock: 15},
		{ID: "BP-CUFF-04", PartName: "Infant Pressure Cuff", TotalStock: 12, MinStock: 4},
	}

	for _, p := range parts {
		var existing models.InventoryPart
		if err := db.Where("id = ?", p.ID).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				p.LastUpdated = time.Now()
				db.Create(&p)
			}
		}
	}
}

func SeedProfiles(db *gorm.DB) {
	profiles := []models.Profile{
		{ID: "admin-001", Name: "Stock Admin", Email: "admin@sparestock.local", Role: "admin", AreaGroup: "HQ"},
	}

	for _, pr := range profiles {
		var existing models.Profile
		if err := db.Where("id = ?", pr.ID).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				db.Create(&pr)
			}
		}
	}
}
