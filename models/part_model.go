package models

import (
	"time"
)

// InventoryPart is the shared stock pool for one part code. TotalStock is
// mutated only through conditional updates keyed on the previously read
// value, never through blind writes.
type InventoryPart struct {
	ID          string    `json:"id" gorm:"primaryKey;size:64"`
	PartName    string    `json:"part_name" gorm:"not null" validate:"required"`
	TotalStock  int       `json:"total_stock" gorm:"not null;default:0"`
	MinStock    int       `json:"min_stock" gorm:"not null;default:0"`
	LastUpdated time.Time `json:"last_updated"`
}
