package models

import (
	"time"
)

// EngineerStock is the per-engineer on-hand quantity for one part.
// Rows are created on first correction; there is no delete path.
type EngineerStock struct {
	EngineerID string    `json:"engineer_id" gorm:"primaryKey;size:64"`
	PartID     string    `json:"part_id" gorm:"primaryKey;size:64"`
	Quantity   int       `json:"quantity" gorm:"not null;default:0"`
	MinStock   *int      `json:"min_stock" gorm:"default:null"`
	LastSync   time.Time `json:"last_sync"`
}
