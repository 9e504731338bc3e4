package models

import (
	"time"

	"sparestock/types"
)

// StockAdjustment is the append-only audit trail behind engineer stock
// corrections. Rows are never updated or deleted.
type StockAdjustment struct {
	ID               types.SnowflakeID `json:"id" gorm:"primaryKey"`
	EngineerID       string            `json:"engineer_id" gorm:"index;size:64;not null"`
	PartID           string            `json:"part_id" gorm:"index;size:64;not null"`
	PreviousQuantity int               `json:"previous_quantity"`
	NewQuantity      int               `json:"new_quantity"`
	Delta            int               `json:"delta"`
	Reason           string            `json:"reason" gorm:"not null"`
	AreaGroup        string            `json:"area_group"`
	CreatedAt        time.Time         `json:"created_at"`
}
