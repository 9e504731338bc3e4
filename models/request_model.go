package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"sparestock/types"
)

const (
	RequestStatusPending   = "pending"
	RequestStatusApproved  = "approved"
	RequestStatusRejected  = "rejected"
	RequestStatusCancelled = "cancelled"
	RequestStatusDelivered = "delivered"
	RequestStatusCompleted = "completed"
)

// RequestItem is one line of a monthly request. Part IDs are unique within
// a request; the submitter aggregates duplicates before submission.
type RequestItem struct {
	PartID   string `json:"part_id"`
	Quantity int    `json:"quantity"`
}

// MonthlyRequest is one engineer's part request for a given month. Items is
// the single source of truth for what was requested; after delivery it is
// overwritten with what actually shipped (shipped quantity > 0 only).
type MonthlyRequest struct {
	ID              types.SnowflakeID `json:"id" gorm:"primaryKey"`
	EngineerID      string            `json:"engineer_id" gorm:"index;size:64;not null"`
	Month           string            `json:"month" gorm:"index;size:16"`
	Items           datatypes.JSON    `json:"items"`
	Status          string            `json:"status" gorm:"index;size:16;not null;default:pending"`
	SubmittedAt     time.Time         `json:"submitted_at"`
	ReviewedBy      *string           `json:"reviewed_by" gorm:"size:64;default:null"`
	ReviewedAt      *time.Time        `json:"reviewed_at" gorm:"default:null"`
	RejectionReason *string           `json:"rejection_reason" gorm:"default:null"`
	DeliveredBy     *string           `json:"delivered_by" gorm:"size:64;default:null"`
	DeliveredAt     *time.Time        `json:"delivered_at" gorm:"default:null"`
	ConfirmedAt     *time.Time        `json:"confirmed_at" gorm:"default:null"`
	LastEditedBy    *string           `json:"last_edited_by" gorm:"size:64;default:null"`
	LastEditedAt    *time.Time        `json:"last_edited_at" gorm:"default:null"`
}

// RequestItems decodes the Items JSON column.
func (r *MonthlyRequest) RequestItems() ([]RequestItem, error) {
	if len(r.Items) == 0 {
		return nil, nil
	}
	var items []RequestItem
	if err := json.Unmarshal(r.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetItems encodes items into the Items JSON column.
func (r *MonthlyRequest) SetItems(items []RequestItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	r.Items = datatypes.JSON(raw)
	return nil
}

// MarshalItems is a helper for writing an items payload through a guarded
// column update without touching the model instance.
func MarshalItems(items []RequestItem) (datatypes.JSON, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
