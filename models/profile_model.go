package models

import (
	"time"
)

// Profile is the read-only engineer/admin identity row maintained by the
// external identity service. Joined for area and contact context only.
type Profile struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"index"`
	Role      string    `json:"role" gorm:"size:16;default:engineer"`
	AreaGroup string    `json:"area_group" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
}
