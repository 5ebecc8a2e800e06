package models

import (
	"time"

	"moneyflow/internal/uuid"

	"gorm.io/gorm"
)

// Base contains common columns for all tables.
//
// Records are never physically deleted; entities that support removal carry
// an explicit IsActive flag that every query boundary filters on. This keeps
// generated transactions linked to their recurring template after deletion.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
