package models

import "github.com/shopspring/decimal"

// Budget is a monthly spending limit for a category. Spent, remaining, and
// percentage-used are computed at read time and never stored.
type Budget struct {
	Base
	OwnerID    string          `gorm:"type:uuid;not null;index" json:"owner_id"`
	CategoryID string          `gorm:"type:uuid;not null" json:"category_id"`
	Month      int             `gorm:"not null" json:"month"`
	Year       int             `gorm:"not null" json:"year"`
	Amount     decimal.Decimal `gorm:"type:numeric(19,4);not null" json:"amount"`

	// Percentage of the budget at which an alert fires
	AlertThreshold decimal.Decimal `gorm:"type:numeric(5,2);not null;default:80" json:"alert_threshold"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`
}
