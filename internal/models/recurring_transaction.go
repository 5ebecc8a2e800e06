package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency represents how often a recurring transaction materializes
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// RecurringTransaction is a template that the scheduler turns into concrete
// transactions. NextExecutionDate is monotonically non-decreasing; a template
// is never materialized past its EndDate. Transfer type is not supported.
type RecurringTransaction struct {
	Base
	OwnerID     string          `gorm:"type:uuid;not null;index" json:"owner_id"`
	AccountID   string          `gorm:"type:uuid;not null;index" json:"account_id"`
	CategoryID  string          `gorm:"type:uuid;not null" json:"category_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:numeric(19,4);not null" json:"amount"`
	Description string          `json:"description"`
	Frequency   Frequency       `gorm:"not null" json:"frequency"`

	StartDate         time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate           *time.Time `gorm:"type:date" json:"end_date,omitempty"`
	NextExecutionDate time.Time  `gorm:"type:date;not null;index" json:"next_execution_date"`
	LastExecutedAt    *time.Time `json:"last_executed_at,omitempty"`

	IsPaused bool `gorm:"not null;default:false" json:"is_paused"`
	IsActive bool `gorm:"not null;default:true" json:"is_active"`
}
