package models

import "github.com/shopspring/decimal"

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCash       AccountType = "cash"
	AccountTypeCreditCard AccountType = "credit_card"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeOther      AccountType = "other"
)

// Account represents a financial account in the system.
//
// Balance is a derived-but-persisted running total: it equals the initial
// balance plus the signed effects of all active transactions referencing the
// account, and is only ever mutated by the ledger inside the same database
// transaction as the transaction write.
type Account struct {
	Base
	OwnerID  string          `gorm:"type:uuid;not null;index" json:"owner_id"`
	TeamID   *string         `gorm:"type:uuid" json:"team_id,omitempty"`
	Name     string          `gorm:"not null" json:"name"`
	Type     AccountType     `gorm:"not null" json:"type"`
	Balance  decimal.Decimal `gorm:"type:numeric(19,4);not null" json:"balance"`
	Currency string          `gorm:"not null;default:'USD'" json:"currency"`
	Icon     string          `json:"icon,omitempty"`
	Color    string          `json:"color,omitempty"`

	IsDefault bool `gorm:"not null;default:false" json:"is_default"`
	IsActive  bool `gorm:"not null;default:true" json:"is_active"`
}
