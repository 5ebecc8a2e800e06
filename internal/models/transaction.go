package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Transaction represents a financial transaction in the system.
//
// Amount is strictly positive for every transaction; the sign of its balance
// effect is derived from Type. TransferToAccountID is set iff Type is
// transfer and always differs from AccountID. An inactive transaction is
// immutable and contributes nothing to balances or aggregations.
type Transaction struct {
	Base
	OwnerID     string          `gorm:"type:uuid;not null;index" json:"owner_id"`
	AccountID   string          `gorm:"type:uuid;not null;index" json:"account_id"`
	CategoryID  string          `gorm:"type:uuid;not null;index" json:"category_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:numeric(19,4);not null" json:"amount"`
	Description string          `json:"description"`
	Note        string          `json:"note,omitempty"`
	Date        time.Time       `gorm:"type:date;not null;index" json:"date"`

	// For transfers
	TransferToAccountID *string `gorm:"type:uuid" json:"transfer_to_account_id,omitempty"`

	// Set when the transaction was materialized from a recurring template
	RecurringID *string `gorm:"type:uuid;index" json:"recurring_id,omitempty"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`
}
