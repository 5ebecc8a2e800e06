package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"moneyflow/internal/models"
	"moneyflow/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewOwnerID returns a fresh caller identity for a test.
func NewOwnerID() string {
	return uuid.New()
}

// Date builds a plain calendar date in UTC.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestAccount creates a checking account with the given balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, ownerID, balance string) *models.Account {
	t.Helper()

	account := &models.Account{
		OwnerID:  ownerID,
		Name:     fmt.Sprintf("Test Account %d", nextID()),
		Type:     models.AccountTypeChecking,
		Balance:  decimal.RequireFromString(balance),
		Currency: "USD",
		IsActive: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, ownerID string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		OwnerID:  ownerID,
		Name:     fmt.Sprintf("Test Category %d", nextID()),
		Type:     categoryType,
		IsActive: true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates an active transaction of the given type and amount.
// The account balance is NOT adjusted; use the transaction service when the
// ledger effect matters.
func CreateTestTransaction(t *testing.T, db *gorm.DB, ownerID, accountID, categoryID string, txType models.TransactionType, amount string, date time.Time) *models.Transaction {
	t.Helper()

	txn := &models.Transaction{
		OwnerID:    ownerID,
		AccountID:  accountID,
		CategoryID: categoryID,
		Type:       txType,
		Amount:     decimal.RequireFromString(amount),
		Date:       date,
		IsActive:   true,
	}
	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return txn
}

// CreateTestRecurring creates an active recurring template due on nextExecution.
func CreateTestRecurring(t *testing.T, db *gorm.DB, ownerID, accountID, categoryID string, frequency models.Frequency, amount string, nextExecution time.Time) *models.RecurringTransaction {
	t.Helper()

	rec := &models.RecurringTransaction{
		OwnerID:           ownerID,
		AccountID:         accountID,
		CategoryID:        categoryID,
		Type:              models.TransactionTypeExpense,
		Amount:            decimal.RequireFromString(amount),
		Description:       fmt.Sprintf("Test Recurring %d", nextID()),
		Frequency:         frequency,
		StartDate:         nextExecution,
		NextExecutionDate: nextExecution,
		IsActive:          true,
	}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("failed to create test recurring transaction: %v", err)
	}
	return rec
}

// CreateTestBudget creates a budget for the given category and period.
func CreateTestBudget(t *testing.T, db *gorm.DB, ownerID, categoryID string, month, year int, amount string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		OwnerID:        ownerID,
		CategoryID:     categoryID,
		Month:          month,
		Year:           year,
		Amount:         decimal.RequireFromString(amount),
		AlertThreshold: decimal.NewFromInt(80),
		IsActive:       true,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
