package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "moneyflow/internal/errors"
	"moneyflow/internal/models"
	"moneyflow/internal/money"
	"moneyflow/internal/pagination"
	"moneyflow/internal/validation"
)

// transactionService handles transaction-related business logic. Every
// mutation with a balance effect commits the transaction row and the
// account balance change in one database transaction.
type transactionService struct {
	db              *gorm.DB
	ledger          ledger
	accountService  AccountServicer
	categoryService CategoryServicer
	audit           AuditServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer, categoryService CategoryServicer, audit AuditServicer) TransactionServicer {
	return &transactionService{
		db:              db,
		accountService:  accountService,
		categoryService: categoryService,
		audit:           audit,
	}
}

// CreateTransaction creates a new transaction against the caller's account
// and applies its ledger effect.
func (s *transactionService) CreateTransaction(ownerID string, input CreateTransactionInput) (*models.Transaction, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if !money.IsPositive(input.Amount) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	// Default date to today if not provided
	if input.Date.IsZero() {
		input.Date = dateOnly(time.Now())
	} else {
		input.Date = dateOnly(input.Date)
	}

	account, err := s.accountService.GetAccountByID(ownerID, input.AccountID)
	if err != nil {
		return nil, err
	}

	category, err := s.categoryService.GetCategoryByID(ownerID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	// Validate transfer destination before touching any balance
	var toAccount *models.Account
	if input.Type == models.TransactionTypeTransfer {
		if input.TransferToAccountID == nil {
			return nil, apperrors.ErrTransferDestinationRequired
		}
		if *input.TransferToAccountID == input.AccountID {
			return nil, apperrors.ErrSameAccountTransfer
		}
		toAccount, err = s.accountService.GetAccountByID(ownerID, *input.TransferToAccountID)
		if err != nil {
			return nil, err
		}
	} else if input.TransferToAccountID != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transfer destination is only valid for transfers")
	}

	if input.Description == "" {
		input.Description = category.Name
	}

	transaction := &models.Transaction{
		OwnerID:             ownerID,
		AccountID:           account.ID,
		CategoryID:          category.ID,
		Type:                input.Type,
		Amount:              input.Amount,
		Description:         input.Description,
		Note:                input.Note,
		Date:                input.Date,
		TransferToAccountID: input.TransferToAccountID,
		IsActive:            true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.ledger.applyCreate(tx, transaction, account, toAccount)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log(ownerID, "create", "transaction", transaction.ID, map[string]interface{}{
		"type":   transaction.Type,
		"amount": transaction.Amount,
	})
	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the caller's
// active transactions, newest first.
func (s *transactionService) GetUserTransactions(ownerID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("owner_id = ? AND is_active = ?", ownerID, true)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.FromDate != nil {
		q = q.Where("date >= ?", dateOnly(*f.FromDate))
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", dateOnly(*f.ToDate))
	}
	return q
}

// GetTransactionByID retrieves an active transaction owned by the caller.
func (s *transactionService) GetTransactionByID(ownerID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND owner_id = ? AND is_active = ?", transactionID, ownerID, true).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction edits a transaction. An amount change applies the signed
// delta between new and old amount to the same account(s) atomically with the
// row update; category, description, note, and date changes are balance-inert.
func (s *transactionService) UpdateTransaction(ownerID, transactionID string, input UpdateTransactionInput) (*models.Transaction, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	transaction, err := s.GetTransactionByID(ownerID, transactionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	amountChanged := false
	oldAmount := transaction.Amount
	if input.Amount != nil && !input.Amount.Equal(oldAmount) {
		if !money.IsPositive(*input.Amount) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		amountChanged = true
		updates["amount"] = *input.Amount
	}

	if input.CategoryID != nil {
		category, err := s.categoryService.GetCategoryByID(ownerID, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		updates["category_id"] = category.ID
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Note != nil {
		updates["note"] = *input.Note
	}
	if input.Date != nil {
		updates["date"] = dateOnly(*input.Date)
	}

	if len(updates) == 0 {
		return transaction, nil
	}

	var account, toAccount *models.Account
	if amountChanged {
		account, toAccount, err = s.findTransactionAccounts(transaction)
		if err != nil {
			return nil, err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(transaction).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if amountChanged {
			return s.ledger.applyAmountChange(tx, transaction, account, toAccount, oldAmount, *input.Amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if amountChanged {
		transaction.Amount = *input.Amount
		s.audit.Log(ownerID, "update", "transaction", transaction.ID, map[string]interface{}{
			"old_amount": oldAmount,
			"new_amount": *input.Amount,
		})
	}

	// Reload to get fresh data
	if err := s.db.Where("id = ?", transaction.ID).First(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// DeleteTransaction reverses the transaction's ledger effect and marks it
// inactive, in one atomic unit. An inactive transaction is immutable and
// contributes nothing to balances or aggregations.
func (s *transactionService) DeleteTransaction(ownerID, transactionID string) error {
	transaction, err := s.GetTransactionByID(ownerID, transactionID)
	if err != nil {
		return err
	}

	account, toAccount, err := s.findTransactionAccounts(transaction)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(transaction).Update("is_active", false).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.ledger.applyDelete(tx, transaction, account, toAccount)
	})
	if err != nil {
		return err
	}

	s.audit.Log(ownerID, "delete", "transaction", transaction.ID, map[string]interface{}{
		"type":   transaction.Type,
		"amount": transaction.Amount,
	})
	return nil
}

// findTransactionAccounts loads the transaction's account(s) without the
// is_active filter: reversing or amending an existing effect must reach the
// original accounts even if one has since been archived.
func (s *transactionService) findTransactionAccounts(transaction *models.Transaction) (account, toAccount *models.Account, err error) {
	account = &models.Account{}
	if err := s.db.Where("id = ? AND owner_id = ?", transaction.AccountID, transaction.OwnerID).
		First(account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrAccountNotFound
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if transaction.Type == models.TransactionTypeTransfer && transaction.TransferToAccountID != nil {
		toAccount = &models.Account{}
		if err := s.db.Where("id = ? AND owner_id = ?", *transaction.TransferToAccountID, transaction.OwnerID).
			First(toAccount).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, apperrors.ErrAccountNotFound
			}
			return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return account, toAccount, nil
}
