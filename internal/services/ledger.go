package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "moneyflow/internal/errors"
	"moneyflow/internal/models"
)

// ledger applies signed balance deltas to accounts as transactions are
// created, amended, and deleted. It must only be invoked inside the GORM
// transaction that writes the transaction row itself.
type ledger struct{}

// applyCreate applies the full signed effect of a newly created transaction.
func (l ledger) applyCreate(tx *gorm.DB, txn *models.Transaction, account, toAccount *models.Account) error {
	return l.applyDelta(tx, txn.Type, account, toAccount, txn.Amount)
}

// applyAmountChange applies the effect of editing a transaction's amount
// from oldAmount to newAmount. The delta follows the same sign rule as
// create; the original effect is never reversed and reapplied.
func (l ledger) applyAmountChange(tx *gorm.DB, txn *models.Transaction, account, toAccount *models.Account, oldAmount, newAmount decimal.Decimal) error {
	return l.applyDelta(tx, txn.Type, account, toAccount, newAmount.Sub(oldAmount))
}

// applyDelete reverses the transaction's original effect exactly.
func (l ledger) applyDelete(tx *gorm.DB, txn *models.Transaction, account, toAccount *models.Account) error {
	return l.applyDelta(tx, txn.Type, account, toAccount, txn.Amount.Neg())
}

// applyDelta moves balances by the signed equivalent of amount: income adds
// to the source account, expense subtracts from it, and a transfer subtracts
// from the source and adds to the destination. Both legs of a transfer run
// in the caller's transaction; either both commit or neither does.
func (ledger) applyDelta(tx *gorm.DB, txType models.TransactionType, account, toAccount *models.Account, amount decimal.Decimal) error {
	switch txType {
	case models.TransactionTypeIncome:
		return addBalance(tx, account, amount)
	case models.TransactionTypeExpense:
		return addBalance(tx, account, amount.Neg())
	case models.TransactionTypeTransfer:
		if toAccount == nil {
			return apperrors.ErrTransferDestinationRequired
		}
		if err := addBalance(tx, account, amount.Neg()); err != nil {
			return err
		}
		return addBalance(tx, toAccount, amount)
	default:
		return apperrors.ErrInvalidTransactionType
	}
}

func addBalance(tx *gorm.DB, account *models.Account, delta decimal.Decimal) error {
	account.Balance = account.Balance.Add(delta)
	if err := tx.Model(account).Update("balance", account.Balance).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
