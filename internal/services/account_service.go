package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "moneyflow/internal/errors"
	"moneyflow/internal/models"
	"moneyflow/internal/pagination"
	"moneyflow/internal/validation"
)

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a new account for the caller. The initial balance is
// the starting point of the running total; it is not recorded as a transaction.
func (s *accountService) CreateAccount(ownerID string, input CreateAccountInput) (*models.Account, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	if input.Currency == "" {
		input.Currency = "USD" // Default currency
	}

	var count int64
	if err := s.db.Model(&models.Account{}).
		Where("owner_id = ? AND name = ? AND is_active = ?", ownerID, input.Name, true).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateAccountName
	}

	account := &models.Account{
		OwnerID:   ownerID,
		TeamID:    input.TeamID,
		Name:      input.Name,
		Type:      input.Type,
		Balance:   input.InitialBalance,
		Currency:  input.Currency,
		Icon:      input.Icon,
		Color:     input.Color,
		IsDefault: input.IsDefault,
		IsActive:  true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if input.IsDefault {
			if err := clearDefaultAccount(tx, ownerID); err != nil {
				return err
			}
		}
		if err := tx.Create(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetUserAccounts retrieves a paginated list of active accounts for the caller.
func (s *accountService) GetUserAccounts(ownerID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	base := s.db.Model(&models.Account{}).Where("owner_id = ? AND is_active = ?", ownerID, true)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := base.Scopes(pagination.Paginate(page)).Order("created_at").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountByID retrieves an active account owned by the caller.
func (s *accountService) GetAccountByID(ownerID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ? AND owner_id = ? AND is_active = ?", accountID, ownerID, true).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateAccount updates an existing account's descriptive fields.
// Balance is never updated here; only the ledger mutates it.
func (s *accountService) UpdateAccount(ownerID, accountID string, input UpdateAccountInput) (*models.Account, error) {
	account, err := s.GetAccountByID(ownerID, accountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if input.Name != nil && *input.Name != "" {
		updates["name"] = *input.Name
	}
	if input.Icon != nil {
		updates["icon"] = *input.Icon
	}
	if input.Color != nil {
		updates["color"] = *input.Color
	}
	if input.IsDefault != nil {
		updates["is_default"] = *input.IsDefault
	}

	if len(updates) == 0 {
		return account, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if input.IsDefault != nil && *input.IsDefault {
			if err := clearDefaultAccount(tx, ownerID); err != nil {
				return err
			}
		}
		if err := tx.Model(account).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reload to get fresh data
	if err := s.db.Where("id = ?", account.ID).First(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return account, nil
}

// DeleteAccount soft-deletes an account. Its transactions keep their history.
func (s *accountService) DeleteAccount(ownerID, accountID string) error {
	account, err := s.GetAccountByID(ownerID, accountID)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{"is_active": false, "is_default": false}
	if err := s.db.Model(account).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// clearDefaultAccount unsets the default flag on all of the caller's accounts.
func clearDefaultAccount(tx *gorm.DB, ownerID string) error {
	if err := tx.Model(&models.Account{}).
		Where("owner_id = ? AND is_default = ?", ownerID, true).
		Update("is_default", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
