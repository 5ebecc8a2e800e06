package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "moneyflow/internal/errors"
	"moneyflow/internal/logger"
	"moneyflow/internal/models"
	"moneyflow/internal/money"
	"moneyflow/internal/pagination"
	"moneyflow/internal/validation"
)

// recurringService handles recurring transaction templates and their
// materialization into concrete transactions.
type recurringService struct {
	db              *gorm.DB
	ledger          ledger
	accountService  AccountServicer
	categoryService CategoryServicer
	audit           AuditServicer
}

// NewRecurringService creates a new RecurringServicer.
func NewRecurringService(db *gorm.DB, accountService AccountServicer, categoryService CategoryServicer, audit AuditServicer) RecurringServicer {
	return &recurringService{
		db:              db,
		accountService:  accountService,
		categoryService: categoryService,
		audit:           audit,
	}
}

// NextExecutionDate returns the date a template is due after current.
// An unset current yields startDate. Monthly and yearly advances use
// calendar arithmetic and clamp to the last valid day of the target month
// (Jan 31 -> Feb 28), so the anniversary day never drifts.
func NextExecutionDate(current time.Time, frequency models.Frequency, startDate time.Time) time.Time {
	if current.IsZero() {
		return dateOnly(startDate)
	}
	current = dateOnly(current)

	switch frequency {
	case models.FrequencyDaily:
		return current.AddDate(0, 0, 1)
	case models.FrequencyWeekly:
		return current.AddDate(0, 0, 7)
	case models.FrequencyMonthly:
		return addMonthsClamped(current, 1)
	case models.FrequencyYearly:
		return addMonthsClamped(current, 12)
	default:
		return current
	}
}

// addMonthsClamped advances by whole calendar months, clamping the day to
// the last valid day of the target month. time.AddDate would normalize
// Jan 31 + 1 month into early March instead.
func addMonthsClamped(date time.Time, months int) time.Time {
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	day := date.Day()
	if last := lastDayOfMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// CreateRecurring creates a new recurring template for the caller.
// Transfers are not supported as recurring transactions.
func (s *recurringService) CreateRecurring(ownerID string, input CreateRecurringInput) (*models.RecurringTransaction, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if input.Type == models.TransactionTypeTransfer {
		return nil, apperrors.ErrRecurringTransferUnsupported
	}
	if !money.IsPositive(input.Amount) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	startDate := dateOnly(input.StartDate)
	var endDate *time.Time
	if input.EndDate != nil {
		d := dateOnly(*input.EndDate)
		if d.Before(startDate) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must not be before start date")
		}
		endDate = &d
	}

	if _, err := s.accountService.GetAccountByID(ownerID, input.AccountID); err != nil {
		return nil, err
	}
	category, err := s.categoryService.GetCategoryByID(ownerID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	if input.Description == "" {
		input.Description = category.Name
	}

	recurring := &models.RecurringTransaction{
		OwnerID:           ownerID,
		AccountID:         input.AccountID,
		CategoryID:        category.ID,
		Type:              input.Type,
		Amount:            input.Amount,
		Description:       input.Description,
		Frequency:         input.Frequency,
		StartDate:         startDate,
		EndDate:           endDate,
		NextExecutionDate: startDate,
		IsActive:          true,
	}

	if err := s.db.Create(recurring).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.audit.Log(ownerID, "create", "recurring_transaction", recurring.ID, map[string]interface{}{
		"frequency": recurring.Frequency,
		"amount":    recurring.Amount,
	})
	return recurring, nil
}

// GetUserRecurring retrieves a paginated list of the caller's active templates.
func (s *recurringService) GetUserRecurring(ownerID string, page pagination.PageRequest) (*pagination.PageResponse[models.RecurringTransaction], error) {
	page.Defaults()

	base := s.db.Model(&models.RecurringTransaction{}).Where("owner_id = ? AND is_active = ?", ownerID, true)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var recurring []models.RecurringTransaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("next_execution_date").
		Find(&recurring).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(recurring, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetRecurringByID retrieves an active template owned by the caller.
func (s *recurringService) GetRecurringByID(ownerID, recurringID string) (*models.RecurringTransaction, error) {
	var recurring models.RecurringTransaction
	if err := s.db.Where("id = ? AND owner_id = ? AND is_active = ?", recurringID, ownerID, true).
		First(&recurring).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecurringNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &recurring, nil
}

// UpdateRecurring updates an existing template's fields. The next execution
// date is never moved backwards by an update.
func (s *recurringService) UpdateRecurring(ownerID, recurringID string, input UpdateRecurringInput) (*models.RecurringTransaction, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	recurring, err := s.GetRecurringByID(ownerID, recurringID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if input.CategoryID != nil {
		category, err := s.categoryService.GetCategoryByID(ownerID, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		updates["category_id"] = category.ID
	}
	if input.Amount != nil {
		if !money.IsPositive(*input.Amount) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		updates["amount"] = *input.Amount
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Frequency != nil {
		updates["frequency"] = *input.Frequency
	}
	if input.EndDate != nil {
		updates["end_date"] = dateOnly(*input.EndDate)
	}
	if input.IsPaused != nil {
		updates["is_paused"] = *input.IsPaused
	}

	if len(updates) > 0 {
		if err := s.db.Model(recurring).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", recurring.ID).First(recurring).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return recurring, nil
}

// PauseRecurring suspends materialization for a template.
func (s *recurringService) PauseRecurring(ownerID, recurringID string) (*models.RecurringTransaction, error) {
	return s.setPaused(ownerID, recurringID, true)
}

// ResumeRecurring re-enables materialization for a paused template.
func (s *recurringService) ResumeRecurring(ownerID, recurringID string) (*models.RecurringTransaction, error) {
	return s.setPaused(ownerID, recurringID, false)
}

func (s *recurringService) setPaused(ownerID, recurringID string, paused bool) (*models.RecurringTransaction, error) {
	recurring, err := s.GetRecurringByID(ownerID, recurringID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(recurring).Update("is_paused", paused).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	recurring.IsPaused = paused
	return recurring, nil
}

// DeleteRecurring soft-deletes a template. Generated transactions keep their
// link to it. Deletion is terminal.
func (s *recurringService) DeleteRecurring(ownerID, recurringID string) error {
	recurring, err := s.GetRecurringByID(ownerID, recurringID)
	if err != nil {
		return err
	}

	if err := s.db.Model(recurring).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.audit.Log(ownerID, "delete", "recurring_transaction", recurring.ID, nil)
	return nil
}

// ExecuteRecurring materializes a single template on demand, outside the
// batch run, with the same atomicity guarantees.
func (s *recurringService) ExecuteRecurring(ownerID, recurringID string) (*models.Transaction, error) {
	recurring, err := s.GetRecurringByID(ownerID, recurringID)
	if err != nil {
		return nil, err
	}

	transaction, err := s.materialize(recurring)
	if err != nil {
		return nil, err
	}

	s.audit.Log(ownerID, "execute", "recurring_transaction", recurring.ID, map[string]interface{}{
		"transaction_id": transaction.ID,
	})
	return transaction, nil
}

// ProcessDue materializes every due template. Items are processed
// independently: one failure is logged, counted, and left due for the next
// run without aborting the rest. The returned error only reflects a failure
// to enumerate due templates.
func (s *recurringService) ProcessDue(today time.Time) (processed, failed int, err error) {
	today = dateOnly(today)

	var due []models.RecurringTransaction
	if err := s.db.
		Where("next_execution_date <= ? AND is_paused = ? AND is_active = ?", today, false, true).
		Where("end_date IS NULL OR end_date >= ?", today).
		Order("next_execution_date").
		Find(&due).Error; err != nil {
		return 0, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	log := logger.Get()
	for i := range due {
		rec := &due[i]
		if _, err := s.materialize(rec); err != nil {
			failed++
			log.Errorw("failed to materialize recurring transaction",
				"recurring_id", rec.ID,
				"error", err)
			continue
		}
		processed++
	}

	log.Infow("recurring batch run complete",
		"due", len(due),
		"processed", processed,
		"failed", failed)
	return processed, failed, nil
}

// materialize turns a template into a concrete transaction dated on its due
// date. The transaction write, the ledger effect, the last-executed
// timestamp, and the next-date advance commit as one unit. The conditional
// advance doubles as a claim: a concurrent run that lost the race sees no
// row updated and rolls back without materializing.
func (s *recurringService) materialize(recurring *models.RecurringTransaction) (*models.Transaction, error) {
	account, err := s.accountService.GetAccountByID(recurring.OwnerID, recurring.AccountID)
	if err != nil {
		return nil, err
	}

	dueDate := dateOnly(recurring.NextExecutionDate)
	next := NextExecutionDate(dueDate, recurring.Frequency, recurring.StartDate)
	now := time.Now()

	recurringID := recurring.ID
	transaction := &models.Transaction{
		OwnerID:     recurring.OwnerID,
		AccountID:   recurring.AccountID,
		CategoryID:  recurring.CategoryID,
		Type:        recurring.Type,
		Amount:      recurring.Amount,
		Description: recurring.Description,
		Date:        dueDate,
		RecurringID: &recurringID,
		IsActive:    true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RecurringTransaction{}).
			Where("id = ? AND next_execution_date = ?", recurring.ID, recurring.NextExecutionDate).
			Updates(map[string]interface{}{
				"next_execution_date": next,
				"last_executed_at":    now,
			})
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrRecurringAlreadyClaimed
		}

		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.ledger.applyCreate(tx, transaction, account, nil)
	})
	if err != nil {
		return nil, err
	}

	recurring.NextExecutionDate = next
	recurring.LastExecutedAt = &now
	return transaction, nil
}
