package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "moneyflow/internal/errors"
	"moneyflow/internal/models"
	"moneyflow/internal/money"
	"moneyflow/internal/validation"
)

// budgetService handles budget-related business logic. Budgets are read-only
// observers of the ledger: computing a status never mutates anything.
type budgetService struct {
	db              *gorm.DB
	categoryService CategoryServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, categoryService CategoryServicer) BudgetServicer {
	return &budgetService{db: db, categoryService: categoryService}
}

// CreateBudget creates a budget for one category in one month. At most one
// active budget may exist per (owner, category, month, year).
func (s *budgetService) CreateBudget(ownerID string, input CreateBudgetInput) (*models.Budget, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if !money.IsPositive(input.Amount) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	category, err := s.categoryService.GetCategoryByID(ownerID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Budget{}).
		Where("owner_id = ? AND category_id = ? AND month = ? AND year = ? AND is_active = ?",
			ownerID, category.ID, input.Month, input.Year, true).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateBudget
	}

	alertThreshold := decimal.NewFromInt(80)
	if input.AlertThreshold != nil {
		alertThreshold = *input.AlertThreshold
	}

	budget := &models.Budget{
		OwnerID:        ownerID,
		CategoryID:     category.ID,
		Month:          input.Month,
		Year:           input.Year,
		Amount:         input.Amount,
		AlertThreshold: alertThreshold,
		IsActive:       true,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetBudgetsByMonth retrieves the caller's active budgets for a month, each
// with its computed status.
func (s *budgetService) GetBudgetsByMonth(ownerID string, month, year int) ([]BudgetStatus, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	var budgets []models.Budget
	if err := s.db.
		Where("owner_id = ? AND month = ? AND year = ? AND is_active = ?", ownerID, month, year, true).
		Order("created_at").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	statuses := make([]BudgetStatus, 0, len(budgets))
	for i := range budgets {
		status, err := s.computeStatus(&budgets[i])
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, *status)
	}
	return statuses, nil
}

// GetBudgetByID retrieves an active budget owned by the caller.
func (s *budgetService) GetBudgetByID(ownerID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND owner_id = ? AND is_active = ?", budgetID, ownerID, true).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetBudgetStatus computes the spending status of a single budget.
func (s *budgetService) GetBudgetStatus(ownerID, budgetID string) (*BudgetStatus, error) {
	budget, err := s.GetBudgetByID(ownerID, budgetID)
	if err != nil {
		return nil, err
	}
	return s.computeStatus(budget)
}

// computeStatus sums the active expense transactions of the budget's category
// within its calendar month. Remaining may be negative when overspent.
func (s *budgetService) computeStatus(budget *models.Budget) (*BudgetStatus, error) {
	start, end := monthWindow(budget.Month, budget.Year)

	var spent decimal.Decimal
	row := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("owner_id = ? AND category_id = ? AND type = ? AND is_active = ?",
			budget.OwnerID, budget.CategoryID, models.TransactionTypeExpense, true).
		Where("date >= ? AND date <= ?", start, end).
		Row()
	if err := row.Scan(&spent); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	percentageUsed := money.Percent(spent, budget.Amount)

	return &BudgetStatus{
		BudgetID:         budget.ID,
		CategoryID:       budget.CategoryID,
		Month:            budget.Month,
		Year:             budget.Year,
		Amount:           budget.Amount,
		AlertThreshold:   budget.AlertThreshold,
		Spent:            spent,
		Remaining:        budget.Amount.Sub(spent),
		PercentageUsed:   percentageUsed,
		IsOverBudget:     spent.GreaterThan(budget.Amount),
		IsAlertTriggered: percentageUsed.GreaterThanOrEqual(budget.AlertThreshold),
	}, nil
}

// UpdateBudget updates an existing budget's amount or alert threshold. The
// category and month are fixed at creation.
func (s *budgetService) UpdateBudget(ownerID, budgetID string, input UpdateBudgetInput) (*models.Budget, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	budget, err := s.GetBudgetByID(ownerID, budgetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if input.Amount != nil {
		if !money.IsPositive(*input.Amount) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		updates["amount"] = *input.Amount
	}
	if input.AlertThreshold != nil {
		updates["alert_threshold"] = *input.AlertThreshold
	}

	if len(updates) > 0 {
		if err := s.db.Model(budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", budget.ID).First(budget).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return budget, nil
}

// DeleteBudget soft-deletes a budget. The underlying transactions are untouched.
func (s *budgetService) DeleteBudget(ownerID, budgetID string) error {
	budget, err := s.GetBudgetByID(ownerID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Model(budget).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
