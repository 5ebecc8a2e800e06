package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "moneyflow/internal/errors"
	"moneyflow/internal/models"
	"moneyflow/internal/money"
)

const topCategoryCount = 5

// reportService computes read-only aggregations over accounts and
// transactions. Reports never mutate anything; they reflect the committed
// state at the moment of the read.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// GetDashboardSummary aggregates the caller's accounts and the transactions
// within [from, to] into one view. Transfers move money between accounts and
// count as neither income nor expense.
func (s *reportService) GetDashboardSummary(ownerID string, from, to time.Time) (*DashboardSummary, error) {
	from = dateOnly(from)
	to = dateOnly(to)
	if to.Before(from) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date range end must not be before start")
	}

	var accounts []models.Account
	if err := s.db.Where("owner_id = ? AND is_active = ?", ownerID, true).
		Order("created_at").
		Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &DashboardSummary{
		Accounts:             make([]AccountSummary, 0, len(accounts)),
		TopIncomeCategories:  []CategorySummary{},
		TopExpenseCategories: []CategorySummary{},
	}
	for i := range accounts {
		a := &accounts[i]
		summary.TotalBalance = summary.TotalBalance.Add(a.Balance)
		summary.Accounts = append(summary.Accounts, AccountSummary{
			ID:       a.ID,
			Name:     a.Name,
			Type:     a.Type,
			Balance:  a.Balance,
			Currency: a.Currency,
			Icon:     a.Icon,
			Color:    a.Color,
		})
	}

	transactions, err := s.findTransactionsInRange(ownerID, from, to)
	if err != nil {
		return nil, err
	}

	summary.TotalTransactions = len(transactions)
	incomeByCategory := make(map[string]*CategorySummary)
	expenseByCategory := make(map[string]*CategorySummary)

	for i := range transactions {
		t := &transactions[i]
		switch t.Type {
		case models.TransactionTypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount)
			accumulateCategory(incomeByCategory, t)
		case models.TransactionTypeExpense:
			summary.TotalExpense = summary.TotalExpense.Add(t.Amount)
			accumulateCategory(expenseByCategory, t)
		}
	}
	summary.NetFlow = summary.TotalIncome.Sub(summary.TotalExpense)

	if err := s.fillCategoryNames(ownerID, incomeByCategory, expenseByCategory); err != nil {
		return nil, err
	}

	summary.TopIncomeCategories = topCategories(incomeByCategory, summary.TotalIncome, topCategoryCount)
	summary.TopExpenseCategories = topCategories(expenseByCategory, summary.TotalExpense, topCategoryCount)
	return summary, nil
}

// GetMonthlyReport computes the full breakdown for one calendar month,
// including a flow entry for every day of the month. Days without
// transactions appear with zero amounts.
func (s *reportService) GetMonthlyReport(ownerID string, month, year int) (*MonthlyReport, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	start, end := monthWindow(month, year)
	transactions, err := s.findTransactionsInRange(ownerID, start, end)
	if err != nil {
		return nil, err
	}

	report := &MonthlyReport{
		Month:            month,
		Year:             year,
		IncomeBreakdown:  []CategorySummary{},
		ExpenseBreakdown: []CategorySummary{},
	}

	days := lastDayOfMonth(year, time.Month(month))
	report.DailyFlows = make([]DailyFlow, days)
	for d := range report.DailyFlows {
		report.DailyFlows[d].Day = d + 1
	}

	incomeByCategory := make(map[string]*CategorySummary)
	expenseByCategory := make(map[string]*CategorySummary)

	for i := range transactions {
		t := &transactions[i]
		flow := &report.DailyFlows[t.Date.Day()-1]
		switch t.Type {
		case models.TransactionTypeIncome:
			report.TotalIncome = report.TotalIncome.Add(t.Amount)
			flow.Income = flow.Income.Add(t.Amount)
			accumulateCategory(incomeByCategory, t)
		case models.TransactionTypeExpense:
			report.TotalExpense = report.TotalExpense.Add(t.Amount)
			flow.Expense = flow.Expense.Add(t.Amount)
			accumulateCategory(expenseByCategory, t)
		}
	}
	report.NetFlow = report.TotalIncome.Sub(report.TotalExpense)
	for d := range report.DailyFlows {
		flow := &report.DailyFlows[d]
		flow.Net = flow.Income.Sub(flow.Expense)
	}

	if err := s.fillCategoryNames(ownerID, incomeByCategory, expenseByCategory); err != nil {
		return nil, err
	}

	report.IncomeBreakdown = topCategories(incomeByCategory, report.TotalIncome, 0)
	report.ExpenseBreakdown = topCategories(expenseByCategory, report.TotalExpense, 0)
	return report, nil
}

func (s *reportService) findTransactionsInRange(ownerID string, from, to time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		Where("date >= ? AND date <= ?", from, to).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

func accumulateCategory(byCategory map[string]*CategorySummary, t *models.Transaction) {
	entry, ok := byCategory[t.CategoryID]
	if !ok {
		entry = &CategorySummary{CategoryID: t.CategoryID}
		byCategory[t.CategoryID] = entry
	}
	entry.Amount = entry.Amount.Add(t.Amount)
	entry.TransactionCount++
}

// fillCategoryNames resolves display fields for every referenced category in
// one batch query. Archived categories still resolve; history keeps its labels.
func (s *reportService) fillCategoryNames(ownerID string, groups ...map[string]*CategorySummary) error {
	ids := make([]string, 0)
	for _, group := range groups {
		for id := range group {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var categories []models.Category
	if err := s.db.Where("owner_id = ? AND id IN ?", ownerID, ids).
		Find(&categories).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range categories {
		c := &categories[i]
		for _, group := range groups {
			if entry, ok := group[c.ID]; ok {
				entry.Name = c.Name
				entry.Icon = c.Icon
				entry.Color = c.Color
			}
		}
	}
	return nil
}

// topCategories sorts category summaries by amount descending, computes each
// share of the total, and keeps the top limit entries. A limit of zero keeps
// everything.
func topCategories(byCategory map[string]*CategorySummary, total decimal.Decimal, limit int) []CategorySummary {
	summaries := make([]CategorySummary, 0, len(byCategory))
	for _, entry := range byCategory {
		entry.Percentage = money.Percent(entry.Amount, total)
		summaries = append(summaries, *entry)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Amount.Equal(summaries[j].Amount) {
			return summaries[i].Name < summaries[j].Name
		}
		return summaries[i].Amount.GreaterThan(summaries[j].Amount)
	})

	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries
}
