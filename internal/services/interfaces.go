package services

import (
	"time"

	"github.com/shopspring/decimal"

	"moneyflow/internal/models"
	"moneyflow/internal/pagination"
)

// CreateAccountInput holds the fields for creating an account.
type CreateAccountInput struct {
	Name           string             `validate:"required"`
	Type           models.AccountType `validate:"required,account_type"`
	Currency       string             `validate:"omitempty,iso4217"`
	InitialBalance decimal.Decimal
	Icon           string
	Color          string
	TeamID         *string `validate:"omitempty,uuid"`
	IsDefault      bool
}

// UpdateAccountInput holds the optional fields for updating an account.
type UpdateAccountInput struct {
	Name      *string
	Icon      *string
	Color     *string
	IsDefault *bool
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(ownerID string, input CreateAccountInput) (*models.Account, error)
	GetUserAccounts(ownerID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(ownerID, accountID string) (*models.Account, error)
	UpdateAccount(ownerID, accountID string, input UpdateAccountInput) (*models.Account, error)
	DeleteAccount(ownerID, accountID string) error
}

// CreateCategoryInput holds the fields for creating a category.
type CreateCategoryInput struct {
	Name  string              `validate:"required"`
	Type  models.CategoryType `validate:"required,category_type"`
	Icon  string
	Color string
}

// UpdateCategoryInput holds the optional fields for updating a category.
type UpdateCategoryInput struct {
	Name  *string
	Icon  *string
	Color *string
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(ownerID string, input CreateCategoryInput) (*models.Category, error)
	GetUserCategories(ownerID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(ownerID, categoryID string) (*models.Category, error)
	UpdateCategory(ownerID, categoryID string, input UpdateCategoryInput) (*models.Category, error)
	DeleteCategory(ownerID, categoryID string) error
}

// CreateTransactionInput holds the fields for creating a transaction.
type CreateTransactionInput struct {
	AccountID   string                 `validate:"required,uuid"`
	CategoryID  string                 `validate:"required,uuid"`
	Type        models.TransactionType `validate:"required,transaction_type"`
	Amount      decimal.Decimal
	Description string
	Note        string
	Date        time.Time

	// Required iff Type is transfer
	TransferToAccountID *string `validate:"omitempty,uuid"`
}

// UpdateTransactionInput holds the optional fields for updating a transaction.
// Amount changes carry a balance effect; the rest are balance-inert.
type UpdateTransactionInput struct {
	Amount      *decimal.Decimal
	CategoryID  *string `validate:"omitempty,uuid"`
	Description *string
	Note        *string
	Date        *time.Time
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	AccountID  *string
	CategoryID *string
	Type       *models.TransactionType
	FromDate   *time.Time
	ToDate     *time.Time
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(ownerID string, input CreateTransactionInput) (*models.Transaction, error)
	GetUserTransactions(ownerID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(ownerID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(ownerID, transactionID string, input UpdateTransactionInput) (*models.Transaction, error)
	DeleteTransaction(ownerID, transactionID string) error
}

// CreateRecurringInput holds the fields for creating a recurring template.
type CreateRecurringInput struct {
	AccountID   string                 `validate:"required,uuid"`
	CategoryID  string                 `validate:"required,uuid"`
	Type        models.TransactionType `validate:"required,transaction_type"`
	Amount      decimal.Decimal
	Description string
	Frequency   models.Frequency `validate:"required,frequency"`
	StartDate   time.Time        `validate:"required"`
	EndDate     *time.Time
}

// UpdateRecurringInput holds the optional fields for updating a recurring template.
type UpdateRecurringInput struct {
	CategoryID  *string `validate:"omitempty,uuid"`
	Amount      *decimal.Decimal
	Description *string
	Frequency   *models.Frequency `validate:"omitempty,frequency"`
	EndDate     *time.Time
	IsPaused    *bool
}

// RecurringServicer defines the contract for recurring transaction scheduling.
type RecurringServicer interface {
	CreateRecurring(ownerID string, input CreateRecurringInput) (*models.RecurringTransaction, error)
	GetUserRecurring(ownerID string, page pagination.PageRequest) (*pagination.PageResponse[models.RecurringTransaction], error)
	GetRecurringByID(ownerID, recurringID string) (*models.RecurringTransaction, error)
	UpdateRecurring(ownerID, recurringID string, input UpdateRecurringInput) (*models.RecurringTransaction, error)
	PauseRecurring(ownerID, recurringID string) (*models.RecurringTransaction, error)
	ResumeRecurring(ownerID, recurringID string) (*models.RecurringTransaction, error)
	DeleteRecurring(ownerID, recurringID string) error
	ExecuteRecurring(ownerID, recurringID string) (*models.Transaction, error)
	ProcessDue(today time.Time) (processed, failed int, err error)
}

// CreateBudgetInput holds the fields for creating a budget.
type CreateBudgetInput struct {
	CategoryID     string `validate:"required,uuid"`
	Month          int    `validate:"required,min=1,max=12"`
	Year           int    `validate:"required,min=1970"`
	Amount         decimal.Decimal
	AlertThreshold *decimal.Decimal
}

// UpdateBudgetInput holds the optional fields for updating a budget.
type UpdateBudgetInput struct {
	Amount         *decimal.Decimal
	AlertThreshold *decimal.Decimal
}

// BudgetStatus contains a budget together with its read-time spending figures.
type BudgetStatus struct {
	BudgetID         string          `json:"budget_id"`
	CategoryID       string          `json:"category_id"`
	Month            int             `json:"month"`
	Year             int             `json:"year"`
	Amount           decimal.Decimal `json:"amount"`
	AlertThreshold   decimal.Decimal `json:"alert_threshold"`
	Spent            decimal.Decimal `json:"spent"`
	Remaining        decimal.Decimal `json:"remaining"`
	PercentageUsed   decimal.Decimal `json:"percentage_used"`
	IsOverBudget     bool            `json:"is_over_budget"`
	IsAlertTriggered bool            `json:"is_alert_triggered"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(ownerID string, input CreateBudgetInput) (*models.Budget, error)
	GetBudgetsByMonth(ownerID string, month, year int) ([]BudgetStatus, error)
	GetBudgetByID(ownerID, budgetID string) (*models.Budget, error)
	GetBudgetStatus(ownerID, budgetID string) (*BudgetStatus, error)
	UpdateBudget(ownerID, budgetID string, input UpdateBudgetInput) (*models.Budget, error)
	DeleteBudget(ownerID, budgetID string) error
}

// AccountSummary is a per-account line in the dashboard summary.
type AccountSummary struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Type     models.AccountType `json:"type"`
	Balance  decimal.Decimal    `json:"balance"`
	Currency string             `json:"currency"`
	Icon     string             `json:"icon,omitempty"`
	Color    string             `json:"color,omitempty"`
}

// CategorySummary aggregates transactions of one category within one type.
type CategorySummary struct {
	CategoryID       string          `json:"category_id"`
	Name             string          `json:"name"`
	Icon             string          `json:"icon,omitempty"`
	Color            string          `json:"color,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Percentage       decimal.Decimal `json:"percentage"`
	TransactionCount int             `json:"transaction_count"`
}

// DashboardSummary is the aggregated view for a date range.
type DashboardSummary struct {
	TotalBalance         decimal.Decimal   `json:"total_balance"`
	TotalIncome          decimal.Decimal   `json:"total_income"`
	TotalExpense         decimal.Decimal   `json:"total_expense"`
	NetFlow              decimal.Decimal   `json:"net_flow"`
	TotalTransactions    int               `json:"total_transactions"`
	Accounts             []AccountSummary  `json:"accounts"`
	TopIncomeCategories  []CategorySummary `json:"top_income_categories"`
	TopExpenseCategories []CategorySummary `json:"top_expense_categories"`
}

// DailyFlow is one day's income/expense totals in a monthly report.
type DailyFlow struct {
	Day     int             `json:"day"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// MonthlyReport is the full per-month breakdown.
type MonthlyReport struct {
	Month            int               `json:"month"`
	Year             int               `json:"year"`
	TotalIncome      decimal.Decimal   `json:"total_income"`
	TotalExpense     decimal.Decimal   `json:"total_expense"`
	NetFlow          decimal.Decimal   `json:"net_flow"`
	DailyFlows       []DailyFlow       `json:"daily_flows"`
	IncomeBreakdown  []CategorySummary `json:"income_breakdown"`
	ExpenseBreakdown []CategorySummary `json:"expense_breakdown"`
}

// ReportServicer defines the contract for read-only aggregations.
type ReportServicer interface {
	GetDashboardSummary(ownerID string, from, to time.Time) (*DashboardSummary, error)
	GetMonthlyReport(ownerID string, month, year int) (*MonthlyReport, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ownerID, action, resourceType, resourceID string, changes map[string]interface{})
}
