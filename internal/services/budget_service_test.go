package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moneyflow/internal/models"
	"moneyflow/internal/testutil"
)

func newTestBudgetService(db *gorm.DB) BudgetServicer {
	return NewBudgetService(db, NewCategoryService(db))
}

func TestCreateBudget(t *testing.T) {
	t.Run("creates_with_default_threshold", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := newTestBudgetService(db)
		owner := testutil.NewOwnerID()
		category := testutil.CreateTestCategory(t, db, owner, models.CategoryTypeExpense)

		budget, err := budgetSvc.CreateBudget(owner, CreateBudgetInput{
			CategoryID: category.ID,
			Month:      3,
			Year:       2026,
			Amount:     decimal.RequireFromString("500.00"),
		})
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, budget.AlertThreshold, "80")
	})

	t.Run("duplicate_period_conflicts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := newTestBudgetService(db)
		owner := testutil.NewOwnerID()
		category := testutil.CreateTestCategory(t, db, owner, models.CategoryTypeExpense)
		testutil.CreateTestBudget(t, db, owner, category.ID, 3, 2026, "500.00")

		_, err := budgetSvc.CreateBudget(owner, CreateBudgetInput{
			CategoryID: category.ID,
			Month:      3,
			Year:       2026,
			Amount:     decimal.RequireFromString("600.00"),
		})
		testutil.AssertAppError(t, err, "DUPLICATE_BUDGET")
	})

	t.Run("deleted_budget_frees_the_period", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := newTestBudgetService(db)
		owner := testutil.NewOwnerID()
		category := testutil.CreateTestCategory(t, db, owner, models.CategoryTypeExpense)
		old := testutil.CreateTestBudget(t, db, owner, category.ID, 3, 2026, "500.00")

		testutil.AssertNoError(t, budgetSvc.DeleteBudget(owner, old.ID))

		_, err := budgetSvc.CreateBudget(owner, CreateBudgetInput{
			CategoryID: category.ID,
			Month:      3,
			Year:       2026,
			Amount:     decimal.RequireFromString("600.00"),
		})
		testutil.AssertNoError(t, err)
	})

	t.Run("same_category_different_month_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := newTestBudgetService(db)
		owner := testutil.NewOwnerID()
		category := testutil.CreateTestCategory(t, db, owner, models.CategoryTypeExpense)
		testutil.CreateTestBudget(t, db, owner, category.ID, 3, 2026, "500.00")

		_, err := budgetSvc.CreateBudget(owner, CreateBudgetInput{
			CategoryID: category.ID,
			Month:      4,
			Year:       2026,
			Amount:     decimal.RequireFromString("500.00"),
		})
		testutil.AssertNoError(t, err)
	})

	t.Run("category_not_owned", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := newTestBudgetService(db)
		owner := testutil.NewOwnerID()
		category := testutil.CreateTestCategory(t, db, testutil.NewOwnerID(), models.CategoryTypeExpense)

		_, err := budgetSvc.CreateBudget(owner, CreateBudgetInput{
			CategoryID: category.ID,
			Month:      3,
			Year:       2026,
			Amount:     decimal.RequireFromString("500.00"),
		})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("invalid_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := newTestBudgetService(db)
		owner := testutil.NewOwnerID()
		category := testutil.CreateTestCategory(t, db, owner, models.CategoryTypeExpense)

		_, err := budgetSvc.CreateBudget(owner, CreateBudgetInput{
			CategoryID: category.ID,
			Month:      13,
			Year:       2026,
			Amount:     decimal.RequireFromString("500.00"),
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetBudgetStatus(t *testing.T) {
	t.Run("computes_spent_remaining_and_percentage", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := newTestBudgetService(db)
		owner := testutil.NewOwnerID()
		account := testutil.CreateTestAccount(t, db, owner, "0.00")
		category := testutil.CreateTestCategory(t, db, owner, models.CategoryTypeExpense)
		budget := testutil.CreateTestBudget(t, db, owner, category.ID, 3, 2026, "500.00")

		testutil.CreateTestTransaction(t, db, owner, account.ID, category.ID,
			models.TransactionTypeExpense, "120.00", testutil.Date(2026, time.March, 5))
		testutil.CreateTestTransaction(t, db, owner, account.ID, category.ID,
			models.TransactionTypeExpense, "80.00", testutil.Date(2026, time.March, 20))

		status, err := budgetSvc.GetBudgetStatus(owner, budget.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, status.Spent, "200.00")
		testutil.AssertDecimalEqual(t, status.Remaining, "300.00")
		testutil.AssertDecimalEqual(t, status.PercentageUsed, "40.00")
		if status.IsOverBudget {
			t.Error("expected budget not over")
		}
		if status.IsAlertTriggered {
			t.Error("expected alert not triggered at 40%")
		}
	})

	t.Run("ignores_income_inactive_and_out_of_window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := newTestBudgetService(db)
		owner := testutil.NewOwnerID()
		account := testutil.CreateTestAccount(t, db, owner, "0.00")
		category := testutil.CreateTestCategory(t, db, owner, models.CategoryTypeExpense)
		budget := testutil.CreateTestBudget(t, db, owner, category.ID, 3, 2026, "500.00")

		// Counted: in window, expense, active
		testutil.CreateTestTransaction(t, db, owner, account.ID, category.ID,
			models.TransactionTypeExpense, "50.00", testutil.Date(2026, time.March, 1))
		testutil.CreateTestTransaction(t, db, owner, account.ID, category.ID,
			models.TransactionTypeExpense, "50.00", testutil.Date(2026, time.March, 31))

		// Not counted
		testutil.CreateTestTransaction(t, db, owner, account.ID, category.ID,
			models.TransactionTypeIncome, "999.00", testutil.Date(2026, time.March, 10))
		testutil.CreateTestTransaction(t, db, owner, account.ID, category.ID,
			models.TransactionTypeExpense, "999.00", testutil.Date(2026, time.February, 28))
		testutil.CreateTestTransaction(t, db, owner, account.ID, category.ID,
			models.TransactionTypeExpense, "999.00", testutil.Date(2026, time.April, 1))
		inactive := testutil.CreateTestTransaction(t, db, owner, account.ID, category.ID,
			models.TransactionTypeExpense, "999.00", testutil.Date(2026, time.March, 15))
		testutil.AssertNoError(t, db.Model(inactive).Update("is_active", false).Error)

		status, err := budgetSvc.GetBudgetStatus(owner, budget.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, status.Spent, "100.00")
	})

	t.Run("over_budget_and_alert", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := newTestBudgetService(db)
		owner := testutil.NewOwnerID()
		account := testutil.CreateTestAccount(t, db, owner, "0.00")
		category := testutil.CreateTestCategory(t, db, owner, models.CategoryTypeExpense)
		budget := testutil.CreateTestBudget(t, db, owner, category.ID, 3, 2026, "100.00")

		testutil.CreateTestTransaction(t, db, owner, account.ID, category.ID,
			models.TransactionTypeExpense, "150.00", testutil.Date(2026, time.March, 5))

		status, err := budgetSvc.GetBudgetStatus(owner, budget.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, status.Remaining, "-50.00")
		testutil.AssertDecimalEqual(t, status.PercentageUsed, "150.00")
		if !status.IsOverBudget {
			t.Error("expected budget over")
		}
		if !status.IsAlertTriggered {
			t.Error("expected alert triggered")
		}
	})

	t.Run("alert_triggers_exactly_at_threshold", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := newTestBudgetService(db)
		owner := testutil.NewOwnerID()
		account := testutil.CreateTestAccount(t, db, owner, "0.00")
		category := testutil.CreateTestCategory(t, db, owner, models.CategoryTypeExpense)
		budget := testutil.CreateTestBudget(t, db, owner, category.ID, 3, 2026, "100.00")

		testutil.CreateTestTransaction(t, db, owner, account.ID, category.ID,
			models.TransactionTypeExpense, "80.00", testutil.Date(2026, time.March, 5))

		status, err := budgetSvc.GetBudgetStatus(owner, budget.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, status.PercentageUsed, "80.00")
		if !status.IsAlertTriggered {
			t.Error("expected alert at exactly the threshold")
		}
		if status.IsOverBudget {
			t.Error("expected not over budget at 80%")
		}
	})

	t.Run("no_spending_yields_zero_percentage", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := newTestBudgetService(db)
		owner := testutil.NewOwnerID()
		category := testutil.CreateTestCategory(t, db, owner, models.CategoryTypeExpense)
		budget := testutil.CreateTestBudget(t, db, owner, category.ID, 3, 2026, "500.00")

		status, err := budgetSvc.GetBudgetStatus(owner, budget.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, status.Spent, "0")
		testutil.AssertDecimalEqual(t, status.Remaining, "500.00")
		testutil.AssertDecimalEqual(t, status.PercentageUsed, "0")
	})
}

func TestGetBudgetsByMonth(t *testing.T) {
	t.Run("returns_statuses_for_the_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := newTestBudgetService(db)
		owner := testutil.NewOwnerID()
		groceries := testutil.CreateTestCategory(t, db, owner, models.CategoryTypeExpense)
		rent := testutil.CreateTestCategory(t, db, owner, models.CategoryTypeExpense)

		testutil.CreateTestBudget(t, db, owner, groceries.ID, 3, 2026, "500.00")
		testutil.CreateTestBudget(t, db, owner, rent.ID, 3, 2026, "1500.00")
		testutil.CreateTestBudget(t, db, owner, rent.ID, 4, 2026, "1500.00")

		statuses, err := budgetSvc.GetBudgetsByMonth(owner, 3, 2026)
		testutil.AssertNoError(t, err)

		if len(statuses) != 2 {
			t.Fatalf("expected 2 budgets for March, got %d", len(statuses))
		}
	})

	t.Run("excludes_inactive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := newTestBudgetService(db)
		owner := testutil.NewOwnerID()
		category := testutil.CreateTestCategory(t, db, owner, models.CategoryTypeExpense)
		budget := testutil.CreateTestBudget(t, db, owner, category.ID, 3, 2026, "500.00")

		testutil.AssertNoError(t, budgetSvc.DeleteBudget(owner, budget.ID))

		statuses, err := budgetSvc.GetBudgetsByMonth(owner, 3, 2026)
		testutil.AssertNoError(t, err)
		if len(statuses) != 0 {
			t.Fatalf("expected no budgets, got %d", len(statuses))
		}
	})
}

func TestUpdateBudget(t *testing.T) {
	t.Run("updates_amount_and_threshold", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := newTestBudgetService(db)
		owner := testutil.NewOwnerID()
		category := testutil.CreateTestCategory(t, db, owner, models.CategoryTypeExpense)
		budget := testutil.CreateTestBudget(t, db, owner, category.ID, 3, 2026, "500.00")

		amount := decimal.RequireFromString("750.00")
		threshold := decimal.RequireFromString("90")
		updated, err := budgetSvc.UpdateBudget(owner, budget.ID, UpdateBudgetInput{
			Amount:         &amount,
			AlertThreshold: &threshold,
		})
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, updated.Amount, "750.00")
		testutil.AssertDecimalEqual(t, updated.AlertThreshold, "90")
	})

	t.Run("nonpositive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := newTestBudgetService(db)
		owner := testutil.NewOwnerID()
		category := testutil.CreateTestCategory(t, db, owner, models.CategoryTypeExpense)
		budget := testutil.CreateTestBudget(t, db, owner, category.ID, 3, 2026, "500.00")

		zero := decimal.Zero
		_, err := budgetSvc.UpdateBudget(owner, budget.ID, UpdateBudgetInput{Amount: &zero})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := newTestBudgetService(db)

		amount := decimal.RequireFromString("10.00")
		_, err := budgetSvc.UpdateBudget(testutil.NewOwnerID(), testutil.NewOwnerID(), UpdateBudgetInput{Amount: &amount})
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}
