package services

import (
	"time"

	"github.com/shopspring/decimal"

	"moneymate/internal/models"
	"moneymate/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(username, password, email string) (*models.User, error)
	Login(username, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	UpdateProfile(userID uint, username, email string) (*models.User, error)
	UpdatePassword(userID uint, oldPassword, newPassword string) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(name string, categoryType models.CategoryType, description string) (*models.Category, error)
	GetCategories(page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoriesByType(categoryType models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(categoryID uint) (*models.Category, error)
	GetCategoryByName(name string) (*models.Category, error)
	UpdateCategory(categoryID uint, name string, categoryType models.CategoryType, description string) (*models.Category, error)
	DeleteCategory(categoryID uint) error
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	AddTransaction(userID, categoryID uint, amount decimal.Decimal, description string, date time.Time, txType models.TransactionType) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID, categoryID uint, amount decimal.Decimal, description string, date time.Time, txType models.TransactionType) (*models.Transaction, error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	GetUserTransactions(userID uint, start, end time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	DeleteTransaction(userID, transactionID uint) error
	Balance(userID uint, start, end time.Time) (decimal.Decimal, error)
	TotalIncome(userID uint, start, end time.Time) (decimal.Decimal, error)
	TotalExpenses(userID uint, start, end time.Time) (decimal.Decimal, error)
}

// BudgetStatus describes how far a budget has been consumed. It is computed
// on demand and never persisted. OverBudget is true when the rounded
// percentage exceeds 100; exactly 100.00 is still within budget.
type BudgetStatus struct {
	Budget         models.Budget   `json:"budget"`
	Spent          decimal.Decimal `json:"spent"`
	Remaining      decimal.Decimal `json:"remaining"`
	PercentageUsed decimal.Decimal `json:"percentage_used"`
	OverBudget     bool            `json:"over_budget"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, categoryID uint, amount decimal.Decimal, period models.BudgetPeriod, startDate time.Time, endDate *time.Time) (*models.Budget, error)
	UpdateBudget(userID, budgetID, categoryID uint, amount decimal.Decimal, period models.BudgetPeriod, startDate time.Time, endDate *time.Time) (*models.Budget, error)
	GetBudgetByID(userID, budgetID uint) (*models.Budget, error)
	GetUserBudgets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetsByCategory(userID, categoryID uint) ([]models.Budget, error)
	GetBudgetsByDateRange(userID uint, start, end time.Time) ([]models.Budget, error)
	CurrentBudgets(userID uint) ([]models.Budget, error)
	CheckBudgetStatus(budget *models.Budget) (*BudgetStatus, error)
	CheckAllBudgets(userID uint) ([]BudgetStatus, error)
	DeleteBudget(userID, budgetID uint) error
}

// MonthlyReport summarizes one calendar month of activity. NetSavings is
// always TotalIncome minus TotalExpenses; it is never queried separately.
type MonthlyReport struct {
	Month          time.Time                `json:"month"`
	TotalIncome    decimal.Decimal          `json:"total_income"`
	TotalExpenses  decimal.Decimal          `json:"total_expenses"`
	NetSavings     decimal.Decimal          `json:"net_savings"`
	CategoryTotals map[uint]decimal.Decimal `json:"category_totals"`
}

// SpendingTrend holds parallel date/amount sequences for one category,
// ordered ascending by transaction date and index-aligned.
type SpendingTrend struct {
	Dates    []time.Time       `json:"dates"`
	Amounts  []decimal.Decimal `json:"amounts"`
	Category string            `json:"category"`
}

// PeriodSummary contains the headline totals for an arbitrary date window.
type PeriodSummary struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Balance       decimal.Decimal `json:"balance"`
}

// ReportServicer defines the contract for report generation.
type ReportServicer interface {
	MonthlyReport(userID uint, month time.Time) (*MonthlyReport, error)
	AnnualReport(userID uint, year int) ([]MonthlyReport, error)
	SpendingTrend(userID, categoryID uint, start, end time.Time) (*SpendingTrend, error)
	Summary(userID uint, start, end time.Time) (*PeriodSummary, error)
}
