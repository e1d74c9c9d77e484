package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "moneymate/internal/errors"
	"moneymate/internal/ledger"
	"moneymate/internal/models"
	"moneymate/internal/pagination"
)

var oneHundred = decimal.NewFromInt(100)

// budgetService handles budget-related business logic.
type budgetService struct {
	db     *gorm.DB
	ledger *ledger.Ledger
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, l *ledger.Ledger) BudgetServicer {
	return &budgetService{db: db, ledger: l}
}

// CreateBudget creates a new budget for a category.
func (s *budgetService) CreateBudget(
	userID, categoryID uint,
	amount decimal.Decimal,
	period models.BudgetPeriod,
	startDate time.Time,
	endDate *time.Time,
) (*models.Budget, error) {
	if err := validateBudgetFields(amount, period, startDate, endDate); err != nil {
		return nil, err
	}

	// Verify category exists
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     amount,
		Period:     period,
		StartDate:  startDate,
		EndDate:    endDate,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// UpdateBudget replaces the fields of an existing budget.
func (s *budgetService) UpdateBudget(
	userID, budgetID, categoryID uint,
	amount decimal.Decimal,
	period models.BudgetPeriod,
	startDate time.Time,
	endDate *time.Time,
) (*models.Budget, error) {
	if err := validateBudgetFields(amount, period, startDate, endDate); err != nil {
		return nil, err
	}

	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := map[string]interface{}{
		"category_id": categoryID,
		"amount":      amount,
		"period":      period,
		"start_date":  startDate,
		"end_date":    endDate,
	}
	if err := s.db.Model(budget).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", budgetID, userID).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetUserBudgets returns a paginated list of the user's budgets in id order.
func (s *budgetService) GetUserBudgets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Preload("Category").
		Order("id ASC").
		Scopes(pagination.Paginate(page)).
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetsByCategory returns the user's budgets for one category.
func (s *budgetService) GetBudgetsByCategory(userID, categoryID uint) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := s.db.Preload("Category").
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Order("id ASC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// GetBudgetsByDateRange returns the user's budgets whose own date range
// overlaps [start, end].
func (s *budgetService) GetBudgetsByDateRange(userID uint, start, end time.Time) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := s.db.Preload("Category").
		Where("user_id = ? AND start_date <= ? AND (end_date IS NULL OR end_date >= ?)",
			userID, ledger.EndOfDay(end), ledger.StartOfDay(start)).
		Order("id ASC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// CurrentBudgets returns the user's monthly budgets that overlap the current
// calendar month. Budgets with other periods are deliberately excluded; they
// are reachable through the plain list and per-budget status calls.
func (s *budgetService) CurrentBudgets(userID uint) ([]models.Budget, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := ledger.EndOfDay(monthStart.AddDate(0, 1, -1))

	var budgets []models.Budget
	if err := s.db.Preload("Category").
		Where("user_id = ? AND period = ? AND start_date <= ? AND (end_date IS NULL OR end_date >= ?)",
			userID, models.BudgetPeriodMonthly, monthEnd, monthStart).
		Order("id ASC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// CheckBudgetStatus computes how much of the budget has been spent. Spending
// is summed over the budget's own stored date range; a budget without an end
// date is evaluated up to today. The percentage is rounded half-up to two
// decimal places; everything else stays exact.
func (s *budgetService) CheckBudgetStatus(budget *models.Budget) (*BudgetStatus, error) {
	// Creation and update validation guarantee a positive amount; a zero
	// amount here means the invariant was bypassed.
	if !budget.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Budget amount must be greater than zero")
	}

	end := time.Now()
	if budget.EndDate != nil {
		end = *budget.EndDate
	}

	spent, err := s.ledger.SumByCategory(budget.UserID, budget.CategoryID, budget.StartDate, end)
	if err != nil {
		return nil, err
	}

	remaining := budget.Amount.Sub(spent)
	percentageUsed := spent.Mul(oneHundred).Div(budget.Amount).Round(2)

	return &BudgetStatus{
		Budget:         *budget,
		Spent:          spent,
		Remaining:      remaining,
		PercentageUsed: percentageUsed,
		OverBudget:     percentageUsed.GreaterThan(oneHundred),
	}, nil
}

// CheckAllBudgets evaluates every budget of the user, in id order. Any
// evaluation failure fails the whole batch.
func (s *budgetService) CheckAllBudgets(userID uint) ([]BudgetStatus, error) {
	var budgets []models.Budget
	if err := s.db.Preload("Category").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	statuses := make([]BudgetStatus, 0, len(budgets))
	for i := range budgets {
		status, err := s.CheckBudgetStatus(&budgets[i])
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, *status)
	}
	return statuses, nil
}

// DeleteBudget removes a budget belonging to the user.
func (s *budgetService) DeleteBudget(userID, budgetID uint) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func validateBudgetFields(amount decimal.Decimal, period models.BudgetPeriod, startDate time.Time, endDate *time.Time) error {
	if !amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrValidation, "Amount must be greater than zero")
	}
	switch period {
	case models.BudgetPeriodDaily, models.BudgetPeriodWeekly, models.BudgetPeriodMonthly, models.BudgetPeriodYearly:
	default:
		return apperrors.WithMessage(apperrors.ErrValidation, "Invalid budget period")
	}
	if startDate.IsZero() {
		return apperrors.WithMessage(apperrors.ErrValidation, "Start date is required")
	}
	if endDate != nil && startDate.After(*endDate) {
		return apperrors.WithMessage(apperrors.ErrValidation, "Start date cannot be after end date")
	}
	return nil
}
