package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "moneymate/internal/errors"
	"moneymate/internal/models"
	"moneymate/internal/pagination"
	"moneymate/internal/services"
)

// --- mock budget service ---

type mockBudgetService struct {
	createBudgetFn          func(userID, categoryID uint, amount decimal.Decimal, period models.BudgetPeriod, startDate time.Time, endDate *time.Time) (*models.Budget, error)
	updateBudgetFn          func(userID, budgetID, categoryID uint, amount decimal.Decimal, period models.BudgetPeriod, startDate time.Time, endDate *time.Time) (*models.Budget, error)
	getBudgetByIDFn         func(userID, budgetID uint) (*models.Budget, error)
	getUserBudgetsFn        func(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	getBudgetsByCategoryFn  func(userID, categoryID uint) ([]models.Budget, error)
	getBudgetsByDateRangeFn func(userID uint, start, end time.Time) ([]models.Budget, error)
	currentBudgetsFn        func(userID uint) ([]models.Budget, error)
	checkBudgetStatusFn     func(budget *models.Budget) (*services.BudgetStatus, error)
	checkAllBudgetsFn       func(userID uint) ([]services.BudgetStatus, error)
	deleteBudgetFn          func(userID, budgetID uint) error
}

func (m *mockBudgetService) CreateBudget(userID, categoryID uint, amount decimal.Decimal, period models.BudgetPeriod, startDate time.Time, endDate *time.Time) (*models.Budget, error) {
	if m.createBudgetFn != nil {
		return m.createBudgetFn(userID, categoryID, amount, period, startDate, endDate)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) UpdateBudget(userID, budgetID, categoryID uint, amount decimal.Decimal, period models.BudgetPeriod, startDate time.Time, endDate *time.Time) (*models.Budget, error) {
	if m.updateBudgetFn != nil {
		return m.updateBudgetFn(userID, budgetID, categoryID, amount, period, startDate, endDate)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetBudgetByID(userID, budgetID uint) (*models.Budget, error) {
	if m.getBudgetByIDFn != nil {
		return m.getBudgetByIDFn(userID, budgetID)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetUserBudgets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	if m.getUserBudgetsFn != nil {
		return m.getUserBudgetsFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.Budget{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockBudgetService) GetBudgetsByCategory(userID, categoryID uint) ([]models.Budget, error) {
	if m.getBudgetsByCategoryFn != nil {
		return m.getBudgetsByCategoryFn(userID, categoryID)
	}
	return []models.Budget{}, nil
}

func (m *mockBudgetService) GetBudgetsByDateRange(userID uint, start, end time.Time) ([]models.Budget, error) {
	if m.getBudgetsByDateRangeFn != nil {
		return m.getBudgetsByDateRangeFn(userID, start, end)
	}
	return []models.Budget{}, nil
}

func (m *mockBudgetService) CurrentBudgets(userID uint) ([]models.Budget, error) {
	if m.currentBudgetsFn != nil {
		return m.currentBudgetsFn(userID)
	}
	return []models.Budget{}, nil
}

func (m *mockBudgetService) CheckBudgetStatus(budget *models.Budget) (*services.BudgetStatus, error) {
	if m.checkBudgetStatusFn != nil {
		return m.checkBudgetStatusFn(budget)
	}
	return &services.BudgetStatus{}, nil
}

func (m *mockBudgetService) CheckAllBudgets(userID uint) ([]services.BudgetStatus, error) {
	if m.checkAllBudgetsFn != nil {
		return m.checkAllBudgetsFn(userID)
	}
	return []services.BudgetStatus{}, nil
}

func (m *mockBudgetService) DeleteBudget(userID, budgetID uint) error {
	if m.deleteBudgetFn != nil {
		return m.deleteBudgetFn(userID, budgetID)
	}
	return nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

func setupBudgetRouter(handler *BudgetHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/budgets", handler.CreateBudget)
	auth.GET("/budgets", handler.GetBudgets)
	auth.GET("/budgets/current", handler.GetCurrentBudgets)
	auth.GET("/budgets/status", handler.GetAllBudgetStatuses)
	auth.GET("/budgets/:id", handler.GetBudget)
	auth.GET("/budgets/:id/status", handler.GetBudgetStatus)
	auth.PUT("/budgets/:id", handler.UpdateBudget)
	auth.DELETE("/budgets/:id", handler.DeleteBudget)
	return r
}

func TestBudgetHandler_CreateBudget(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		budgetSvc := &mockBudgetService{
			createBudgetFn: func(_, categoryID uint, amount decimal.Decimal, period models.BudgetPeriod, startDate time.Time, endDate *time.Time) (*models.Budget, error) {
				return &models.Budget{
					Base:       models.Base{ID: 1},
					CategoryID: categoryID,
					Amount:     amount,
					Period:     period,
					StartDate:  startDate,
					EndDate:    endDate,
				}, nil
			},
		}
		handler := NewBudgetHandler(budgetSvc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"category_id":1,"amount":"500.00","period":"monthly","start_date":"2024-03-01T00:00:00Z","end_date":"2024-03-31T00:00:00Z"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		budget := result["budget"].(map[string]interface{})
		if budget["period"] != "monthly" {
			t.Errorf("expected period monthly, got %v", budget["period"])
		}
	})

	t.Run("returns 400 on invalid period", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"category_id":1,"amount":"500.00","period":"quarterly","start_date":"2024-03-01T00:00:00Z","end_date":"2024-03-31T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on missing amount", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"category_id":1,"period":"monthly","start_date":"2024-03-01T00:00:00Z","end_date":"2024-03-31T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on zero amount", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"category_id":1,"amount":"0","period":"monthly","start_date":"2024-03-01T00:00:00Z","end_date":"2024-03-31T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 201 without end date", func(t *testing.T) {
		var capturedEndDate *time.Time
		budgetSvc := &mockBudgetService{
			createBudgetFn: func(_, categoryID uint, amount decimal.Decimal, period models.BudgetPeriod, startDate time.Time, endDate *time.Time) (*models.Budget, error) {
				capturedEndDate = endDate
				return &models.Budget{
					Base:       models.Base{ID: 1},
					CategoryID: categoryID,
					Amount:     amount,
					Period:     period,
					StartDate:  startDate,
					EndDate:    endDate,
				}, nil
			},
		}
		handler := NewBudgetHandler(budgetSvc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"category_id":1,"amount":"500.00","period":"monthly","start_date":"2024-03-01T00:00:00Z"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if capturedEndDate != nil {
			t.Errorf("expected nil end date, got %v", capturedEndDate)
		}
	})

	t.Run("returns 404 on unknown category", func(t *testing.T) {
		budgetSvc := &mockBudgetService{
			createBudgetFn: func(_, _ uint, _ decimal.Decimal, _ models.BudgetPeriod, _ time.Time, _ *time.Time) (*models.Budget, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		handler := NewBudgetHandler(budgetSvc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"category_id":999,"amount":"500.00","period":"monthly","start_date":"2024-03-01T00:00:00Z","end_date":"2024-03-31T00:00:00Z"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_GetBudgets(t *testing.T) {
	t.Run("filters by category", func(t *testing.T) {
		var capturedCategoryID uint
		budgetSvc := &mockBudgetService{
			getBudgetsByCategoryFn: func(_, categoryID uint) ([]models.Budget, error) {
				capturedCategoryID = categoryID
				return []models.Budget{{Base: models.Base{ID: 1}}}, nil
			},
		}
		handler := NewBudgetHandler(budgetSvc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets?category_id=7", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if capturedCategoryID != 7 {
			t.Errorf("expected category 7, got %d", capturedCategoryID)
		}
	})

	t.Run("filters by date range", func(t *testing.T) {
		var capturedStart time.Time
		budgetSvc := &mockBudgetService{
			getBudgetsByDateRangeFn: func(_ uint, start, _ time.Time) ([]models.Budget, error) {
				capturedStart = start
				return []models.Budget{}, nil
			},
		}
		handler := NewBudgetHandler(budgetSvc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets?start=2024-03-01&end=2024-03-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if capturedStart.Format("2006-01-02") != "2024-03-01" {
			t.Errorf("expected start 2024-03-01, got %s", capturedStart)
		}
	})

	t.Run("returns 400 on bad category_id", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets?category_id=abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 200 with paginated list", func(t *testing.T) {
		budgetSvc := &mockBudgetService{
			getUserBudgetsFn: func(_ uint, _ pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
				resp := pagination.NewPageResponse([]models.Budget{
					{Base: models.Base{ID: 1}},
					{Base: models.Base{ID: 2}},
				}, 1, 20, 2)
				return &resp, nil
			},
		}
		handler := NewBudgetHandler(budgetSvc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 2 {
			t.Errorf("expected 2 budgets, got %d", len(data))
		}
	})
}

func TestBudgetHandler_GetBudgetStatus(t *testing.T) {
	t.Run("returns 200 with status", func(t *testing.T) {
		budgetSvc := &mockBudgetService{
			getBudgetByIDFn: func(_, budgetID uint) (*models.Budget, error) {
				return &models.Budget{
					Base:   models.Base{ID: budgetID},
					Amount: decimal.NewFromInt(600),
				}, nil
			},
			checkBudgetStatusFn: func(budget *models.Budget) (*services.BudgetStatus, error) {
				return &services.BudgetStatus{
					Budget:         *budget,
					Spent:          decimal.NewFromInt(100),
					Remaining:      decimal.NewFromInt(500),
					PercentageUsed: decimal.RequireFromString("16.67"),
					OverBudget:     false,
				}, nil
			},
		}
		handler := NewBudgetHandler(budgetSvc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/1/status", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		status := result["status"].(map[string]interface{})
		if status["percentage_used"] != "16.67" {
			t.Errorf("expected 16.67, got %v", status["percentage_used"])
		}
		if status["over_budget"] != false {
			t.Errorf("expected over_budget false, got %v", status["over_budget"])
		}
	})

	t.Run("returns 404 when budget not found", func(t *testing.T) {
		budgetSvc := &mockBudgetService{
			getBudgetByIDFn: func(_, _ uint) (*models.Budget, error) {
				return nil, apperrors.ErrBudgetNotFound
			},
		}
		handler := NewBudgetHandler(budgetSvc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/999/status", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_NOT_FOUND")
	})
}

func TestBudgetHandler_GetAllBudgetStatuses(t *testing.T) {
	t.Run("returns 200 with one status per budget", func(t *testing.T) {
		budgetSvc := &mockBudgetService{
			checkAllBudgetsFn: func(_ uint) ([]services.BudgetStatus, error) {
				return []services.BudgetStatus{
					{Budget: models.Budget{Base: models.Base{ID: 1}}},
					{Budget: models.Budget{Base: models.Base{ID: 2}}},
				}, nil
			},
		}
		handler := NewBudgetHandler(budgetSvc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/status", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		statuses := result["statuses"].([]interface{})
		if len(statuses) != 2 {
			t.Errorf("expected 2 statuses, got %d", len(statuses))
		}
	})
}

func TestBudgetHandler_DeleteBudget(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "DELETE", "/budgets/1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		budgetSvc := &mockBudgetService{
			deleteBudgetFn: func(_, _ uint) error {
				return apperrors.ErrBudgetNotFound
			},
		}
		handler := NewBudgetHandler(budgetSvc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "DELETE", "/budgets/999", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
