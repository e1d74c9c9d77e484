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

// --- mock transaction service ---

type mockTransactionService struct {
	addTransactionFn      func(userID, categoryID uint, amount decimal.Decimal, description string, date time.Time, txType models.TransactionType) (*models.Transaction, error)
	updateTransactionFn   func(userID, transactionID, categoryID uint, amount decimal.Decimal, description string, date time.Time, txType models.TransactionType) (*models.Transaction, error)
	getTransactionByIDFn  func(userID, transactionID uint) (*models.Transaction, error)
	getUserTransactionsFn func(userID uint, start, end time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	deleteTransactionFn   func(userID, transactionID uint) error
	balanceFn             func(userID uint, start, end time.Time) (decimal.Decimal, error)
	totalIncomeFn         func(userID uint, start, end time.Time) (decimal.Decimal, error)
	totalExpensesFn       func(userID uint, start, end time.Time) (decimal.Decimal, error)
}

func (m *mockTransactionService) AddTransaction(userID, categoryID uint, amount decimal.Decimal, description string, date time.Time, txType models.TransactionType) (*models.Transaction, error) {
	if m.addTransactionFn != nil {
		return m.addTransactionFn(userID, categoryID, amount, description, date, txType)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) UpdateTransaction(userID, transactionID, categoryID uint, amount decimal.Decimal, description string, date time.Time, txType models.TransactionType) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(userID, transactionID, categoryID, amount, description, date, txType)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(userID, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetUserTransactions(userID uint, start, end time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	if m.getUserTransactionsFn != nil {
		return m.getUserTransactionsFn(userID, start, end, page)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) DeleteTransaction(userID, transactionID uint) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(userID, transactionID)
	}
	return nil
}

func (m *mockTransactionService) Balance(userID uint, start, end time.Time) (decimal.Decimal, error) {
	if m.balanceFn != nil {
		return m.balanceFn(userID, start, end)
	}
	return decimal.Zero, nil
}

func (m *mockTransactionService) TotalIncome(userID uint, start, end time.Time) (decimal.Decimal, error) {
	if m.totalIncomeFn != nil {
		return m.totalIncomeFn(userID, start, end)
	}
	return decimal.Zero, nil
}

func (m *mockTransactionService) TotalExpenses(userID uint, start, end time.Time) (decimal.Decimal, error) {
	if m.totalExpensesFn != nil {
		return m.totalExpensesFn(userID, start, end)
	}
	return decimal.Zero, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/transactions", handler.CreateTransaction)
	auth.GET("/transactions", handler.GetTransactions)
	auth.GET("/transactions/balance", handler.GetBalance)
	auth.GET("/transactions/:id", handler.GetTransaction)
	auth.PUT("/transactions/:id", handler.UpdateTransaction)
	auth.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		txSvc := &mockTransactionService{
			addTransactionFn: func(_, categoryID uint, amount decimal.Decimal, desc string, date time.Time, txType models.TransactionType) (*models.Transaction, error) {
				return &models.Transaction{
					Base:       models.Base{ID: 1},
					CategoryID: categoryID,
					Type:       txType,
					Amount:     amount,
					Date:       date,
				}, nil
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"category_id":1,"type":"expense","amount":"25.50","date":"2024-03-10T00:00:00Z"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		tx := result["transaction"].(map[string]interface{})
		if tx["amount"] != "25.5" {
			t.Errorf("expected amount 25.5, got %v", tx["amount"])
		}
	})

	t.Run("returns 400 on missing date", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions", `{"category_id":1,"type":"expense","amount":"10"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on missing amount", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"category_id":1,"type":"expense","date":"2024-03-10T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "VALIDATION_ERROR")
	})

	t.Run("returns 400 on negative amount", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"category_id":1,"type":"expense","amount":"-5","date":"2024-03-10T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid type", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"category_id":1,"type":"transfer","amount":"10","date":"2024-03-10T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 when category type does not match", func(t *testing.T) {
		txSvc := &mockTransactionService{
			addTransactionFn: func(_, _ uint, _ decimal.Decimal, _ string, _ time.Time, _ models.TransactionType) (*models.Transaction, error) {
				return nil, apperrors.WithMessage(apperrors.ErrValidation, "Category type does not match transaction type")
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"category_id":1,"type":"expense","amount":"10","date":"2024-03-10T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "VALIDATION_ERROR")
	})

	t.Run("returns 404 on unknown category", func(t *testing.T) {
		txSvc := &mockTransactionService{
			addTransactionFn: func(_, _ uint, _ decimal.Decimal, _ string, _ time.Time, _ models.TransactionType) (*models.Transaction, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"category_id":999,"type":"expense","amount":"10","date":"2024-03-10T00:00:00Z"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetTransactions(t *testing.T) {
	t.Run("returns 200 with window applied", func(t *testing.T) {
		var capturedStart, capturedEnd time.Time
		txSvc := &mockTransactionService{
			getUserTransactionsFn: func(_ uint, start, end time.Time, _ pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
				capturedStart, capturedEnd = start, end
				resp := pagination.NewPageResponse([]models.Transaction{{Base: models.Base{ID: 1}}}, 1, 20, 1)
				return &resp, nil
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?start=2024-03-01&end=2024-03-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if capturedStart.Format("2006-01-02") != "2024-03-01" {
			t.Errorf("expected start 2024-03-01, got %s", capturedStart)
		}
		if capturedEnd.Format("2006-01-02") != "2024-03-31" {
			t.Errorf("expected end 2024-03-31, got %s", capturedEnd)
		}
	})

	t.Run("returns 400 when start missing", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?end=2024-03-31", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on bad date format", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?start=03/01/2024&end=2024-03-31", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetBalance(t *testing.T) {
	t.Run("returns 200 with totals", func(t *testing.T) {
		txSvc := &mockTransactionService{
			totalIncomeFn: func(_ uint, _, _ time.Time) (decimal.Decimal, error) {
				return decimal.NewFromInt(500), nil
			},
			totalExpensesFn: func(_ uint, _, _ time.Time) (decimal.Decimal, error) {
				return decimal.NewFromInt(120), nil
			},
			balanceFn: func(_ uint, _, _ time.Time) (decimal.Decimal, error) {
				return decimal.NewFromInt(380), nil
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions/balance?start=2024-03-01&end=2024-03-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["total_income"] != "500" {
			t.Errorf("expected total_income 500, got %v", result["total_income"])
		}
		if result["total_expenses"] != "120" {
			t.Errorf("expected total_expenses 120, got %v", result["total_expenses"])
		}
		if result["balance"] != "380" {
			t.Errorf("expected balance 380, got %v", result["balance"])
		}
	})

	t.Run("returns 400 when dates missing", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions/balance", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetTransaction(t *testing.T) {
	t.Run("returns 404 when not found", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getTransactionByIDFn: func(_, _ uint) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions/999", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "DELETE", "/transactions/1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
