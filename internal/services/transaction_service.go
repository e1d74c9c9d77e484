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

// transactionService handles transaction-related business logic.
type transactionService struct {
	db     *gorm.DB
	ledger *ledger.Ledger
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, l *ledger.Ledger) TransactionServicer {
	return &transactionService{db: db, ledger: l}
}

// AddTransaction validates and records a new transaction. All business rules
// run before anything is written: the amount must be positive, the date must
// not be in the future, the category must exist, and the transaction type
// must equal the category's type.
func (s *transactionService) AddTransaction(
	userID, categoryID uint,
	amount decimal.Decimal,
	description string,
	date time.Time,
	txType models.TransactionType,
) (*models.Transaction, error) {
	if err := validateTransactionFields(amount, date, txType); err != nil {
		return nil, err
	}

	category, err := s.lookupCategory(categoryID)
	if err != nil {
		return nil, err
	}
	if models.TransactionType(category.Type) != txType {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Category type does not match transaction type")
	}

	transaction := &models.Transaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Type:        txType,
		Amount:      amount,
		Description: description,
		Date:        date,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// UpdateTransaction replaces the mutable fields of an existing transaction,
// applying the same rules as AddTransaction.
func (s *transactionService) UpdateTransaction(
	userID, transactionID, categoryID uint,
	amount decimal.Decimal,
	description string,
	date time.Time,
	txType models.TransactionType,
) (*models.Transaction, error) {
	if err := validateTransactionFields(amount, date, txType); err != nil {
		return nil, err
	}

	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	category, err := s.lookupCategory(categoryID)
	if err != nil {
		return nil, err
	}
	if models.TransactionType(category.Type) != txType {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Category type does not match transaction type")
	}

	updates := map[string]interface{}{
		"category_id": categoryID,
		"type":        txType,
		"amount":      amount,
		"description": description,
		"date":        date,
	}
	if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// GetTransactionByID returns a transaction by ID if it belongs to the user.
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", transactionID, userID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// GetUserTransactions lists the user's transactions dated within [start, end],
// most recent first (date, then creation time descending).
func (s *transactionService) GetUserTransactions(userID uint, start, end time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND date BETWEEN ? AND ?",
			userID, ledger.StartOfDay(start), ledger.EndOfDay(end))

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").
		Order("date DESC, created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// DeleteTransaction removes a transaction belonging to the user.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Balance returns income minus expenses for the window.
func (s *transactionService) Balance(userID uint, start, end time.Time) (decimal.Decimal, error) {
	return s.ledger.Balance(userID, start, end)
}

// TotalIncome returns the summed income for the window.
func (s *transactionService) TotalIncome(userID uint, start, end time.Time) (decimal.Decimal, error) {
	return s.ledger.SumByType(userID, models.TransactionTypeIncome, start, end)
}

// TotalExpenses returns the summed expenses for the window.
func (s *transactionService) TotalExpenses(userID uint, start, end time.Time) (decimal.Decimal, error) {
	return s.ledger.SumByType(userID, models.TransactionTypeExpense, start, end)
}

func (s *transactionService) lookupCategory(categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

func validateTransactionFields(amount decimal.Decimal, date time.Time, txType models.TransactionType) error {
	if !amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrValidation, "Amount must be greater than zero")
	}
	if txType != models.TransactionTypeIncome && txType != models.TransactionTypeExpense {
		return apperrors.WithMessage(apperrors.ErrValidation, "Transaction type must be income or expense")
	}
	if date.IsZero() {
		return apperrors.WithMessage(apperrors.ErrValidation, "Transaction date is required")
	}
	if date.After(ledger.EndOfDay(time.Now())) {
		return apperrors.WithMessage(apperrors.ErrValidation, "Transaction date cannot be in the future")
	}
	return nil
}
