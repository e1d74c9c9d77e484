// Package ledger computes sums and breakdowns over the transaction store.
// Every query runs against the live store; nothing is cached between calls.
// Date windows are inclusive on both ends and compared at day granularity.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "moneymate/internal/errors"
	"moneymate/internal/models"
)

// Ledger answers aggregate questions about a user's transactions.
type Ledger struct {
	db *gorm.DB
}

// New creates a Ledger over the given database handle.
func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// StartOfDay returns t at 00:00:00 in its location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

// SumByType returns the total amount of the user's transactions of the given
// type dated within [start, end]. A window with no matching transactions sums
// to exactly zero, never an absent value.
func (l *Ledger) SumByType(userID uint, txType models.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := l.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND type = ? AND date BETWEEN ? AND ?",
			userID, txType, StartOfDay(start), EndOfDay(end)).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

// SumByCategory returns the total amount of the user's transactions against
// one category within [start, end], regardless of transaction type.
func (l *Ledger) SumByCategory(userID, categoryID uint, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := l.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND category_id = ? AND date BETWEEN ? AND ?",
			userID, categoryID, StartOfDay(start), EndOfDay(end)).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

// CategoryTotals groups the user's transactions within [start, end] by
// category and sums each group. Categories with no transactions in the window
// do not appear in the result.
func (l *Ledger) CategoryTotals(userID uint, start, end time.Time) (map[uint]decimal.Decimal, error) {
	var rows []struct {
		CategoryID uint
		Total      decimal.Decimal
	}
	err := l.db.Model(&models.Transaction{}).
		Select("category_id, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND date BETWEEN ? AND ?",
			userID, StartOfDay(start), EndOfDay(end)).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := make(map[uint]decimal.Decimal, len(rows))
	for _, row := range rows {
		totals[row.CategoryID] = row.Total
	}
	return totals, nil
}

// Balance returns income minus expenses for the user within [start, end].
func (l *Ledger) Balance(userID uint, start, end time.Time) (decimal.Decimal, error) {
	income, err := l.SumByType(userID, models.TransactionTypeIncome, start, end)
	if err != nil {
		return decimal.Zero, err
	}
	expenses, err := l.SumByType(userID, models.TransactionTypeExpense, start, end)
	if err != nil {
		return decimal.Zero, err
	}
	return income.Sub(expenses), nil
}

// TransactionsByCategory returns the user's transactions against one category
// within [start, end], ordered ascending by date. Ties on date keep insertion
// order via the id column, so the ordering is stable for a fixed dataset.
func (l *Ledger) TransactionsByCategory(userID, categoryID uint, start, end time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := l.db.
		Where("user_id = ? AND category_id = ? AND date BETWEEN ? AND ?",
			userID, categoryID, StartOfDay(start), EndOfDay(end)).
		Order("date ASC, id ASC").
		Find(&transactions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}
