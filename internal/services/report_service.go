package services

import (
	"time"

	"github.com/shopspring/decimal"

	"moneymate/internal/ledger"
	"moneymate/internal/models"
)

// trendLabelUnknown labels a spending trend with no transactions.
const trendLabelUnknown = "Unknown"

// reportService derives calendar-aligned summaries from the ledger.
// Reports are pure functions of the store contents at call time.
type reportService struct {
	ledger *ledger.Ledger
}

// NewReportService creates a new ReportServicer.
func NewReportService(l *ledger.Ledger) ReportServicer {
	return &reportService{ledger: l}
}

// MonthlyReport summarizes the calendar month containing the given date.
// The window covers the first through the last day of that month.
func (s *reportService) MonthlyReport(userID uint, month time.Time) (*MonthlyReport, error) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	// AddDate(0, 1, -1) lands on the last day regardless of month length.
	end := start.AddDate(0, 1, -1)

	totalIncome, err := s.ledger.SumByType(userID, models.TransactionTypeIncome, start, end)
	if err != nil {
		return nil, err
	}
	totalExpenses, err := s.ledger.SumByType(userID, models.TransactionTypeExpense, start, end)
	if err != nil {
		return nil, err
	}
	categoryTotals, err := s.ledger.CategoryTotals(userID, start, end)
	if err != nil {
		return nil, err
	}

	return &MonthlyReport{
		Month:          start,
		TotalIncome:    totalIncome,
		TotalExpenses:  totalExpenses,
		NetSavings:     totalIncome.Sub(totalExpenses),
		CategoryTotals: categoryTotals,
	}, nil
}

// AnnualReport returns twelve monthly reports for the year, January through
// December. Months without transactions still appear, with zero totals and an
// empty category map.
func (s *reportService) AnnualReport(userID uint, year int) ([]MonthlyReport, error) {
	reports := make([]MonthlyReport, 0, 12)
	for month := time.January; month <= time.December; month++ {
		report, err := s.MonthlyReport(userID, time.Date(year, month, 1, 0, 0, 0, 0, time.Local))
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

// SpendingTrend returns the user's transactions for one category within
// [start, end] as parallel date/amount sequences in ascending date order.
// The category label is the type of the earliest transaction, or "Unknown"
// when the window is empty.
func (s *reportService) SpendingTrend(userID, categoryID uint, start, end time.Time) (*SpendingTrend, error) {
	transactions, err := s.ledger.TransactionsByCategory(userID, categoryID, start, end)
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, len(transactions))
	amounts := make([]decimal.Decimal, 0, len(transactions))
	label := trendLabelUnknown
	if len(transactions) > 0 {
		label = string(transactions[0].Type)
	}

	for _, transaction := range transactions {
		dates = append(dates, transaction.Date)
		amounts = append(amounts, transaction.Amount)
	}

	return &SpendingTrend{
		Dates:    dates,
		Amounts:  amounts,
		Category: label,
	}, nil
}

// Summary returns the headline income/expense/balance totals for a window.
func (s *reportService) Summary(userID uint, start, end time.Time) (*PeriodSummary, error) {
	totalIncome, err := s.ledger.SumByType(userID, models.TransactionTypeIncome, start, end)
	if err != nil {
		return nil, err
	}
	totalExpenses, err := s.ledger.SumByType(userID, models.TransactionTypeExpense, start, end)
	if err != nil {
		return nil, err
	}

	return &PeriodSummary{
		TotalIncome:   totalIncome,
		TotalExpenses: totalExpenses,
		Balance:       totalIncome.Sub(totalExpenses),
	}, nil
}
