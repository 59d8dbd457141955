package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// transactionsReader is the slice of the store the read side needs.
type transactionsReader interface {
	ListMonth(ctx context.Context, filter *transaction.Filter) ([]*ledger.Transaction, error)
	ListYear(ctx context.Context, year int, direction ledger.Direction, includeExcluded bool) ([]*ledger.Transaction, error)
	ListUnmatchedTransfers(ctx context.Context) ([]*ledger.Transaction, error)
}

// TransactionService serves the read side: summaries, breakdowns and
// listings. All reads run against the pool and never see a half-committed
// batch.
type TransactionService struct {
	transactions transactionsReader
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store *storage.Storage) *TransactionService {
	return &TransactionService{transactions: store.Read().Transactions}
}

func validateMonth(year, month int) error {
	if year < 2000 || year > 2100 {
		return ledger.NewValidationError("year out of range: %d", year)
	}
	if month < 1 || month > 12 {
		return ledger.NewValidationError("month out of range: %d", month)
	}
	return nil
}

// MonthlySummary totals one month's income and expense.
func (s *TransactionService) MonthlySummary(ctx context.Context, year, month int) (*MonthlySummary, error) {
	if err := validateMonth(year, month); err != nil {
		return nil, err
	}

	rows, err := s.transactions.ListMonth(ctx, &transaction.Filter{
		Year:            year,
		Month:           time.Month(month),
		IncludeExcluded: true,
	})
	if err != nil {
		return nil, err
	}

	summary := &MonthlySummary{Year: year, Month: month}
	for _, row := range rows {
		summary.TransactionCount++

		if row.Excluded && row.Direction != ledger.DirectionTransfer {
			continue
		}
		switch row.Direction {
		case ledger.DirectionIncome:
			summary.Income = summary.Income.Add(row.Amount.Abs())
		case ledger.DirectionExpense:
			summary.Expense = summary.Expense.Add(row.Amount.Abs())
		case ledger.DirectionTransfer:
			if row.TransferGroupID == nil {
				summary.TransferUnmatched = summary.TransferUnmatched.Add(row.Amount.Abs())
			}
		}
	}
	summary.NetCashflow = summary.Income.Sub(summary.Expense)
	return summary, nil
}

// CategoryBreakdown totals one month's non-excluded expenses per raw
// category, largest first.
func (s *TransactionService) CategoryBreakdown(ctx context.Context, year, month int) ([]CategoryTotal, error) {
	if err := validateMonth(year, month); err != nil {
		return nil, err
	}

	rows, err := s.transactions.ListMonth(ctx, &transaction.Filter{
		Direction: ledger.DirectionExpense,
		Year:      year,
		Month:     time.Month(month),
	})
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, row := range rows {
		category := row.RawCategory
		if category == "" {
			category = ledger.CategoryUnclassified
		}
		totals[category] = totals[category].Add(row.Amount.Abs())
	}

	breakdown := make([]CategoryTotal, 0, len(totals))
	for category, amount := range totals {
		breakdown = append(breakdown, CategoryTotal{Category: category, Amount: amount})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if !breakdown[i].Amount.Equal(breakdown[j].Amount) {
			return breakdown[i].Amount.GreaterThan(breakdown[j].Amount)
		}
		return breakdown[i].Category < breakdown[j].Category
	})
	return breakdown, nil
}

// CategoryMonthlyTrend totals a year's non-excluded expenses per month for
// the top categories of that year. Months where every tracked category is
// zero are dropped unless includeEmptyMonths is set.
func (s *TransactionService) CategoryMonthlyTrend(ctx context.Context, year, top int, level GroupLevel, includeEmptyMonths bool) (*CategoryMonthlyTrend, error) {
	if year < 2000 || year > 2100 {
		return nil, ledger.NewValidationError("year out of range: %d", year)
	}
	if top < 1 || top > 10 {
		return nil, ledger.NewValidationError("top out of range: %d", top)
	}

	rows, err := s.transactions.ListYear(ctx, year, ledger.DirectionExpense, false)
	if err != nil {
		return nil, err
	}

	yearTotals := make(map[string]decimal.Decimal)
	monthTotals := make(map[int]map[string]decimal.Decimal)
	for _, row := range rows {
		category := row.RawCategory
		if category == "" {
			category = ledger.CategoryUnclassified
		}
		if level == GroupLevelMajor {
			category = ledger.MajorCategory(category)
		}
		amount := row.Amount.Abs()

		yearTotals[category] = yearTotals[category].Add(amount)
		month := int(row.OccurredAt.Month())
		if monthTotals[month] == nil {
			monthTotals[month] = make(map[string]decimal.Decimal)
		}
		monthTotals[month][category] = monthTotals[month][category].Add(amount)
	}

	ranked := make([]string, 0, len(yearTotals))
	for category := range yearTotals {
		ranked = append(ranked, category)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !yearTotals[ranked[i]].Equal(yearTotals[ranked[j]]) {
			return yearTotals[ranked[i]].GreaterThan(yearTotals[ranked[j]])
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > top {
		ranked = ranked[:top]
	}

	trend := &CategoryMonthlyTrend{Year: year, Categories: ranked}
	for month := 1; month <= 12; month++ {
		values := make(map[string]decimal.Decimal, len(ranked))
		empty := true
		for _, category := range ranked {
			value := monthTotals[month][category]
			values[category] = value
			if !value.IsZero() {
				empty = false
			}
		}
		if empty && !includeEmptyMonths {
			continue
		}
		trend.Rows = append(trend.Rows, MonthCategoryTotals{Month: month, Values: values})
	}
	return trend, nil
}

// ListGrouped returns one month's rows of a direction, grouped by category
// and ordered by group total, largest first.
func (s *TransactionService) ListGrouped(ctx context.Context, direction ledger.Direction, year, month int, level GroupLevel, includeExcluded bool) ([]CategoryGroup, error) {
	if err := validateMonth(year, month); err != nil {
		return nil, err
	}
	if direction != ledger.DirectionIncome && direction != ledger.DirectionExpense {
		return nil, ledger.NewValidationError("direction must be income or expense")
	}

	rows, err := s.transactions.ListMonth(ctx, &transaction.Filter{
		Direction:       direction,
		Year:            year,
		Month:           time.Month(month),
		IncludeExcluded: includeExcluded,
	})
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]TransactionItem)
	var order []string
	for _, row := range rows {
		key := row.RawCategory
		if key == "" {
			key = ledger.CategoryUnclassified
		}
		if level == GroupLevelMajor {
			key = ledger.MajorCategory(key)
		}
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], itemFromTransaction(row))
	}

	groups := make([]CategoryGroup, 0, len(order))
	for _, key := range order {
		items := grouped[key]
		total := decimal.Zero
		for _, item := range items {
			total = total.Add(item.Amount)
		}
		groups = append(groups, CategoryGroup{
			Category:    key,
			TotalAmount: total,
			Count:       len(items),
			Items:       items,
		})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].TotalAmount.GreaterThan(groups[j].TotalAmount)
	})
	return groups, nil
}

// UnmatchedTransfers lists transfer legs still flagged for manual review.
func (s *TransactionService) UnmatchedTransfers(ctx context.Context) ([]UnmatchedTransfer, error) {
	rows, err := s.transactions.ListUnmatchedTransfers(ctx)
	if err != nil {
		return nil, err
	}

	transfers := make([]UnmatchedTransfer, len(rows))
	for i, row := range rows {
		transfers[i] = UnmatchedTransfer{
			ID:             row.ID,
			OccurredAt:     row.OccurredAt,
			Amount:         row.Amount,
			Description:    row.Description,
			Currency:       row.Currency,
			ReviewRequired: row.ReviewRequired,
		}
	}
	return transfers, nil
}
