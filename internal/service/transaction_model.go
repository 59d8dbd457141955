package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/ledger"
)

// MonthlySummary aggregates one month. Excluded rows still count toward
// TransactionCount but stay out of the income/expense totals; unpaired
// transfer legs are totaled separately so they never distort net cash flow.
type MonthlySummary struct {
	Year              int
	Month             int
	Income            decimal.Decimal
	Expense           decimal.Decimal
	NetCashflow       decimal.Decimal
	TransferUnmatched decimal.Decimal
	TransactionCount  int
}

// CategoryTotal is one row of the expense category breakdown.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// MonthCategoryTotals is one month's spend per tracked category. Every
// tracked category has an entry, zero when the month had none.
type MonthCategoryTotals struct {
	Month  int
	Values map[string]decimal.Decimal
}

// CategoryMonthlyTrend follows the year's top expense categories month by
// month. Categories are ordered by their yearly total, largest first.
type CategoryMonthlyTrend struct {
	Year       int
	Categories []string
	Rows       []MonthCategoryTotals
}

// TransactionItem is one row in a grouped listing. Amount is the absolute
// value; the group's direction carries the sign.
type TransactionItem struct {
	ID          uuid.UUID
	Date        string
	Category    string
	Description string
	Amount      decimal.Decimal
	Method      string
	Excluded    bool
}

// CategoryGroup is one listing group with its total.
type CategoryGroup struct {
	Category    string
	TotalAmount decimal.Decimal
	Count       int
	Items       []TransactionItem
}

// GroupLevel selects how listing groups are keyed.
type GroupLevel string

const (
	GroupLevelMajor GroupLevel = "major"
	GroupLevelFull  GroupLevel = "full"
)

// UnmatchedTransfer is a transfer leg still waiting for its opposite leg.
type UnmatchedTransfer struct {
	ID             uuid.UUID
	OccurredAt     time.Time
	Amount         decimal.Decimal
	Description    string
	Currency       string
	ReviewRequired bool
}

func itemFromTransaction(t *ledger.Transaction) TransactionItem {
	return TransactionItem{
		ID:          t.ID,
		Date:        t.Date(),
		Category:    t.RawCategory,
		Description: t.Description,
		Amount:      t.Amount.Abs(),
		Method:      t.Method,
		Excluded:    t.Excluded,
	}
}
