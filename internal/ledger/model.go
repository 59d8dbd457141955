package ledger

import (
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Direction classifies a transaction's cash flow.
type Direction string

const (
	DirectionIncome   Direction = "income"
	DirectionExpense  Direction = "expense"
	DirectionTransfer Direction = "transfer"
)

// IsValid reports whether d is one of the known directions.
func (d Direction) IsValid() bool {
	switch d {
	case DirectionIncome, DirectionExpense, DirectionTransfer:
		return true
	}
	return false
}

// CategoryUnclassified is the sentinel raw category assigned when the source
// row carries no usable major/minor pair.
const CategoryUnclassified = "미분류"

// DefaultCurrency is used when the source schema has no currency column.
const DefaultCurrency = "KRW"

// DateLayout is the day-granularity date format used in fingerprints and
// month arithmetic.
const DateLayout = "2006-01-02"

// Transaction is the canonical persisted ledger entry.
type Transaction struct {
	ID          uuid.UUID
	OccurredAt  time.Time
	Amount      decimal.Decimal // signed: income >= 0, expense <= 0
	Description string
	Merchant    string
	Method      string
	Direction   Direction
	RawCategory string // "major>minor" composite, or the unclassified sentinel
	Memo        string
	Currency    string
	Excluded    bool
	Fingerprint string

	// Transfer pairing state. A nil group id on a transfer row means the
	// opposite leg has not been found yet.
	TransferGroupID *uuid.UUID
	ReviewRequired  bool

	CreatedAt time.Time
}

// Date returns the day-granularity date string for t.
func (t *Transaction) Date() string {
	return t.OccurredAt.Format(DateLayout)
}

// SignedAmount re-signs amount to be consistent with direction: positive for
// income, negative for expense. Transfer amounts keep their source sign since
// both legs carry meaningful opposite signs.
func SignedAmount(direction Direction, amount decimal.Decimal) decimal.Decimal {
	switch direction {
	case DirectionIncome:
		return amount.Abs()
	case DirectionExpense:
		return amount.Abs().Neg()
	}
	return amount
}

// MajorCategory returns the major part of a "major>minor" composite category,
// falling back to the unclassified sentinel.
func MajorCategory(rawCategory string) string {
	major, _, _ := strings.Cut(rawCategory, ">")
	major = strings.TrimSpace(major)
	if major == "" {
		return CategoryUnclassified
	}
	return major
}
