package ingest

import (
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/ledger"
)

// RejectionReason names why a raw record was dropped from a batch.
type RejectionReason string

const (
	RejectBlankDate        RejectionReason = "blank_date"
	RejectBadDate          RejectionReason = "unparseable_date"
	RejectBadAmount        RejectionReason = "unparseable_amount"
	RejectBlankDescription RejectionReason = "blank_description"
)

// Rejection records one dropped row. Malformed rows never fail the batch;
// they are surfaced for observability only.
type Rejection struct {
	Line   int
	Reason RejectionReason
	Record map[string]string
}

// typeToDirection maps the native export's transaction type column.
var typeToDirection = map[string]ledger.Direction{
	"수입": ledger.DirectionIncome,
	"지출": ledger.DirectionExpense,
	"이체": ledger.DirectionTransfer,
}

const nativeTimeLayout = "2006-01-02 15:04"

func parseAmount(value string) (decimal.Decimal, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if cleaned == "" {
		return decimal.Decimal{}, false
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return amount, true
}

// normalizeCleaned converts one cleaned-schema record into a canonical
// candidate, or reports why it cannot.
func normalizeCleaned(record map[string]string) (*ledger.Transaction, RejectionReason) {
	date := strings.TrimSpace(record["date"])
	if date == "" {
		return nil, RejectBlankDate
	}
	occurredAt, err := time.Parse(ledger.DateLayout, date)
	if err != nil {
		return nil, RejectBadDate
	}

	amount, ok := parseAmount(record["amount"])
	if !ok {
		return nil, RejectBadAmount
	}

	description := strings.TrimSpace(record["description"])
	if description == "" {
		return nil, RejectBlankDescription
	}

	direction := ledger.Direction(strings.ToLower(strings.TrimSpace(record["direction"])))
	if direction != ledger.DirectionIncome && direction != ledger.DirectionExpense {
		direction = directionFromSign(amount)
	}

	merchant := strings.TrimSpace(record["merchant"])
	if merchant == "" {
		merchant = description
	}
	rawCategory := strings.TrimSpace(record["raw_category"])
	if rawCategory == "" {
		rawCategory = ledger.CategoryUnclassified
	}

	return &ledger.Transaction{
		ID:          recordID(record),
		OccurredAt:  occurredAt,
		Amount:      ledger.SignedAmount(direction, amount),
		Description: description,
		Merchant:    merchant,
		Method:      strings.TrimSpace(record["method"]),
		Direction:   direction,
		RawCategory: rawCategory,
		Memo:        strings.TrimSpace(record["memo"]),
		Currency:    ledger.DefaultCurrency,
	}, ""
}

// normalizeNative converts one native-export record. The type column maps to
// a direction through a fixed table; unrecognized types fall back to the
// amount's sign.
func normalizeNative(record map[string]string) (*ledger.Transaction, RejectionReason) {
	date := strings.TrimSpace(record[nativeColDate])
	if date == "" {
		return nil, RejectBlankDate
	}
	timeOfDay := strings.TrimSpace(record[nativeColTime])
	if timeOfDay == "" {
		timeOfDay = "00:00"
	}
	occurredAt, err := time.Parse(nativeTimeLayout, date+" "+timeOfDay)
	if err != nil {
		return nil, RejectBadDate
	}

	amount, ok := parseAmount(record[nativeColAmount])
	if !ok {
		return nil, RejectBadAmount
	}

	description := strings.TrimSpace(record[nativeColContent])
	if description == "" {
		return nil, RejectBlankDescription
	}

	direction, found := typeToDirection[strings.TrimSpace(record[nativeColType])]
	if !found {
		direction = directionFromSign(amount)
	}

	major := strings.TrimSpace(record[nativeColMajor])
	minor := strings.TrimSpace(record[nativeColMinor])
	rawCategory := ledger.CategoryUnclassified
	if major != "" && minor != "" {
		rawCategory = major + ">" + minor
	}

	currency := strings.TrimSpace(record[nativeColCurrency])
	if currency == "" {
		currency = ledger.DefaultCurrency
	}

	return &ledger.Transaction{
		ID:          uuid.Must(uuid.NewV4()),
		OccurredAt:  occurredAt,
		Amount:      ledger.SignedAmount(direction, amount),
		Description: description,
		Merchant:    description,
		Method:      strings.TrimSpace(record[nativeColMethod]),
		Direction:   direction,
		RawCategory: rawCategory,
		Memo:        strings.TrimSpace(record[nativeColMemo]),
		Currency:    currency,
		// Transfer legs stay flagged until the pairer links them.
		ReviewRequired: direction == ledger.DirectionTransfer,
	}, ""
}

func directionFromSign(amount decimal.Decimal) ledger.Direction {
	if amount.Sign() >= 0 {
		return ledger.DirectionIncome
	}
	return ledger.DirectionExpense
}

// recordID keeps a source-supplied row id when it is a usable UUID; the
// reconciler discards it anyway when the row turns out to already exist.
func recordID(record map[string]string) uuid.UUID {
	if raw := strings.TrimSpace(record["id"]); raw != "" {
		if id, err := uuid.FromString(raw); err == nil {
			return id
		}
	}
	return uuid.Must(uuid.NewV4())
}
