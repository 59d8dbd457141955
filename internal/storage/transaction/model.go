package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/ledger"
)

// Queryer is satisfied by both *pgxpool.Pool and pgx.Tx, so readers can run
// against the pool directly while writers stay inside the batch transaction.
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Filter narrows a transaction listing.
type Filter struct {
	Direction       ledger.Direction // empty matches all directions
	Year            int
	Month           time.Month
	IncludeExcluded bool
}

// Snapshot is a caller-supplied view of a row's current field values, used to
// locate a row without its identifier. Amount is the absolute value.
type Snapshot struct {
	Direction   ledger.Direction
	Date        string
	RawCategory string
	Description string
	Amount      decimal.Decimal
	Method      string
	Excluded    bool
}

// FieldUpdates carries the column changes of one update operation. Nil
// pointers leave the column untouched. Fingerprint is always rewritten since
// the service recomputes it from the merged row.
type FieldUpdates struct {
	OccurredAt  *time.Time
	RawCategory *string
	Description *string // also rewrites merchant
	Amount      *decimal.Decimal
	Method      *string
	Excluded    *bool
	Fingerprint string
}

const transactionColumns = `
	id, occurred_at, amount::text, description, merchant, method,
	direction, raw_category, memo, currency, is_excluded,
	import_fingerprint, transfer_group_id, review_required, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*ledger.Transaction, error) {
	var (
		t          ledger.Transaction
		amountText string
		groupID    uuid.NullUUID
	)
	err := row.Scan(
		&t.ID, &t.OccurredAt, &amountText, &t.Description, &t.Merchant,
		&t.Method, &t.Direction, &t.RawCategory, &t.Memo, &t.Currency,
		&t.Excluded, &t.Fingerprint, &groupID, &t.ReviewRequired, &t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("transaction: scan: %w", err)
	}
	t.Amount, err = decimal.NewFromString(amountText)
	if err != nil {
		return nil, fmt.Errorf("transaction: amount %q: %w", amountText, err)
	}
	if groupID.Valid {
		id := groupID.UUID
		t.TransferGroupID = &id
	}
	return &t, nil
}

func collectTransactions(rows pgx.Rows) ([]*ledger.Transaction, error) {
	defer rows.Close()

	var result []*ledger.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// monthBounds returns the half-open [start, end) interval covering one month.
func monthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
