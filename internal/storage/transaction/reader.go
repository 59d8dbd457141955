package transaction

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/carson-networks/ledger-server/internal/ledger"
)

type Reader struct {
	exec Queryer
}

func NewReader(exec Queryer) *Reader {
	return &Reader{exec: exec}
}

// FindByID retrieves one transaction scoped to a direction.
func (r *Reader) FindByID(ctx context.Context, id uuid.UUID, direction ledger.Direction) (*ledger.Transaction, error) {
	row := r.exec.QueryRow(ctx, `
		SELECT`+transactionColumns+`
		FROM transactions
		WHERE id = $1 AND direction = $2`,
		id, string(direction),
	)
	t, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListAll returns every stored transaction. The reconciler loads this once
// per batch to build its fingerprint set and fallback maps.
func (r *Reader) ListAll(ctx context.Context) ([]*ledger.Transaction, error) {
	rows, err := r.exec.Query(ctx, `
		SELECT`+transactionColumns+`
		FROM transactions`)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}

// ListMonth returns the transactions of one month, newest first, optionally
// scoped to a direction and optionally including excluded rows.
func (r *Reader) ListMonth(ctx context.Context, filter *Filter) ([]*ledger.Transaction, error) {
	start, end := monthBounds(filter.Year, filter.Month)
	rows, err := r.exec.Query(ctx, `
		SELECT`+transactionColumns+`
		FROM transactions
		WHERE occurred_at >= $1 AND occurred_at < $2
		  AND ($3 = '' OR direction = $3)
		  AND ($4 OR NOT is_excluded)
		ORDER BY occurred_at DESC, created_at DESC`,
		start, end, string(filter.Direction), filter.IncludeExcluded,
	)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}

// ListYear returns one direction's rows across a whole year, optionally
// including excluded rows.
func (r *Reader) ListYear(ctx context.Context, year int, direction ledger.Direction, includeExcluded bool) ([]*ledger.Transaction, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	rows, err := r.exec.Query(ctx, `
		SELECT`+transactionColumns+`
		FROM transactions
		WHERE occurred_at >= $1 AND occurred_at < $2
		  AND direction = $3
		  AND ($4 OR NOT is_excluded)
		ORDER BY occurred_at ASC`,
		start, end, string(direction), includeExcluded,
	)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}

// ListUngrouped returns every row without a transfer group, ascending by
// time. The pairer scans this set after each import batch.
func (r *Reader) ListUngrouped(ctx context.Context) ([]*ledger.Transaction, error) {
	rows, err := r.exec.Query(ctx, `
		SELECT`+transactionColumns+`
		FROM transactions
		WHERE transfer_group_id IS NULL
		ORDER BY occurred_at ASC, created_at ASC`)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}

// ListUnmatchedTransfers returns transfer rows still waiting for their
// opposite leg.
func (r *Reader) ListUnmatchedTransfers(ctx context.Context) ([]*ledger.Transaction, error) {
	rows, err := r.exec.Query(ctx, `
		SELECT`+transactionColumns+`
		FROM transactions
		WHERE direction = 'transfer' AND transfer_group_id IS NULL
		ORDER BY occurred_at ASC`)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}

// ListBySnapshot returns the rows matching every snapshot field except the
// amount, which callers compare as an absolute value.
func (r *Reader) ListBySnapshot(ctx context.Context, snapshot *Snapshot) ([]*ledger.Transaction, error) {
	day, err := time.Parse(ledger.DateLayout, snapshot.Date)
	if err != nil {
		return nil, ledger.NewValidationError("snapshot date %q: %v", snapshot.Date, err)
	}
	rows, err := r.exec.Query(ctx, `
		SELECT`+transactionColumns+`
		FROM transactions
		WHERE direction = $1
		  AND occurred_at >= $2 AND occurred_at < $3
		  AND raw_category = $4
		  AND description = $5
		  AND method = $6
		  AND is_excluded = $7`,
		string(snapshot.Direction), day, day.AddDate(0, 0, 1),
		snapshot.RawCategory, snapshot.Description, snapshot.Method,
		snapshot.Excluded,
	)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}
