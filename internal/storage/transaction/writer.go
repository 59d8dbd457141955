package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carson-networks/ledger-server/internal/ledger"
)

type Writer struct {
	tx pgx.Tx
	Reader
}

func NewWriter(tx pgx.Tx) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// Insert persists a new canonical row. A fingerprint uniqueness violation is
// reported as ledger.ErrDuplicateFingerprint so importers can downgrade it to
// a skip.
func (w *Writer) Insert(ctx context.Context, t *ledger.Transaction) error {
	var groupID any
	if t.TransferGroupID != nil {
		groupID = *t.TransferGroupID
	}
	_, err := w.tx.Exec(ctx, `
		INSERT INTO transactions (
			id, occurred_at, amount, description, merchant, method,
			direction, raw_category, memo, currency, is_excluded,
			import_fingerprint, transfer_group_id, review_required
		) VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		t.ID, t.OccurredAt, t.Amount.String(), t.Description, t.Merchant,
		t.Method, string(t.Direction), t.RawCategory, t.Memo, t.Currency,
		t.Excluded, t.Fingerprint, groupID, t.ReviewRequired,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("transaction %s: %w", t.ID, ledger.ErrDuplicateFingerprint)
	}
	return err
}

// UpdateFingerprint rewrites only the stored fingerprint of a matched row,
// leaving the edited content untouched.
func (w *Writer) UpdateFingerprint(ctx context.Context, id uuid.UUID, fingerprint string) error {
	tag, err := w.tx.Exec(ctx, `
		UPDATE transactions
		SET import_fingerprint = $1
		WHERE id = $2`,
		fingerprint, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("fingerprint update %s: %w", id, ledger.ErrNotFound)
	}
	return nil
}

// DeleteMonth removes every row whose date falls in the target month and
// returns the number of deleted rows.
func (w *Writer) DeleteMonth(ctx context.Context, year int, month time.Month) (int64, error) {
	start, end := monthBounds(year, month)
	tag, err := w.tx.Exec(ctx, `
		DELETE FROM transactions
		WHERE occurred_at >= $1 AND occurred_at < $2`,
		start, end,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UpdateFields applies an edit to one direction-scoped row, including the
// recomputed fingerprint, in a single statement. A fingerprint collision with
// another row is reported as ledger.ErrDuplicateFingerprint.
func (w *Writer) UpdateFields(ctx context.Context, id uuid.UUID, direction ledger.Direction, updates *FieldUpdates) error {
	assignments := []string{"import_fingerprint = $1"}
	args := []any{updates.Fingerprint}

	addAssignment := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if updates.OccurredAt != nil {
		addAssignment("occurred_at", *updates.OccurredAt)
	}
	if updates.RawCategory != nil {
		addAssignment("raw_category", *updates.RawCategory)
	}
	if updates.Description != nil {
		addAssignment("description", *updates.Description)
		addAssignment("merchant", *updates.Description)
	}
	if updates.Amount != nil {
		addAssignment("amount", updates.Amount.String())
	}
	if updates.Method != nil {
		addAssignment("method", *updates.Method)
	}
	if updates.Excluded != nil {
		addAssignment("is_excluded", *updates.Excluded)
	}

	args = append(args, id, string(direction))
	query := fmt.Sprintf(`
		UPDATE transactions
		SET %s
		WHERE id = $%d AND direction = $%d`,
		strings.Join(assignments, ", "), len(args)-1, len(args),
	)

	tag, err := w.tx.Exec(ctx, query, args...)
	if isUniqueViolation(err) {
		return fmt.Errorf("update %s: %w", id, ledger.ErrDuplicateFingerprint)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update %s: %w", id, ledger.ErrNotFound)
	}
	return nil
}

// AssignTransferGroup links two rows as the legs of one internal movement and
// clears their review flags. Group ids are never reassigned.
func (w *Writer) AssignTransferGroup(ctx context.Context, groupID, leftID, rightID uuid.UUID) error {
	_, err := w.tx.Exec(ctx, `
		UPDATE transactions
		SET transfer_group_id = $1, review_required = FALSE
		WHERE id IN ($2, $3) AND transfer_group_id IS NULL`,
		groupID, leftID, rightID,
	)
	return err
}
