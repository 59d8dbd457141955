package transaction

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/carson-networks/ledger-server/internal/ledger"
)

// execErrTx fails every Exec with a fixed error. The embedded interface
// covers the rest of pgx.Tx; nothing else is called.
type execErrTx struct {
	pgx.Tx
	err error
}

func (f *execErrTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, f.err
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "transactions_import_fingerprint_key"}
}

func TestUpdateFields_FingerprintCollisionIsDuplicate(t *testing.T) {
	w := NewWriter(&execErrTx{err: uniqueViolation()})

	err := w.UpdateFields(context.Background(), uuid.Must(uuid.NewV4()), ledger.DirectionExpense, &FieldUpdates{Fingerprint: "abc"})

	assert.True(t, errors.Is(err, ledger.ErrDuplicateFingerprint))
}

func TestUpdateFields_OtherErrorsPassThrough(t *testing.T) {
	cause := errors.New("connection reset")
	w := NewWriter(&execErrTx{err: cause})

	err := w.UpdateFields(context.Background(), uuid.Must(uuid.NewV4()), ledger.DirectionExpense, &FieldUpdates{Fingerprint: "abc"})

	assert.ErrorIs(t, err, cause)
	assert.False(t, errors.Is(err, ledger.ErrDuplicateFingerprint))
}

func TestInsert_FingerprintCollisionIsDuplicate(t *testing.T) {
	w := NewWriter(&execErrTx{err: uniqueViolation()})

	err := w.Insert(context.Background(), &ledger.Transaction{ID: uuid.Must(uuid.NewV4())})

	assert.True(t, errors.Is(err, ledger.ErrDuplicateFingerprint))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(uniqueViolation()))
	assert.True(t, isUniqueViolation(fmt.Errorf("exec: %w", uniqueViolation())))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("plain")))
	assert.False(t, isUniqueViolation(nil))
}
