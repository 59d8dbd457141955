package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-server/internal/ledger"
)

// fakeStore is an in-memory Store for exercising full batches.
type fakeStore struct {
	rows []*ledger.Transaction
}

func (s *fakeStore) DeleteMonth(_ context.Context, year int, month time.Month) (int64, error) {
	var kept []*ledger.Transaction
	var deleted int64
	for _, row := range s.rows {
		if row.OccurredAt.Year() == year && row.OccurredAt.Month() == month {
			deleted++
			continue
		}
		kept = append(kept, row)
	}
	s.rows = kept
	return deleted, nil
}

func (s *fakeStore) ListAll(_ context.Context) ([]*ledger.Transaction, error) {
	return s.rows, nil
}

func (s *fakeStore) Insert(_ context.Context, t *ledger.Transaction) error {
	for _, row := range s.rows {
		if row.Fingerprint == t.Fingerprint {
			return ledger.ErrDuplicateFingerprint
		}
	}
	copied := *t
	s.rows = append(s.rows, &copied)
	return nil
}

func (s *fakeStore) UpdateFingerprint(_ context.Context, id uuid.UUID, fingerprint string) error {
	for _, row := range s.rows {
		if row.ID == id {
			row.Fingerprint = fingerprint
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *fakeStore) find(id uuid.UUID) *ledger.Transaction {
	for _, row := range s.rows {
		if row.ID == id {
			return row
		}
	}
	return nil
}

func candidate(date, amount, description, method string, direction ledger.Direction) *ledger.Transaction {
	occurredAt, err := time.Parse(ledger.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return &ledger.Transaction{
		ID:          uuid.Must(uuid.NewV4()),
		OccurredAt:  occurredAt,
		Amount:      decimal.RequireFromString(amount),
		Description: description,
		Merchant:    description,
		Method:      method,
		Direction:   direction,
		RawCategory: "식비>외식",
		Currency:    ledger.DefaultCurrency,
	}
}

// -- Basic batch tests --

func TestRun_InsertsNewRows(t *testing.T) {
	store := &fakeStore{}
	candidates := []*ledger.Transaction{
		candidate("2025-06-01", "-12000", "Lunch", "card", ledger.DirectionExpense),
		candidate("2025-06-02", "-4500", "Coffee", "card", ledger.DirectionExpense),
	}

	result, err := New(store).Run(context.Background(), candidates, ReplaceMonth{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.SkippedDuplicates)
	assert.Len(t, store.rows, 2)
	assert.Len(t, result.Inserted, 2)
	assert.NotEmpty(t, store.rows[0].Fingerprint)
}

func TestRun_ReimportIsIdempotent(t *testing.T) {
	store := &fakeStore{}
	rec := New(store)
	batch := func() []*ledger.Transaction {
		return []*ledger.Transaction{
			candidate("2025-06-01", "-12000", "Lunch", "card", ledger.DirectionExpense),
			candidate("2025-06-02", "-4500", "Coffee", "card", ledger.DirectionExpense),
		}
	}

	first, err := rec.Run(context.Background(), batch(), ReplaceMonth{})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Imported)

	second, err := rec.Run(context.Background(), batch(), ReplaceMonth{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 2, second.SkippedDuplicates)
	assert.Len(t, store.rows, 2)
}

func TestRun_DuplicateWithinOneBatch(t *testing.T) {
	store := &fakeStore{}
	candidates := []*ledger.Transaction{
		candidate("2025-06-01", "-12000", "Lunch", "card", ledger.DirectionExpense),
		candidate("2025-06-01", "-12000", "Lunch", "card", ledger.DirectionExpense),
	}

	result, err := New(store).Run(context.Background(), candidates, ReplaceMonth{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.SkippedDuplicates)
	assert.Len(t, store.rows, 1)
}

// -- Fallback matching tests --

func TestRun_EditedRowSurvivesReimport(t *testing.T) {
	store := &fakeStore{}
	rec := New(store)

	original := candidate("2025-06-01", "-12000", "Lunch", "card", ledger.DirectionExpense)
	_, err := rec.Run(context.Background(), []*ledger.Transaction{original}, ReplaceMonth{})
	require.NoError(t, err)

	// The user recategorizes and renames the stored row. The update path
	// recomputes the fingerprint, so it no longer matches what the bank file
	// produces.
	stored := store.rows[0]
	stored.Description = "Team lunch"
	stored.RawCategory = "업무>식비"
	stored.Fingerprint = stored.ComputeFingerprint()

	reimported := candidate("2025-06-01", "-12000", "Lunch", "card", ledger.DirectionExpense)
	result, err := rec.Run(context.Background(), []*ledger.Transaction{reimported}, ReplaceMonth{})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Imported, "edited row must be recognized, not duplicated")
	assert.Equal(t, 1, result.SkippedDuplicates)
	require.Len(t, store.rows, 1)
	// The edit is preserved; only the fingerprint moved forward.
	assert.Equal(t, "Team lunch", store.rows[0].Description)
	assert.Equal(t, "업무>식비", store.rows[0].RawCategory)
	assert.Equal(t, reimported.ComputeFingerprint(), store.rows[0].Fingerprint)
}

func TestRun_ExclusionSurvivesReimport(t *testing.T) {
	store := &fakeStore{}
	rec := New(store)

	original := candidate("2025-06-01", "-12000", "Lunch", "card", ledger.DirectionExpense)
	_, err := rec.Run(context.Background(), []*ledger.Transaction{original}, ReplaceMonth{})
	require.NoError(t, err)

	// Excluding does not change the fingerprint, so the exact path hits.
	store.rows[0].Excluded = true

	reimported := candidate("2025-06-01", "-12000", "Lunch", "card", ledger.DirectionExpense)
	result, err := rec.Run(context.Background(), []*ledger.Transaction{reimported}, ReplaceMonth{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.SkippedDuplicates)
	assert.True(t, store.rows[0].Excluded)
}

func TestRun_AmountEditMatchesThroughDescriptionLevel(t *testing.T) {
	store := &fakeStore{}
	rec := New(store)

	original := candidate("2025-06-01", "-12000", "Lunch", "card", ledger.DirectionExpense)
	_, err := rec.Run(context.Background(), []*ledger.Transaction{original}, ReplaceMonth{})
	require.NoError(t, err)

	// Amount corrected by the user: levels keyed on amount miss, the
	// description level still identifies the row.
	stored := store.rows[0]
	stored.Amount = decimal.RequireFromString("-11000")
	stored.Fingerprint = stored.ComputeFingerprint()

	reimported := candidate("2025-06-01", "-12000", "Lunch", "card", ledger.DirectionExpense)
	result, err := rec.Run(context.Background(), []*ledger.Transaction{reimported}, ReplaceMonth{})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Imported)
	require.Len(t, store.rows, 1)
	assert.True(t, store.rows[0].Amount.Equal(decimal.RequireFromString("-11000")))
}

func TestRun_AmbiguousMatchInsertsNewRow(t *testing.T) {
	store := &fakeStore{}

	// Two stored rows identical on every fallback key.
	first := candidate("2025-06-01", "-12000", "Lunch", "card", ledger.DirectionExpense)
	first.Fingerprint = first.ComputeFingerprint()
	second := candidate("2025-06-01", "-12000", "Lunch", "card", ledger.DirectionExpense)
	second.RawCategory = "식비>회식"
	second.Fingerprint = second.ComputeFingerprint()
	store.rows = []*ledger.Transaction{first, second}

	// A third candidate that matches both: ambiguity must never guess, so it
	// inserts as a new row.
	third := candidate("2025-06-01", "-12000", "Lunch", "card", ledger.DirectionExpense)
	third.RawCategory = "식비>간식"
	result, err := New(store).Run(context.Background(), []*ledger.Transaction{third}, ReplaceMonth{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	assert.Len(t, store.rows, 3)
}

func TestRun_SameDayRepeatedDescriptionStaysAmbiguous(t *testing.T) {
	store := &fakeStore{}

	// Two stored same-day purchases sharing description/method but not
	// amount. The description-keyed level sees both and must not guess.
	first := candidate("2025-06-01", "-4500", "Coffee", "card", ledger.DirectionExpense)
	first.Fingerprint = first.ComputeFingerprint()
	second := candidate("2025-06-01", "-5000", "Coffee", "card", ledger.DirectionExpense)
	second.Fingerprint = second.ComputeFingerprint()
	store.rows = []*ledger.Transaction{first, second}

	third := candidate("2025-06-01", "-6000", "Coffee", "card", ledger.DirectionExpense)
	result, err := New(store).Run(context.Background(), []*ledger.Transaction{third}, ReplaceMonth{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	assert.Len(t, store.rows, 3)
}

// -- Replace month tests --

func TestRun_ReplaceMonthDeletesTarget(t *testing.T) {
	store := &fakeStore{}
	rec := New(store)

	may := candidate("2025-05-15", "-9000", "May dinner", "card", ledger.DirectionExpense)
	june := candidate("2025-06-10", "-7000", "June dinner", "card", ledger.DirectionExpense)
	_, err := rec.Run(context.Background(), []*ledger.Transaction{may, june}, ReplaceMonth{})
	require.NoError(t, err)

	replacement := candidate("2025-06-20", "-3000", "June snack", "card", ledger.DirectionExpense)
	result, err := rec.Run(context.Background(), []*ledger.Transaction{replacement}, ReplaceMonth{
		Enabled: true, Year: 2025, Month: time.June,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, store.rows, 2)
	assert.Equal(t, "May dinner", store.rows[0].Description)
	assert.Equal(t, "June snack", store.rows[1].Description)
}

func TestRun_ReplaceMonthInfersSingleMonth(t *testing.T) {
	store := &fakeStore{}
	rec := New(store)

	stale := candidate("2025-06-01", "-1000", "stale", "card", ledger.DirectionExpense)
	_, err := rec.Run(context.Background(), []*ledger.Transaction{stale}, ReplaceMonth{})
	require.NoError(t, err)

	fresh := candidate("2025-06-02", "-2000", "fresh", "card", ledger.DirectionExpense)
	result, err := rec.Run(context.Background(), []*ledger.Transaction{fresh}, ReplaceMonth{Enabled: true})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 1, result.Imported)
}

func TestRun_ReplaceMonthRejectsMultiMonthInference(t *testing.T) {
	store := &fakeStore{}
	candidates := []*ledger.Transaction{
		candidate("2025-05-31", "-1000", "a", "card", ledger.DirectionExpense),
		candidate("2025-06-01", "-2000", "b", "card", ledger.DirectionExpense),
	}

	_, err := New(store).Run(context.Background(), candidates, ReplaceMonth{Enabled: true})
	assert.True(t, ledger.IsValidation(err))
	assert.Empty(t, store.rows, "nothing may be deleted or inserted on a rejected batch")
}

func TestRun_ReplaceMonthRejectsOutOfRangeYear(t *testing.T) {
	store := &fakeStore{}
	candidates := []*ledger.Transaction{
		candidate("2025-06-01", "-1000", "a", "card", ledger.DirectionExpense),
	}

	_, err := New(store).Run(context.Background(), candidates, ReplaceMonth{
		Enabled: true, Year: 1999, Month: time.June,
	})
	assert.True(t, ledger.IsValidation(err))
}

// -- Auto exclusion tests --

func TestRun_TransferCategoryAutoExcluded(t *testing.T) {
	store := &fakeStore{}

	row := candidate("2025-06-01", "-50000", "계좌이체", "", ledger.DirectionExpense)
	row.RawCategory = "이체"

	result, err := New(store).Run(context.Background(), []*ledger.Transaction{row}, ReplaceMonth{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	assert.True(t, store.find(row.ID).Excluded)
}
