package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/ledger"
)

// autoExcludedCategories are transfer-like raw categories whose rows are
// excluded from totals on first insert.
var autoExcludedCategories = map[string]bool{
	"이체":                true,
	"내부이체":              true,
	"transfer":          true,
	"internal transfer": true,
}

// Store is the slice of the transaction store the reconciler needs. The
// production implementation runs every call inside the batch's single
// database transaction.
type Store interface {
	DeleteMonth(ctx context.Context, year int, month time.Month) (int64, error)
	ListAll(ctx context.Context) ([]*ledger.Transaction, error)
	Insert(ctx context.Context, t *ledger.Transaction) error
	UpdateFingerprint(ctx context.Context, id uuid.UUID, fingerprint string) error
}

// ReplaceMonth requests deletion of all stored rows in one month before the
// batch inserts. With Year/Month zero the target month is inferred, which
// requires every candidate to fall in a single month.
type ReplaceMonth struct {
	Enabled bool
	Year    int
	Month   time.Month
}

// BatchResult reports what one import batch did.
type BatchResult struct {
	Deleted           int
	Imported          int
	SkippedDuplicates int

	// Inserted carries the freshly created rows so post-batch passes
	// (classification, transfer pairing) can pick them up.
	Inserted []*ledger.Transaction
}

// Reconciler converges a batch of normalized candidates onto the store:
// one logical row per real-world transaction, with user edits preserved.
type Reconciler struct {
	store Store
}

func New(store Store) *Reconciler {
	return &Reconciler{store: store}
}

// Run executes one batch. The caller is responsible for wrapping it in a
// single atomic storage transaction.
func (r *Reconciler) Run(ctx context.Context, candidates []*ledger.Transaction, replace ReplaceMonth) (*BatchResult, error) {
	result := &BatchResult{}

	if replace.Enabled {
		year, month, err := resolveTargetMonth(candidates, replace)
		if err != nil {
			return nil, err
		}
		deleted, err := r.store.DeleteMonth(ctx, year, month)
		if err != nil {
			return nil, err
		}
		result.Deleted = int(deleted)
	}

	existing, err := r.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	matcher := NewMatcher(existing)

	for _, candidate := range candidates {
		fingerprint := candidate.ComputeFingerprint()

		if matcher.HasFingerprint(fingerprint) {
			result.SkippedDuplicates++
			continue
		}

		if matchedID, ok := matcher.Resolve(candidate); ok {
			// Same transaction, edited since the last import. Only the stored
			// fingerprint moves forward; the edited content stays untouched,
			// and the next identical re-import hits the exact path.
			if err := r.store.UpdateFingerprint(ctx, matchedID, fingerprint); err != nil {
				return nil, err
			}
			matcher.RegisterFingerprint(fingerprint)
			result.SkippedDuplicates++
			continue
		}

		candidate.Fingerprint = fingerprint
		if autoExcludedCategories[candidate.RawCategory] {
			candidate.Excluded = true
		}
		err := r.store.Insert(ctx, candidate)
		if errors.Is(err, ledger.ErrDuplicateFingerprint) {
			result.SkippedDuplicates++
			continue
		}
		if err != nil {
			return nil, err
		}

		matcher.RegisterFingerprint(fingerprint)
		matcher.Register(candidate)
		result.Imported++
		result.Inserted = append(result.Inserted, candidate)
	}

	return result, nil
}

func resolveTargetMonth(candidates []*ledger.Transaction, replace ReplaceMonth) (int, time.Month, error) {
	year, month := replace.Year, replace.Month

	if year == 0 || month == 0 {
		months := make(map[string]bool)
		var latest time.Time
		for _, candidate := range candidates {
			months[candidate.OccurredAt.Format("2006-01")] = true
			latest = candidate.OccurredAt
		}
		if len(months) != 1 {
			return 0, 0, ledger.NewValidationError("candidates span %d months; an explicit year/month is required", len(months))
		}
		year, month = latest.Year(), latest.Month()
	}

	if year < 2000 || year > 2100 || month < time.January || month > time.December {
		return 0, 0, ledger.NewValidationError("year/month out of range: %04d-%02d", year, int(month))
	}
	return year, month, nil
}
