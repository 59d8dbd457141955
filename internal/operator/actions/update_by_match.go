package actions

import (
	"context"

	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// UpdateTransactionByMatch edits one row located by a full-field snapshot
// instead of an identifier. Exact equality is required on every snapshot
// field; zero matches is not-found and more than one is a conflict. The
// action never guesses which row the caller meant.
type UpdateTransactionByMatch struct {
	Original transaction.Snapshot
	Updates  TransactionUpdates

	IAction
}

func (u *UpdateTransactionByMatch) Perform(ctx context.Context, writer *storage.Writer) error {
	if u.Updates.IsEmpty() {
		return ledger.NewValidationError("no fields to update")
	}

	candidates, err := writer.Transaction.ListBySnapshot(ctx, &u.Original)
	if err != nil {
		return err
	}

	var matched []*ledger.Transaction
	for _, candidate := range candidates {
		if candidate.Amount.Abs().Equal(u.Original.Amount) {
			matched = append(matched, candidate)
		}
	}

	if len(matched) == 0 {
		return ledger.ErrNotFound
	}
	if len(matched) > 1 {
		return ledger.ErrConflict
	}

	existing := matched[0]
	return writer.Transaction.UpdateFields(ctx, existing.ID, existing.Direction, u.Updates.toFieldUpdates(existing))
}
