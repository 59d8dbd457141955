package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/storage"
)

// UpdateTransaction edits one row located by identifier, scoped to a
// direction. The fingerprint is recomputed from the merged field values and
// persisted in the same statement.
type UpdateTransaction struct {
	ID        uuid.UUID
	Direction ledger.Direction
	Updates   TransactionUpdates

	IAction
}

func (u *UpdateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	if u.Updates.IsEmpty() {
		return ledger.NewValidationError("no fields to update")
	}

	existing, err := writer.Transaction.FindByID(ctx, u.ID, u.Direction)
	if err != nil {
		return err
	}

	return writer.Transaction.UpdateFields(ctx, existing.ID, u.Direction, u.Updates.toFieldUpdates(existing))
}
