package actions

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// TransactionUpdates is the set of field edits one update operation applies.
// Nil pointers leave the field alone. Amount is a positive magnitude; the
// stored sign follows the row's direction.
type TransactionUpdates struct {
	OccurredAt  *time.Time
	RawCategory *string
	Description *string
	Amount      *decimal.Decimal
	Method      *string
	Excluded    *bool
}

func (u *TransactionUpdates) IsEmpty() bool {
	return u.OccurredAt == nil && u.RawCategory == nil && u.Description == nil &&
		u.Amount == nil && u.Method == nil && u.Excluded == nil
}

// toFieldUpdates merges the edits onto the existing row and recomputes the
// fingerprint from the merged content, so a later re-import of the original
// source recognizes the edited row instead of duplicating it.
func (u *TransactionUpdates) toFieldUpdates(existing *ledger.Transaction) *transaction.FieldUpdates {
	merged := *existing
	updates := &transaction.FieldUpdates{
		OccurredAt:  u.OccurredAt,
		RawCategory: u.RawCategory,
		Description: u.Description,
		Method:      u.Method,
		Excluded:    u.Excluded,
	}

	if u.OccurredAt != nil {
		merged.OccurredAt = *u.OccurredAt
	}
	if u.RawCategory != nil {
		merged.RawCategory = *u.RawCategory
	}
	if u.Description != nil {
		merged.Description = *u.Description
	}
	if u.Method != nil {
		merged.Method = *u.Method
	}
	if u.Amount != nil {
		signed := ledger.SignedAmount(existing.Direction, *u.Amount)
		merged.Amount = signed
		updates.Amount = &signed
	}
	// Excluded is not part of the fingerprint; merging it is unnecessary.

	updates.Fingerprint = merged.ComputeFingerprint()
	return updates
}
