package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/storage"
)

// CreateTransaction inserts one manually entered row. Amount is a positive
// magnitude; the stored sign follows the direction.
type CreateTransaction struct {
	OccurredAt  time.Time
	Direction   ledger.Direction
	RawCategory string
	Description string
	Amount      decimal.Decimal
	Method      string
	Memo        string
	Excluded    bool

	CreatedID uuid.UUID

	IAction
}

func (c *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}

	t := &ledger.Transaction{
		ID:          id,
		OccurredAt:  c.OccurredAt,
		Amount:      ledger.SignedAmount(c.Direction, c.Amount),
		Description: c.Description,
		Merchant:    c.Description,
		Method:      c.Method,
		Direction:   c.Direction,
		RawCategory: c.RawCategory,
		Memo:        c.Memo,
		Currency:    ledger.DefaultCurrency,
		Excluded:    c.Excluded,
	}
	t.Fingerprint = t.ComputeFingerprint()

	if err := writer.Transaction.Insert(ctx, t); err != nil {
		return err
	}

	c.CreatedID = id
	return nil
}
