package transfer

import (
	"context"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/ledger"
)

// internalTransferKeywords mark descriptions that denote the leg of a
// movement between the user's own accounts.
var internalTransferKeywords = []string{
	"세이프박스",
	"내계좌로 이체",
	"동전 모으기",
	"저금통",
	"카드잔액 자동충전",
}

// pairingWindow is the maximum separation between the two legs of one
// internal movement.
const pairingWindow = 5 * time.Minute

// IsInternalTransfer reports whether the description matches the internal
// transfer keyword list.
func IsInternalTransfer(description string) bool {
	for _, keyword := range internalTransferKeywords {
		if strings.Contains(description, keyword) {
			return true
		}
	}
	return false
}

// Store is the slice of the transaction store the pairer needs.
type Store interface {
	// ListUngrouped returns every row without a transfer group, any
	// direction, ordered by occurred_at ascending.
	ListUngrouped(ctx context.Context) ([]*ledger.Transaction, error)
	// AssignTransferGroup links two rows under one group id and clears their
	// review flags.
	AssignTransferGroup(ctx context.Context, groupID, leftID, rightID uuid.UUID) error
}

// Pairer links the two legs of internal account-to-account movements so they
// net out of income/expense totals. It runs after every import batch over the
// full unresolved set, so transfers split across separate batches still link
// up.
type Pairer struct {
	store Store
}

func New(store Store) *Pairer {
	return &Pairer{store: store}
}

// Run scans ungrouped transfer rows in ascending time order and pairs each
// keyword-matching leg with the first ungrouped row carrying the same
// currency, the exact opposite signed amount and a timestamp within the
// window. Each row joins at most one group; rows left unmatched keep their
// review flag. Returns the number of groups created.
func (p *Pairer) Run(ctx context.Context) (int, error) {
	rows, err := p.store.ListUngrouped(ctx)
	if err != nil {
		return 0, err
	}

	paired := 0
	used := make(map[uuid.UUID]bool)
	for _, left := range rows {
		if used[left.ID] || left.Direction != ledger.DirectionTransfer {
			continue
		}
		if !IsInternalTransfer(left.Description) {
			continue
		}

		for _, right := range rows {
			if used[right.ID] || right.ID == left.ID {
				continue
			}
			if right.Currency != left.Currency {
				continue
			}
			if !right.Amount.Equal(left.Amount.Neg()) {
				continue
			}
			gap := right.OccurredAt.Sub(left.OccurredAt)
			if gap < 0 {
				gap = -gap
			}
			if gap > pairingWindow {
				continue
			}

			groupID, err := uuid.NewV4()
			if err != nil {
				return paired, err
			}
			if err := p.store.AssignTransferGroup(ctx, groupID, left.ID, right.ID); err != nil {
				return paired, err
			}
			used[left.ID] = true
			used[right.ID] = true
			paired++
			break
		}
	}

	return paired, nil
}
