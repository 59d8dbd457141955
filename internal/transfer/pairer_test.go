package transfer

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

// fakeStore is an in-memory Store that records group assignments.
type fakeStore struct {
	rows []*ledger.Transaction
}

func (s *fakeStore) ListUngrouped(_ context.Context) ([]*ledger.Transaction, error) {
	var ungrouped []*ledger.Transaction
	for _, row := range s.rows {
		if row.TransferGroupID == nil {
			ungrouped = append(ungrouped, row)
		}
	}
	return ungrouped, nil
}

func (s *fakeStore) AssignTransferGroup(_ context.Context, groupID, leftID, rightID uuid.UUID) error {
	for _, row := range s.rows {
		if row.ID == leftID || row.ID == rightID {
			id := groupID
			row.TransferGroupID = &id
			row.ReviewRequired = false
		}
	}
	return nil
}

func leg(at time.Time, amount string, description string, direction ledger.Direction) *ledger.Transaction {
	return &ledger.Transaction{
		ID:             uuid.Must(uuid.NewV4()),
		OccurredAt:     at,
		Amount:         decimal.RequireFromString(amount),
		Description:    description,
		Direction:      direction,
		Currency:       ledger.DefaultCurrency,
		ReviewRequired: direction == ledger.DirectionTransfer,
	}
}

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestIsInternalTransfer(t *testing.T) {
	assert.True(t, IsInternalTransfer("세이프박스 입금"))
	assert.True(t, IsInternalTransfer("카드잔액 자동충전"))
	assert.False(t, IsInternalTransfer("스타벅스 강남점"))
}

func TestRun_PairsOppositeLegsWithinWindow(t *testing.T) {
	out := leg(baseTime, "-50000", "세이프박스", ledger.DirectionTransfer)
	in := leg(baseTime.Add(2*time.Minute), "50000", "입금", ledger.DirectionTransfer)
	store := &fakeStore{rows: []*ledger.Transaction{out, in}}

	paired, err := New(store).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, paired)
	require.NotNil(t, out.TransferGroupID)
	require.NotNil(t, in.TransferGroupID)
	assert.Equal(t, *out.TransferGroupID, *in.TransferGroupID)
	assert.False(t, out.ReviewRequired)
	assert.False(t, in.ReviewRequired)
}

func TestRun_LegOutsideWindowStaysFlagged(t *testing.T) {
	out := leg(baseTime, "-50000", "세이프박스", ledger.DirectionTransfer)
	in := leg(baseTime.Add(6*time.Minute), "50000", "입금", ledger.DirectionTransfer)
	store := &fakeStore{rows: []*ledger.Transaction{out, in}}

	paired, err := New(store).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, paired)
	assert.Nil(t, out.TransferGroupID)
	assert.True(t, out.ReviewRequired)
}

func TestRun_RequiresSameCurrencyAndOppositeAmount(t *testing.T) {
	out := leg(baseTime, "-50000", "세이프박스", ledger.DirectionTransfer)
	foreign := leg(baseTime.Add(time.Minute), "50000", "입금", ledger.DirectionTransfer)
	foreign.Currency = "USD"
	sameSign := leg(baseTime.Add(time.Minute), "-50000", "입금", ledger.DirectionTransfer)
	store := &fakeStore{rows: []*ledger.Transaction{out, foreign, sameSign}}

	paired, err := New(store).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, paired)
}

func TestRun_KeywordGateAppliesToScannedLegOnly(t *testing.T) {
	// The counterpart has no keyword and is not even transfer-typed; it still
	// qualifies as the opposite leg.
	out := leg(baseTime, "-50000", "저금통 이체", ledger.DirectionTransfer)
	in := leg(baseTime.Add(time.Minute), "50000", "계좌 입금", ledger.DirectionIncome)
	store := &fakeStore{rows: []*ledger.Transaction{out, in}}

	paired, err := New(store).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, paired)
	assert.NotNil(t, in.TransferGroupID)
}

func TestRun_EachRowJoinsAtMostOneGroup(t *testing.T) {
	out := leg(baseTime, "-50000", "세이프박스", ledger.DirectionTransfer)
	first := leg(baseTime.Add(time.Minute), "50000", "입금 A", ledger.DirectionTransfer)
	second := leg(baseTime.Add(2*time.Minute), "50000", "입금 B", ledger.DirectionTransfer)
	store := &fakeStore{rows: []*ledger.Transaction{out, first, second}}

	paired, err := New(store).Run(context.Background())
	require.NoError(t, err)

	// The earlier candidate wins; the later one stays ungrouped.
	assert.Equal(t, 1, paired)
	assert.NotNil(t, first.TransferGroupID)
	assert.Nil(t, second.TransferGroupID)
}

func TestRun_AlreadyGroupedRowsAreSkipped(t *testing.T) {
	groupID := uuid.Must(uuid.NewV4())
	grouped := leg(baseTime, "-50000", "세이프박스", ledger.DirectionTransfer)
	grouped.TransferGroupID = &groupID
	lone := leg(baseTime.Add(time.Minute), "50000", "입금", ledger.DirectionTransfer)
	store := &fakeStore{rows: []*ledger.Transaction{grouped, lone}}

	paired, err := New(store).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, paired)
	assert.Nil(t, lone.TransferGroupID)
}
