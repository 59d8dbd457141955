// Package classification persists classifier verdicts alongside
// transactions. The data is display/analytics only.
package classification

import (
	"context"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// Classification is one stored classifier verdict.
type Classification struct {
	TransactionID uuid.UUID
	Direction     string
	ExpenseKind   string
	Category      string // empty means no real category
	Confidence    float64
	RulesFired    []string
}

type Writer struct {
	tx pgx.Tx
}

func NewWriter(tx pgx.Tx) *Writer {
	return &Writer{tx: tx}
}

// Upsert writes the verdict for a transaction, replacing any previous one.
func (w *Writer) Upsert(ctx context.Context, c *Classification) error {
	var category any
	if c.Category != "" {
		category = c.Category
	}
	_, err := w.tx.Exec(ctx, `
		INSERT INTO classifications (
			transaction_id, direction, expense_kind, category, confidence, rules_fired
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (transaction_id) DO UPDATE SET
			direction = EXCLUDED.direction,
			expense_kind = EXCLUDED.expense_kind,
			category = EXCLUDED.category,
			confidence = EXCLUDED.confidence,
			rules_fired = EXCLUDED.rules_fired`,
		c.TransactionID, c.Direction, c.ExpenseKind, category,
		c.Confidence, strings.Join(c.RulesFired, ","),
	)
	return err
}
