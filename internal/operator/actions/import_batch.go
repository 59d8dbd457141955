package actions

import (
	"context"

	"github.com/carson-networks/ledger-server/internal/classify"
	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/reconcile"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/classification"
	"github.com/carson-networks/ledger-server/internal/transfer"
)

// ImportOutcome is what one import batch reports back.
type ImportOutcome struct {
	Deleted           int
	Imported          int
	SkippedDuplicates int
	PairedGroups      int
}

// ImportBatch reconciles a batch of normalized candidates against the store,
// classifies the freshly inserted rows, then re-runs transfer pairing over
// the full unresolved set. Everything happens in the one transaction the
// operator opened.
type ImportBatch struct {
	Candidates []*ledger.Transaction
	Replace    reconcile.ReplaceMonth
	Classifier *classify.Classifier

	Outcome *ImportOutcome

	IAction
}

func (a *ImportBatch) Perform(ctx context.Context, writer *storage.Writer) error {
	reconciler := reconcile.New(writer.Transaction)
	result, err := reconciler.Run(ctx, a.Candidates, a.Replace)
	if err != nil {
		return err
	}

	if a.Classifier != nil {
		for _, inserted := range result.Inserted {
			verdict := a.Classifier.Classify(inserted)
			err := writer.Classification.Upsert(ctx, &classification.Classification{
				TransactionID: inserted.ID,
				Direction:     string(verdict.Direction),
				ExpenseKind:   verdict.ExpenseKind,
				Category:      verdict.Category,
				Confidence:    verdict.Confidence,
				RulesFired:    verdict.RulesFired,
			})
			if err != nil {
				return err
			}
		}
	}

	pairer := transfer.New(writer.Transaction)
	paired, err := pairer.Run(ctx)
	if err != nil {
		return err
	}

	a.Outcome = &ImportOutcome{
		Deleted:           result.Deleted,
		Imported:          result.Imported,
		SkippedDuplicates: result.SkippedDuplicates,
		PairedGroups:      paired,
	}
	return nil
}
