package service

import (
	"context"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/classify"
	"github.com/carson-networks/ledger-server/internal/ingest"
	"github.com/carson-networks/ledger-server/internal/operator"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/reconcile"
)

// ImportInput is one uploaded document plus its import options.
type ImportInput struct {
	FileName     string
	Content      string
	ReplaceMonth bool
	Year         int
	Month        int
}

// ImportResult reports the batch counts back to the caller.
type ImportResult struct {
	Deleted           int
	Imported          int
	SkippedDuplicates int
	PairedGroups      int
	RejectedRows      int
}

// ImportService normalizes uploaded documents and hands the batch to the
// write queue for reconciliation.
type ImportService struct {
	operator   *operator.OperatorDelegator
	classifier *classify.Classifier
	logger     *logrus.Logger
}

func NewImportService(op *operator.OperatorDelegator, classifier *classify.Classifier, logger *logrus.Logger) *ImportService {
	return &ImportService{
		operator:   op,
		classifier: classifier,
		logger:     logger,
	}
}

// Import runs one batch end to end: parse and normalize, reconcile inside a
// single storage transaction, classify new rows, re-pair transfers.
func (s *ImportService) Import(ctx context.Context, input ImportInput) (*ImportResult, error) {
	parsed, err := ingest.ParseDocument(input.FileName, input.Content)
	if err != nil {
		return nil, err
	}

	if len(parsed.Rejections) > 0 && s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"schema":     parsed.Schema.String(),
			"rejected":   len(parsed.Rejections),
			"candidates": len(parsed.Candidates),
		}).Info("ImportService.Import.rejected rows")
		s.logger.Debug(spew.Sdump(parsed.Rejections))
	}

	action := &actions.ImportBatch{
		Candidates: parsed.Candidates,
		Replace: reconcile.ReplaceMonth{
			Enabled: input.ReplaceMonth,
			Year:    input.Year,
			Month:   time.Month(input.Month),
		},
		Classifier: s.classifier,
	}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}

	return &ImportResult{
		Deleted:           action.Outcome.Deleted,
		Imported:          action.Outcome.Imported,
		SkippedDuplicates: action.Outcome.SkippedDuplicates,
		PairedGroups:      action.Outcome.PairedGroups,
		RejectedRows:      len(parsed.Rejections),
	}, nil
}
