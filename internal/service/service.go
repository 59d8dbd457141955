package service

import (
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/classify"
	"github.com/carson-networks/ledger-server/internal/operator"
	"github.com/carson-networks/ledger-server/internal/storage"
)

// Service holds all business logic services.
type Service struct {
	Import      *ImportService
	Transaction *TransactionService
}

// NewService creates a new Service with the given storage and write queue.
func NewService(store *storage.Storage, op *operator.OperatorDelegator, classifier *classify.Classifier, logger *logrus.Logger) *Service {
	return &Service{
		Import:      NewImportService(op, classifier, logger),
		Transaction: NewTransactionService(store),
	}
}
