package storage

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/carson-networks/ledger-server/internal/storage/classification"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

type Writer struct {
	tx             pgx.Tx
	Transaction    *transaction.Writer
	Classification *classification.Writer
}

func NewWriter(tx pgx.Tx) Writer {
	return Writer{
		tx:             tx,
		Transaction:    transaction.NewWriter(tx),
		Classification: classification.NewWriter(tx),
	}
}

func (w *Writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}
