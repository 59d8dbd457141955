package storage

import (
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

type Reader struct {
	Transactions *transaction.Reader
}

func NewReader(exec transaction.Queryer) *Reader {
	return &Reader{
		Transactions: transaction.NewReader(exec),
	}
}
