package storage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carson-networks/ledger-server/internal/config"
)

type Storage struct {
	Pool *pgxpool.Pool
}

func NewStorage(ctx context.Context, env *config.Config) (*Storage, error) {
	connStr := "postgres://" + env.PostgresUsername + ":" +
		env.PostgresPassword + "@" + env.PostgresAddress + ":" +
		env.PostgresPort + "/" + env.PostgresDB + "?sslmode=disable"

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}

	return &Storage{Pool: pool}, nil
}

// Read returns a reader running directly against the pool. Reads never
// observe a partially committed batch.
func (s *Storage) Read() *Reader {
	return NewReader(s.Pool)
}

// Write opens the single transaction one batch runs in.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	writer := NewWriter(tx)
	return &writer, nil
}

func (s *Storage) Close() {
	s.Pool.Close()
}
