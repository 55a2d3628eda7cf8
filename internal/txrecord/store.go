package txrecord

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS payouts (
	id         UUID PRIMARY KEY,
	buyer      TEXT NOT NULL,
	mint       TEXT NOT NULL,
	amount     BIGINT NOT NULL,
	signature  TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

const insertPayoutSQL = `
INSERT INTO payouts (id, buyer, mint, amount, signature, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

// Store persists payout records in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Postgres pool: %w", err)
	}

	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure payouts table: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) RecordPayout(ctx context.Context, payout Payout) error {
	if payout.ID == uuid.Nil {
		payout.ID = uuid.New()
	}
	if payout.CreatedAt.IsZero() {
		payout.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx, insertPayoutSQL,
		payout.ID,
		payout.Buyer,
		payout.Mint,
		int64(payout.Amount),
		payout.Signature,
		payout.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payout record: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	s.pool.Close()
}
