package txrecord

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Payout is the audit record of one submitted token transfer. It is written
// after on-chain submission and never consulted by the request path.
type Payout struct {
	ID        uuid.UUID
	Buyer     string
	Mint      string
	Amount    uint64
	Signature string
	CreatedAt time.Time
}

type Recorder interface {
	RecordPayout(ctx context.Context, payout Payout) error
}

// Nop discards records; used when no database is configured.
type Nop struct{}

func (Nop) RecordPayout(ctx context.Context, payout Payout) error {
	return nil
}
