package port

import "context"

// Repository records what consumers observed. It is write-only: nothing is
// ever read back into a session.
type Repository interface {
	// UpsertLatestPrice keeps the last seen price per symbol.
	UpsertLatestPrice(ctx context.Context, symbol string, price float64, direction string, ts int64) error

	// InsertSnapshot appends a full snapshot document.
	InsertSnapshot(ctx context.Context, runID string, ts int64, payload string) error

	Close() error
}
