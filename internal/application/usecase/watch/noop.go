package watch

import (
	"context"

	"github.com/ascai1/oanda-wallpaper/internal/application/port"
)

type noopRepo struct{}

func NewNoopRepo() port.Repository { return &noopRepo{} }

func (n *noopRepo) UpsertLatestPrice(ctx context.Context, symbol string, price float64, direction string, ts int64) error {
	return nil
}
func (n *noopRepo) InsertSnapshot(ctx context.Context, runID string, ts int64, payload string) error {
	return nil
}
func (n *noopRepo) Close() error { return nil }

type noopPublisher struct{}

func (noopPublisher) Publish(payload []byte) {}
