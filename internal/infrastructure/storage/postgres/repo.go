package postgres

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ascai1/oanda-wallpaper/internal/application/port"
)

type Repo struct {
	db *sql.DB
}

func New(dsn string) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS latest_prices (
  symbol TEXT PRIMARY KEY,
  price DOUBLE PRECISION NOT NULL,
  direction TEXT NOT NULL,
  ts_ms BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshots (
  id BIGSERIAL PRIMARY KEY,
  run_id TEXT NOT NULL,
  ts_ms BIGINT NOT NULL,
  payload JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(ts_ms);
CREATE INDEX IF NOT EXISTS idx_snapshots_run ON snapshots(run_id);
`)
	return err
}

func (r *Repo) UpsertLatestPrice(ctx context.Context, symbol string, price float64, direction string, ts int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO latest_prices(symbol, price, direction, ts_ms) VALUES($1, $2, $3, $4)
		ON CONFLICT(symbol) DO UPDATE SET
		price=EXCLUDED.price, direction=EXCLUDED.direction, ts_ms=EXCLUDED.ts_ms
	`, symbol, price, direction, ts)
	return err
}

func (r *Repo) InsertSnapshot(ctx context.Context, runID string, ts int64, payload string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO snapshots(run_id, ts_ms, payload) VALUES($1, $2, $3)`, runID, ts, payload)
	return err
}

var _ port.Repository = (*Repo)(nil)
