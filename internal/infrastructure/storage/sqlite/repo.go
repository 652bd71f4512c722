package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ascai1/oanda-wallpaper/internal/application/port"
)

type Repo struct {
	db *sql.DB
}

func New(path string) (*Repo, error) {
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

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
CREATE TABLE IF NOT EXISTS prices (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  symbol TEXT NOT NULL UNIQUE,
  price REAL NOT NULL,
  direction TEXT NOT NULL,
  ts_ms INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_prices_ts ON prices(ts_ms);

CREATE TABLE IF NOT EXISTS snapshots (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  run_id TEXT NOT NULL,
  ts_ms INTEGER NOT NULL,
  payload TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(ts_ms);
CREATE INDEX IF NOT EXISTS idx_snapshots_run ON snapshots(run_id);
`)
	return err
}

func (r *Repo) UpsertLatestPrice(ctx context.Context, symbol string, price float64, direction string, ts int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO prices(symbol, price, direction, ts_ms, created_at)
		VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
		price=excluded.price, direction=excluded.direction, ts_ms=excluded.ts_ms
	`, symbol, price, direction, ts, time.Now().UnixMilli())
	return err
}

// LatestPrice returns the last recorded price and direction for symbol.
func (r *Repo) LatestPrice(ctx context.Context, symbol string) (price float64, direction string, err error) {
	err = r.db.QueryRowContext(ctx, `SELECT price, direction FROM prices WHERE symbol=?`, symbol).
		Scan(&price, &direction)
	return
}

func (r *Repo) InsertSnapshot(ctx context.Context, runID string, ts int64, payload string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO snapshots(run_id, ts_ms, payload, created_at) VALUES(?, ?, ?, ?)`,
		runID, ts, payload, time.Now().UnixMilli())
	return err
}

// Snapshots lists the payloads recorded by one run, oldest first.
func (r *Repo) Snapshots(ctx context.Context, runID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT payload FROM snapshots WHERE run_id=? ORDER BY ts_ms, id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var _ port.Repository = (*Repo)(nil)
