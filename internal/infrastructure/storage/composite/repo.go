package composite

import (
	"context"
	"errors"

	"github.com/ascai1/oanda-wallpaper/internal/application/port"
)

// Repo fans every write out to all wrapped repositories.
type Repo struct {
	repos []port.Repository
}

func New(repos ...port.Repository) *Repo {
	// nil repos are allowed; filter in constructor for safety
	out := make([]port.Repository, 0, len(repos))
	for _, r := range repos {
		if r != nil {
			out = append(out, r)
		}
	}
	return &Repo{repos: out}
}

func (r *Repo) Len() int { return len(r.repos) }

// UpsertLatestPrice writes to every repository and returns the first error.
func (r *Repo) UpsertLatestPrice(ctx context.Context, symbol string, price float64, direction string, ts int64) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.UpsertLatestPrice(ctx, symbol, price, direction, ts); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) InsertSnapshot(ctx context.Context, runID string, ts int64, payload string) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.InsertSnapshot(ctx, runID, ts, payload); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close closes every repository, in reverse order.
func (r *Repo) Close() error {
	var errs []error
	for i := len(r.repos) - 1; i >= 0; i-- {
		if err := r.repos[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ port.Repository = (*Repo)(nil)
