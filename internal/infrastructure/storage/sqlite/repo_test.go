package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func newRepo(t *testing.T) *Repo {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepoUpsertPrice(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	if err := repo.UpsertLatestPrice(ctx, "EUR_USD", 1.2, "down", 1000); err != nil {
		t.Fatalf("UpsertLatestPrice failed: %v", err)
	}
	if err := repo.UpsertLatestPrice(ctx, "EUR_USD", 1.25, "up", 2000); err != nil {
		t.Fatalf("second UpsertLatestPrice failed: %v", err)
	}

	price, dir, err := repo.LatestPrice(ctx, "EUR_USD")
	if err != nil {
		t.Fatalf("LatestPrice failed: %v", err)
	}
	if price != 1.25 || dir != "up" {
		t.Errorf("expected 1.25 up, got %v %s", price, dir)
	}
}

func TestSQLiteRepoInsertSnapshot(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	repo.InsertSnapshot(ctx, "run-a", 1, `{"n":1}`)
	repo.InsertSnapshot(ctx, "run-b", 2, `{"n":2}`)
	repo.InsertSnapshot(ctx, "run-a", 3, `{"n":3}`)

	got, err := repo.Snapshots(ctx, "run-a")
	if err != nil {
		t.Fatalf("Snapshots failed: %v", err)
	}
	if len(got) != 2 || got[0] != `{"n":1}` || got[1] != `{"n":3}` {
		t.Errorf("unexpected snapshots %v", got)
	}
}

func TestSQLiteRepoReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	repo, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	repo.UpsertLatestPrice(ctx, "USD_JPY", 110.5, "up", 1)
	repo.Close()

	repo, err = New(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer repo.Close()

	if price, _, err := repo.LatestPrice(ctx, "USD_JPY"); err != nil || price != 110.5 {
		t.Errorf("expected persisted 110.5, got %v (%v)", price, err)
	}
}
