package journal_test

import (
	"context"
	"path/filepath"
	"testing"

	"marquee/internal/journal"
)

func openStore(t *testing.T) *journal.Store {
	t.Helper()
	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBeginAndFinish(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if run.ID == "" || run.Status != journal.StatusRunning {
		t.Fatalf("unexpected run: %+v", run)
	}

	run.Status = journal.StatusSucceeded
	run.FeedEntries = 12
	run.Retained = 9
	run.Expired = 3
	if err := store.Finish(ctx, run); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	runs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.ID != run.ID || got.Status != journal.StatusSucceeded || got.Retained != 9 || got.Expired != 3 {
		t.Fatalf("unexpected journal row: %+v", got)
	}
	if got.FinishedAt.IsZero() {
		t.Fatal("expected finished timestamp")
	}
}

func TestRecentNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	var last string
	for i := 0; i < 3; i++ {
		run, err := store.Begin(ctx)
		if err != nil {
			t.Fatalf("Begin failed: %v", err)
		}
		run.Status = journal.StatusSucceeded
		if err := store.Finish(ctx, run); err != nil {
			t.Fatalf("Finish failed: %v", err)
		}
		last = run.ID
	}

	runs, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(runs))
	}
	if runs[0].ID != last {
		t.Fatalf("expected newest run first, got %+v", runs[0])
	}
}

func TestFailedRunKeepsError(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	run.Status = journal.StatusFailed
	run.Error = "fetch feed: unexpected status 502 Bad Gateway"
	if err := store.Finish(ctx, run); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	runs, err := store.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if runs[0].Status != journal.StatusFailed || runs[0].Error == "" {
		t.Fatalf("unexpected row: %+v", runs[0])
	}
}
