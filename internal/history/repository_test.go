package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap/zaptest"

	"github.com/romforge/romforge/internal/report"
)

func newRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(db, zaptest.NewLogger(t))
}

func finishedReport(t *testing.T, build func(*report.Report)) *report.Report {
	t.Helper()

	rep := report.New(zaptest.NewLogger(t), false)
	build(rep)
	rep.Finish()

	return rep
}

func TestRepository_SaveAndGet(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()

	rep := finishedReport(t, func(r *report.Report) {
		r.Success("cloned device tree")
		r.Warning("skipped patch: missing directory")
	})

	if err := repo.Save(ctx, rep); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	run, err := repo.Get(ctx, rep.ID.String())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if run.ID != rep.ID.String() {
		t.Errorf("expected id %s, got %s", rep.ID, run.ID)
	}
	if run.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", run.ExitCode)
	}
	if run.Counts[report.CategorySuccess] != 1 || run.Counts[report.CategoryWarning] != 1 {
		t.Errorf("unexpected counts %v", run.Counts)
	}
	if len(run.Entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(run.Entries))
	}
}

func TestRepository_GetUnknown(t *testing.T) {
	repo := newRepository(t)

	_, err := repo.Get(context.Background(), "no-such-run")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepository_ListNewestFirst(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		rep := finishedReport(t, func(r *report.Report) {
			r.Success("done")
		})
		if err := repo.Save(ctx, rep); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		ids = append(ids, rep.ID.String())
		time.Sleep(time.Millisecond)
	}

	runs, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	for i, run := range runs {
		if want := ids[len(ids)-1-i]; run.ID != want {
			t.Errorf("run %d: expected %s, got %s", i, want, run.ID)
		}
	}

	limited, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List with limit failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 runs with limit, got %d", len(limited))
	}
	if limited[0].ID != ids[2] {
		t.Errorf("expected newest run first, got %s", limited[0].ID)
	}
}
