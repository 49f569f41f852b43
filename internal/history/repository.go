package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/romforge/romforge/internal/report"
)

const (
	prefix = "run:"

	prefixByID      = prefix + "id:"
	prefixByStarted = prefix + "started:"

	seekEnd = byte(0xFF)
)

var ErrNotFound = errors.New("run not found")

// Run is the persisted form of a finished run report.
type Run struct {
	ID         string                  `json:"id"`
	StartedAt  time.Time               `json:"started_at"`
	FinishedAt time.Time               `json:"finished_at"`
	DryRun     bool                    `json:"dry_run"`
	ExitCode   int                     `json:"exit_code"`
	Counts     map[report.Category]int `json:"counts"`
	Entries    []report.Entry          `json:"entries"`
}

// Repository persists finished run reports to the embedded store so past
// runs stay inspectable after the process exits.
type Repository struct {
	db     *badger.DB
	logger *zap.Logger
}

func NewRepository(db *badger.DB, logger *zap.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Save stores a finished report, indexed by start time for listing.
func (r *Repository) Save(_ context.Context, rep *report.Report) error {
	run := newRun(rep)

	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		key := r.byIDKey(run.ID)
		if setErr := txn.Set(key, data); setErr != nil {
			return fmt.Errorf("failed to store run: %w", setErr)
		}

		index := r.byStartedKey(run)
		if setErr := txn.Set(index, key); setErr != nil {
			return fmt.Errorf("failed to index run: %w", setErr)
		}

		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("run report persisted", zap.String("run_id", run.ID))

	return nil
}

// Get returns one run by its identifier.
func (r *Repository) Get(_ context.Context, id string) (*Run, error) {
	var run Run

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(r.byIDKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			return fmt.Errorf("failed to get run: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &run)
		})
	})
	if err != nil {
		return nil, err
	}

	return &run, nil
}

// List returns up to limit runs, most recently started first.
func (r *Repository) List(_ context.Context, limit int) ([]Run, error) {
	var runs []Run

	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		options.Prefix = []byte(prefixByStarted)

		it := txn.NewIterator(options)
		defer it.Close()

		seek := append([]byte(prefixByStarted), seekEnd)
		for it.Seek(seek); it.ValidForPrefix([]byte(prefixByStarted)); it.Next() {
			if limit > 0 && len(runs) >= limit {
				break
			}

			key, err := it.Item().ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("failed to read run index: %w", err)
			}

			item, err := txn.Get(key)
			if err != nil {
				return fmt.Errorf("failed to get run: %w", err)
			}

			var run Run
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &run)
			}); err != nil {
				return fmt.Errorf("failed to unmarshal run: %w", err)
			}

			runs = append(runs, run)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return runs, nil
}

// Print logs the most recent runs, newest first.
func (r *Repository) Print(ctx context.Context, limit int) error {
	runs, err := r.List(ctx, limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		r.logger.Info("no recorded runs")
		return nil
	}

	for _, run := range runs {
		r.logger.Info("run",
			zap.String("run_id", run.ID),
			zap.Time("started_at", run.StartedAt),
			zap.Duration("elapsed", run.FinishedAt.Sub(run.StartedAt)),
			zap.Bool("dry_run", run.DryRun),
			zap.Int("exit_code", run.ExitCode),
			zap.Int("successes", run.Counts[report.CategorySuccess]),
			zap.Int("warnings", run.Counts[report.CategoryWarning]),
			zap.Int("errors", run.Counts[report.CategoryError]),
			zap.Int("failed_clones", run.Counts[report.CategoryFailedClone]),
			zap.Int("conflicts_resolved", run.Counts[report.CategoryConflictResolved]))
	}

	return nil
}

func newRun(rep *report.Report) Run {
	counts := make(map[report.Category]int)
	for _, entry := range rep.Entries {
		counts[entry.Category]++
	}

	return Run{
		ID:         rep.ID.String(),
		StartedAt:  rep.StartedAt,
		FinishedAt: rep.FinishedAt,
		DryRun:     rep.DryRun,
		ExitCode:   rep.ExitCode(),
		Counts:     counts,
		Entries:    rep.Entries,
	}
}

func (r *Repository) byIDKey(id string) []byte {
	return []byte(prefixByID + id)
}

func (r *Repository) byStartedKey(run Run) []byte {
	return []byte(prefixByStarted + run.StartedAt.UTC().Format(time.RFC3339Nano) + ":" + run.ID)
}
