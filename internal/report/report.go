package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Category classifies a recorded run outcome.
type Category string

const (
	CategorySuccess          Category = "success"
	CategoryWarning          Category = "warning"
	CategoryError            Category = "error"
	CategoryFailedClone      Category = "failed-clone"
	CategoryConflictResolved Category = "conflict-resolved"
)

// Entry is one recorded outcome.
type Entry struct {
	Category Category  `json:"category"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}

// Report accumulates categorized outcomes over a run. Every entry is echoed
// through the logger as it is recorded and summarized again at the end. The
// run is single-threaded, so no locking is needed.
type Report struct {
	ID         uuid.UUID `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DryRun     bool      `json:"dry_run"`
	Entries    []Entry   `json:"entries"`

	logger *zap.Logger
}

func New(logger *zap.Logger, dryRun bool) *Report {
	return &Report{
		ID:        uuid.New(),
		StartedAt: time.Now(),
		DryRun:    dryRun,
		logger:    logger,
	}
}

func (r *Report) Success(message string) {
	r.record(CategorySuccess, message)
}

func (r *Report) Warning(message string) {
	r.record(CategoryWarning, message)
}

func (r *Report) Error(message string) {
	r.record(CategoryError, message)
}

func (r *Report) FailedClone(message string) {
	r.record(CategoryFailedClone, message)
}

func (r *Report) ConflictResolved(message string) {
	r.record(CategoryConflictResolved, message)
}

func (r *Report) record(category Category, message string) {
	r.Entries = append(r.Entries, Entry{
		Category: category,
		Message:  message,
		At:       time.Now(),
	})

	switch category {
	case CategorySuccess:
		r.logger.Info(message)
	case CategoryError:
		r.logger.Error(message)
	default:
		r.logger.Warn(message)
	}
}

// Finish stamps the report as completed.
func (r *Report) Finish() {
	r.FinishedAt = time.Now()
}

// Count returns how many entries were recorded in a category.
func (r *Report) Count(category Category) int {
	return lo.CountBy(r.Entries, func(e Entry) bool { return e.Category == category })
}

// HasErrors reports whether any hard error was recorded.
func (r *Report) HasErrors() bool {
	return r.Count(CategoryError) > 0
}

// ExitCode maps the accumulated outcomes to a process exit status: nonzero
// only when a hard error was recorded. Warnings and failed clones stay zero.
func (r *Report) ExitCode() int {
	if r.HasErrors() {
		return 1
	}
	return 0
}

// Summarize logs the categorized totals and re-lists every non-success entry.
func (r *Report) Summarize() {
	grouped := lo.GroupBy(r.Entries, func(e Entry) Category { return e.Category })

	r.logger.Info("run summary",
		zap.String("run_id", r.ID.String()),
		zap.Bool("dry_run", r.DryRun),
		zap.Duration("elapsed", r.FinishedAt.Sub(r.StartedAt)),
		zap.Int("successes", len(grouped[CategorySuccess])),
		zap.Int("warnings", len(grouped[CategoryWarning])),
		zap.Int("errors", len(grouped[CategoryError])),
		zap.Int("failed_clones", len(grouped[CategoryFailedClone])),
		zap.Int("conflicts_resolved", len(grouped[CategoryConflictResolved])))

	for _, category := range []Category{CategoryFailedClone, CategoryConflictResolved, CategoryWarning, CategoryError} {
		for _, entry := range grouped[category] {
			r.logger.Info("recorded outcome",
				zap.String("category", string(entry.Category)),
				zap.String("message", entry.Message))
		}
	}
}
