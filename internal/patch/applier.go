package patch

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/romforge/romforge/internal/conflict"
	"github.com/romforge/romforge/internal/report"
	"github.com/romforge/romforge/internal/scm"
)

type Config struct {
	Preview bool
}

// Applier layers single upstream commits onto local working trees: it
// registers the patch's remote, fetches it, cherry-picks the commit and
// drives the conflict resolver when the pick stops. Failures are recorded
// and never abort the batch.
type Applier struct {
	config   Config
	client   scm.Client
	resolver *conflict.Resolver
	logger   *zap.Logger
}

func NewApplier(config Config, client scm.Client, resolver *conflict.Resolver, logger *zap.Logger) *Applier {
	return &Applier{
		config:   config,
		client:   client,
		resolver: resolver,
		logger:   logger,
	}
}

// Apply applies one spec and records its outcome. A missing target directory
// is a skip, not a failure.
func (a *Applier) Apply(ctx context.Context, spec Spec, rep *report.Report) Outcome {
	a.logger.Info("applying patch",
		zap.String("path", spec.Path),
		zap.String("remote", spec.Remote),
		zap.String("commit", spec.Commit))

	if !a.client.IsRepository(spec.Path) {
		rep.Warning(fmt.Sprintf("skipping patch %s: missing directory %s", spec.Commit, spec.Path))
		return Outcome{State: StateSkipped, Reason: "missing-directory"}
	}

	if a.config.Preview {
		rep.Success(fmt.Sprintf("preview: would cherry-pick %s from %s onto %s", spec.Commit, spec.URL, spec.Path))
		return Outcome{State: StateSkipped, Reason: "preview"}
	}

	// Checkpoint local modifications so the pick starts from a clean state
	// and nothing is silently lost.
	dirty, err := a.client.HasUncommittedChanges(spec.Path)
	if err != nil {
		return a.failed(rep, spec, "apply-error", err)
	}
	if dirty {
		if err := a.client.Commit(ctx, spec.Path, "romforge: checkpoint local changes", false); err != nil {
			return a.failed(rep, spec, "apply-error", err)
		}
	}

	if err := a.client.EnsureRemote(ctx, spec.Path, spec.Remote, spec.URL); err != nil {
		return a.failed(rep, spec, "remote-error", err)
	}

	if err := a.client.Fetch(ctx, spec.Path, spec.Remote); err != nil {
		return a.failed(rep, spec, "fetch-error", err)
	}

	result, err := a.client.CherryPick(ctx, spec.Path, spec.Commit)
	if err != nil {
		// No conflicts detected, nothing to resolve: give up on this patch.
		if abortErr := a.client.AbortCherryPick(ctx, spec.Path); abortErr != nil {
			a.logger.Warn("failed to abort cherry-pick", zap.Error(abortErr))
		}
		return a.failed(rep, spec, "apply-error", err)
	}

	switch result.State {
	case scm.PickApplied:
		rep.Success(fmt.Sprintf("applied %s onto %s", spec.Commit, spec.Path))
		return Outcome{State: StateApplied}

	case scm.PickEmpty:
		rep.Success(fmt.Sprintf("patch %s already applied to %s", spec.Commit, spec.Path))
		return Outcome{State: StateAlreadyApplied}

	case scm.PickConflicted:
		return a.resolveAndContinue(ctx, spec, result.ConflictFiles, rep)

	default:
		return a.failed(rep, spec, "apply-error", fmt.Errorf("unexpected pick state %v", result.State))
	}
}

// resolveAndContinue rewrites each conflicted file with the spec's strategy,
// stages it and resumes the stopped pick.
func (a *Applier) resolveAndContinue(ctx context.Context, spec Spec, files []string, rep *report.Report) Outcome {
	for _, file := range files {
		if err := a.resolver.Resolve(filepath.Join(spec.Path, file), spec.Strategy); err != nil {
			if abortErr := a.client.AbortCherryPick(ctx, spec.Path); abortErr != nil {
				a.logger.Warn("failed to abort cherry-pick", zap.Error(abortErr))
			}
			return a.failed(rep, spec, "unresolvable", err)
		}

		if err := a.client.Stage(spec.Path, file); err != nil {
			if abortErr := a.client.AbortCherryPick(ctx, spec.Path); abortErr != nil {
				a.logger.Warn("failed to abort cherry-pick", zap.Error(abortErr))
			}
			return a.failed(rep, spec, "unresolvable", err)
		}

		rep.ConflictResolved(fmt.Sprintf("resolved %s with strategy %s", file, spec.Strategy))
	}

	result, err := a.client.ContinueCherryPick(ctx, spec.Path)
	if err != nil {
		if abortErr := a.client.AbortCherryPick(ctx, spec.Path); abortErr != nil {
			a.logger.Warn("failed to abort cherry-pick", zap.Error(abortErr))
		}
		return a.failed(rep, spec, "unresolvable", err)
	}

	if result.State == scm.PickEmpty {
		rep.Success(fmt.Sprintf("patch %s already applied to %s", spec.Commit, spec.Path))
		return Outcome{State: StateAlreadyApplied}
	}

	rep.Success(fmt.Sprintf("applied %s onto %s after conflict resolution", spec.Commit, spec.Path))
	return Outcome{State: StateApplied}
}

func (a *Applier) failed(rep *report.Report, spec Spec, reason string, err error) Outcome {
	rep.Error(fmt.Sprintf("patch %s on %s failed (%s): %v", spec.Commit, spec.Path, reason, err))
	return Outcome{State: StateFailed, Reason: reason}
}
