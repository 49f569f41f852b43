package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/romforge/romforge/internal/fetch"
	"github.com/romforge/romforge/internal/history"
	"github.com/romforge/romforge/internal/patch"
	"github.com/romforge/romforge/internal/rename"
	"github.com/romforge/romforge/internal/report"
	"github.com/romforge/romforge/internal/synctree"
)

type Config struct {
	Preview bool
	WorkDir string

	Sources   []synctree.SourceSpec
	Patches   []patch.Spec
	Artifacts []fetch.Artifact
	Rules     []rename.Rule
}

// Runner executes one full run: synchronize the declared source trees, layer
// the declared patches onto them in order, fetch auxiliary artifacts and
// finally rebrand the merged tree. The phases are strictly sequential; the
// substitution pass must never see a tree that has not finished patching.
type Runner struct {
	config  Config
	sync    *synctree.Synchronizer
	applier *patch.Applier
	engine  *rename.Engine
	fetcher *fetch.Fetcher
	history *history.Repository
	logger  *zap.Logger
}

func NewRunner(
	config Config,
	sync *synctree.Synchronizer,
	applier *patch.Applier,
	engine *rename.Engine,
	fetcher *fetch.Fetcher,
	hist *history.Repository,
	logger *zap.Logger,
) *Runner {
	return &Runner{
		config:  config,
		sync:    sync,
		applier: applier,
		engine:  engine,
		fetcher: fetcher,
		history: hist,
		logger:  logger,
	}
}

// Run executes every phase, records outcomes and returns the exit code.
func (r *Runner) Run(ctx context.Context) int {
	rep := report.New(r.logger, r.config.Preview)

	r.logger.Info("starting run",
		zap.String("run_id", rep.ID.String()),
		zap.String("work_dir", r.config.WorkDir),
		zap.Bool("dry_run", r.config.Preview),
		zap.Int("sources", len(r.config.Sources)),
		zap.Int("patches", len(r.config.Patches)),
		zap.Int("rules", len(r.config.Rules)))

	if err := os.MkdirAll(r.config.WorkDir, 0o755); err != nil {
		// Still attempt every unit of work; absolute spec paths may not
		// depend on the working directory at all.
		rep.Error(fmt.Sprintf("cannot prepare working directory %s: %v", r.config.WorkDir, err))
	}

	sources := make([]synctree.SourceSpec, len(r.config.Sources))
	for i, spec := range r.config.Sources {
		spec.Path = r.resolve(spec.Path)
		sources[i] = spec
	}
	r.sync.Sync(ctx, sources, rep)

	for _, spec := range r.config.Patches {
		spec.Path = r.resolve(spec.Path)
		r.applier.Apply(ctx, spec, rep)
	}

	for _, artifact := range r.config.Artifacts {
		artifact.Path = r.resolve(artifact.Path)
		if err := r.fetcher.Fetch(ctx, artifact); err != nil {
			rep.Error(fmt.Sprintf("failed to fetch %s: %v", artifact.URL, err))
			continue
		}
		rep.Success(fmt.Sprintf("fetched %s", artifact.URL))
	}

	roots := make([]string, len(sources))
	for i, spec := range sources {
		roots[i] = spec.Path
	}
	r.engine.Apply(ctx, roots, r.config.Rules, rep)

	rep.Finish()

	if err := r.history.Save(ctx, rep); err != nil {
		r.logger.Warn("failed to persist run report", zap.Error(err))
	}

	rep.Summarize()

	return rep.ExitCode()
}

func (r *Runner) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.config.WorkDir, path)
}
