package synctree

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/romforge/romforge/internal/report"
	"github.com/romforge/romforge/internal/scm"
)

type Config struct {
	Preview bool
}

// SourceSpec describes one directory to materialize from a remote.
type SourceSpec struct {
	Path   string   // Destination directory
	URL    string   // Remote repository URL
	Ref    string   // Branch to clone, empty for the default branch
	Sparse bool     // Metadata-only clone with best-effort checkout
	Paths  []string // Directories to check out when Sparse is set
}

// CloneState classifies the per-spec result.
type CloneState int

const (
	StateCloned CloneState = iota
	StateFailed
	StateSkipped
)

// CloneOutcome is the result of materializing one SourceSpec.
type CloneOutcome struct {
	Spec   SourceSpec
	State  CloneState
	Reason string
}

// Synchronizer materializes the declared source directories in order. Each
// directory starts from a clean slate: an existing tree is removed before
// cloning, never merged into. One unreachable repository never blocks the
// rest.
type Synchronizer struct {
	config Config
	client scm.Client
	logger *zap.Logger
}

func NewSynchronizer(config Config, client scm.Client, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{
		config: config,
		client: client,
		logger: logger,
	}
}

// Sync processes every spec in order and records clone failures without
// stopping. The returned outcomes gate which directories later stages touch.
func (s *Synchronizer) Sync(ctx context.Context, specs []SourceSpec, rep *report.Report) []CloneOutcome {
	outcomes := make([]CloneOutcome, 0, len(specs))
	for _, spec := range specs {
		outcomes = append(outcomes, s.syncOne(ctx, spec, rep))
	}

	return outcomes
}

func (s *Synchronizer) syncOne(ctx context.Context, spec SourceSpec, rep *report.Report) CloneOutcome {
	s.logger.Info("synchronizing source tree",
		zap.String("path", spec.Path),
		zap.String("url", spec.URL),
		zap.String("ref", spec.Ref),
		zap.Bool("sparse", spec.Sparse))

	if s.config.Preview {
		rep.Success(fmt.Sprintf("preview: would clone %s at %s into %s", spec.URL, spec.Ref, spec.Path))
		return CloneOutcome{Spec: spec, State: StateSkipped, Reason: "preview"}
	}

	if err := os.RemoveAll(spec.Path); err != nil {
		rep.FailedClone(fmt.Sprintf("failed to clear %s: %v", spec.Path, err))
		return CloneOutcome{Spec: spec, State: StateFailed, Reason: "clear-failed"}
	}

	req := scm.CloneRequest{
		URL:        spec.URL,
		Ref:        spec.Ref,
		Directory:  spec.Path,
		NoCheckout: spec.Sparse,
	}

	if err := s.client.Clone(ctx, req); err != nil {
		rep.FailedClone(fmt.Sprintf("failed to clone %s into %s: %v", spec.URL, spec.Path, err))
		return CloneOutcome{Spec: spec, State: StateFailed, Reason: "clone-failed"}
	}

	if spec.Sparse {
		// Metadata cloning succeeded; missing files during the checkout are
		// tolerable, the partial tree still counts as synchronized.
		if err := s.client.Checkout(ctx, spec.Path, spec.Paths); err != nil {
			rep.Warning(fmt.Sprintf("partial checkout of %s: %v", spec.Path, err))
			return CloneOutcome{Spec: spec, State: StateCloned, Reason: "partial-checkout"}
		}
	}

	rep.Success(fmt.Sprintf("cloned %s into %s", spec.URL, spec.Path))
	return CloneOutcome{Spec: spec, State: StateCloned}
}
