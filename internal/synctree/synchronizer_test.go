package synctree

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/romforge/romforge/internal/report"
	"github.com/romforge/romforge/internal/scm"
)

type fakeClient struct {
	scm.Client

	failURLs  map[string]error
	cloned    []scm.CloneRequest
	checkouts [][]string
}

func (f *fakeClient) Clone(_ context.Context, req scm.CloneRequest) error {
	f.cloned = append(f.cloned, req)
	return f.failURLs[req.URL]
}

func (f *fakeClient) Checkout(_ context.Context, _ string, paths []string) error {
	f.checkouts = append(f.checkouts, paths)
	return nil
}

func TestSynchronizer_FailureDoesNotBlockRest(t *testing.T) {
	client := &fakeClient{
		failURLs: map[string]error{"https://example.com/broken.git": errors.New("connection refused")},
	}
	logger := zaptest.NewLogger(t)
	sync := NewSynchronizer(Config{}, client, logger)
	rep := report.New(logger, false)

	workDir := t.TempDir()
	specs := []SourceSpec{
		{Path: filepath.Join(workDir, "device"), URL: "https://example.com/device.git"},
		{Path: filepath.Join(workDir, "broken"), URL: "https://example.com/broken.git"},
		{Path: filepath.Join(workDir, "vendor"), URL: "https://example.com/vendor.git"},
	}

	outcomes := sync.Sync(context.Background(), specs, rep)

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].State != StateCloned {
		t.Errorf("first spec: expected StateCloned, got %v", outcomes[0].State)
	}
	if outcomes[1].State != StateFailed || outcomes[1].Reason != "clone-failed" {
		t.Errorf("second spec: expected clone failure, got %+v", outcomes[1])
	}
	if outcomes[2].State != StateCloned {
		t.Errorf("third spec: expected StateCloned, got %v", outcomes[2].State)
	}

	if len(client.cloned) != 3 {
		t.Errorf("every spec must be attempted, got %d clones", len(client.cloned))
	}
	if rep.Count(report.CategoryFailedClone) != 1 {
		t.Errorf("expected one failed-clone entry, got %d", rep.Count(report.CategoryFailedClone))
	}
	if rep.HasErrors() {
		t.Error("a failed clone is a soft failure, not a hard error")
	}
}

func TestSynchronizer_SparseCheckout(t *testing.T) {
	client := &fakeClient{}
	logger := zaptest.NewLogger(t)
	sync := NewSynchronizer(Config{}, client, logger)
	rep := report.New(logger, false)

	workDir := t.TempDir()
	specs := []SourceSpec{
		{
			Path:   filepath.Join(workDir, "frameworks"),
			URL:    "https://example.com/frameworks.git",
			Sparse: true,
			Paths:  []string{"base/core", "base/services"},
		},
	}

	outcomes := sync.Sync(context.Background(), specs, rep)

	if outcomes[0].State != StateCloned {
		t.Fatalf("expected StateCloned, got %+v", outcomes[0])
	}
	if len(client.cloned) != 1 || !client.cloned[0].NoCheckout {
		t.Error("sparse clone must request NoCheckout")
	}
	if len(client.checkouts) != 1 || len(client.checkouts[0]) != 2 {
		t.Errorf("expected one checkout with two paths, got %v", client.checkouts)
	}
}

func TestSynchronizer_Preview(t *testing.T) {
	client := &fakeClient{}
	logger := zaptest.NewLogger(t)
	sync := NewSynchronizer(Config{Preview: true}, client, logger)
	rep := report.New(logger, true)

	workDir := t.TempDir()
	specs := []SourceSpec{
		{Path: filepath.Join(workDir, "device"), URL: "https://example.com/device.git"},
	}

	outcomes := sync.Sync(context.Background(), specs, rep)

	if outcomes[0].State != StateSkipped || outcomes[0].Reason != "preview" {
		t.Errorf("expected preview skip, got %+v", outcomes[0])
	}
	if len(client.cloned) != 0 {
		t.Error("preview must not clone")
	}
}
