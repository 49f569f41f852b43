package report

import (
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestReport_ExitCodeClean(t *testing.T) {
	rep := New(zaptest.NewLogger(t), false)
	rep.Success("cloned a")
	rep.Success("applied b")
	rep.Finish()

	if rep.ExitCode() != 0 {
		t.Errorf("expected exit code 0, got %d", rep.ExitCode())
	}
}

func TestReport_ExitCodeWithWarnings(t *testing.T) {
	rep := New(zaptest.NewLogger(t), false)
	rep.Success("cloned a")
	rep.FailedClone("failed to clone b")
	rep.Warning("partial checkout of c")
	rep.ConflictResolved("resolved d with strategy theirs")
	rep.Finish()

	if rep.ExitCode() != 0 {
		t.Errorf("soft failures must keep exit code 0, got %d", rep.ExitCode())
	}
	if rep.Count(CategoryFailedClone) != 1 {
		t.Errorf("expected 1 failed clone, got %d", rep.Count(CategoryFailedClone))
	}
}

func TestReport_ExitCodeWithErrors(t *testing.T) {
	rep := New(zaptest.NewLogger(t), false)
	rep.Success("cloned a")
	rep.Error("patch x failed")
	rep.Finish()

	if !rep.HasErrors() {
		t.Error("expected HasErrors")
	}
	if rep.ExitCode() != 1 {
		t.Errorf("expected exit code 1, got %d", rep.ExitCode())
	}
}

func TestReport_Counts(t *testing.T) {
	rep := New(zaptest.NewLogger(t), true)
	rep.Success("a")
	rep.Success("b")
	rep.Warning("c")

	if got := rep.Count(CategorySuccess); got != 2 {
		t.Errorf("expected 2 successes, got %d", got)
	}
	if got := rep.Count(CategoryError); got != 0 {
		t.Errorf("expected 0 errors, got %d", got)
	}
	if len(rep.Entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(rep.Entries))
	}
	if rep.ID.String() == "" {
		t.Error("expected a run id")
	}
}
