package rename

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/romforge/romforge/internal/report"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestEngine_ContentSubstitution(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "device.mk"), "PRODUCT_NAME := lineage_foo\ninclude vendor/lineage_foo/common.mk\n")

	engine := NewEngine(Config{}, zaptest.NewLogger(t))
	rep := report.New(zaptest.NewLogger(t), false)

	rules := []Rule{{Source: "lineage_foo", Target: "acme_foo"}}
	result := engine.Apply(context.Background(), []string{root}, rules, rep)

	if result.FilesRewritten != 1 {
		t.Errorf("expected 1 file rewritten, got %d", result.FilesRewritten)
	}

	got := readFile(t, filepath.Join(root, "device.mk"))
	want := "PRODUCT_NAME := acme_foo\ninclude vendor/acme_foo/common.mk\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEngine_RenamePass(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "lineage_Foo.mk"), "content\n")

	engine := NewEngine(Config{}, zaptest.NewLogger(t))
	rep := report.New(zaptest.NewLogger(t), false)

	rules := []Rule{{Source: "lineage_Foo", Target: "acme_Foo"}}
	result := engine.Apply(context.Background(), []string{root}, rules, rep)

	if result.EntriesRenamed != 1 {
		t.Errorf("expected 1 rename, got %d", result.EntriesRenamed)
	}
	if _, err := os.Stat(filepath.Join(root, "acme_Foo.mk")); err != nil {
		t.Errorf("expected acme_Foo.mk to exist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "lineage_Foo.mk")); !os.IsNotExist(err) {
		t.Error("lineage_Foo.mk must no longer exist")
	}

	// Second pass is a no-op.
	result = engine.Apply(context.Background(), []string{root}, rules, rep)
	if result.EntriesRenamed != 0 || result.FilesRewritten != 0 {
		t.Errorf("expected a no-op second pass, got %+v", result)
	}
}

func TestEngine_DeepestFirstRename(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "overlay", "lineage_dir", "lineage_file.xml"), "<resources/>\n")

	engine := NewEngine(Config{}, zaptest.NewLogger(t))
	rep := report.New(zaptest.NewLogger(t), false)

	rules := []Rule{{Source: "lineage_", Target: "acme_"}}
	result := engine.Apply(context.Background(), []string{root}, rules, rep)

	if result.EntriesRenamed != 2 {
		t.Errorf("expected 2 renames, got %d", result.EntriesRenamed)
	}
	if _, err := os.Stat(filepath.Join(root, "overlay", "acme_dir", "acme_file.xml")); err != nil {
		t.Errorf("expected renamed nested entry: %v", err)
	}
}

func TestEngine_WordModeRespectsPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "system.prop"), "ro.lineage.device=foo\nro.lineagevariant=bar\n")
	writeFile(t, filepath.Join(root, "main.c"), "int lineage = 1;\n")

	engine := NewEngine(Config{}, zaptest.NewLogger(t))
	rep := report.New(zaptest.NewLogger(t), false)

	rules := []Rule{{Source: "lineage", Target: "acme", Mode: ModeWord, Patterns: []string{"*.prop"}}}
	engine.Apply(context.Background(), []string{root}, rules, rep)

	got := readFile(t, filepath.Join(root, "system.prop"))
	want := "ro.acme.device=foo\nro.lineagevariant=bar\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if got := readFile(t, filepath.Join(root, "main.c")); got != "int lineage = 1;\n" {
		t.Errorf("word rule must not touch files outside its patterns, got %q", got)
	}
}

func TestEngine_SkipsGitDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "lineage_ref"), "lineage_data\n")

	engine := NewEngine(Config{}, zaptest.NewLogger(t))
	rep := report.New(zaptest.NewLogger(t), false)

	rules := []Rule{{Source: "lineage_", Target: "acme_"}}
	result := engine.Apply(context.Background(), []string{root}, rules, rep)

	if result.FilesRewritten != 0 || result.EntriesRenamed != 0 {
		t.Errorf("expected .git to be skipped, got %+v", result)
	}
}

func TestEngine_AbsentRootIsSkipped(t *testing.T) {
	engine := NewEngine(Config{}, zaptest.NewLogger(t))
	rep := report.New(zaptest.NewLogger(t), false)

	result := engine.Apply(context.Background(), []string{filepath.Join(t.TempDir(), "missing")}, []Rule{{Source: "a", Target: "b"}}, rep)

	if result.FilesRewritten != 0 || result.EntriesRenamed != 0 {
		t.Errorf("expected absent root to be a silent skip, got %+v", result)
	}
	if rep.HasErrors() {
		t.Error("absent root must not record an error")
	}
}

func TestEngine_Preview(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "lineage_Foo.mk"), "lineage_Foo\n")

	engine := NewEngine(Config{Preview: true}, zaptest.NewLogger(t))
	rep := report.New(zaptest.NewLogger(t), true)

	rules := []Rule{{Source: "lineage_Foo", Target: "acme_Foo"}}
	engine.Apply(context.Background(), []string{root}, rules, rep)

	if _, err := os.Stat(filepath.Join(root, "lineage_Foo.mk")); err != nil {
		t.Error("preview mode must not rename files")
	}
	if got := readFile(t, filepath.Join(root, "lineage_Foo.mk")); got != "lineage_Foo\n" {
		t.Error("preview mode must not rewrite content")
	}
}
