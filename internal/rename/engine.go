package rename

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/romforge/romforge/internal/report"
)

// Mode selects how a rule matches file content.
type Mode int

const (
	// ModeSubstring replaces every literal occurrence of the source token.
	ModeSubstring Mode = iota
	// ModeWord replaces only word-boundary occurrences, and only in files
	// whose base name matches one of the rule's patterns.
	ModeWord
)

// ParseMode maps a manifest value to a Mode, defaulting to substring.
func ParseMode(s string) Mode {
	if s == "word" {
		return ModeWord
	}
	return ModeSubstring
}

// Rule maps a source naming token to its replacement. Matching is exact,
// never fuzzy: substring or word-boundary per Mode.
type Rule struct {
	Source   string
	Target   string
	Mode     Mode
	Patterns []string // Base-name globs gating word-mode content matches
}

type Config struct {
	Preview bool
}

// Result aggregates what one Apply pass did.
type Result struct {
	FilesRewritten int
	EntriesRenamed int
}

// Engine performs deterministic text substitution and file/directory
// renaming across a set of root directories. Every operation is independent:
// a failure is recorded and does not undo prior work.
type Engine struct {
	config Config
	logger *zap.Logger
}

func NewEngine(config Config, logger *zap.Logger) *Engine {
	return &Engine{
		config: config,
		logger: logger,
	}
}

// Apply runs the content pass and then the rename pass over each existing
// root, applying rules in their declared order. Absent roots are skipped
// silently. Re-running the pass is a no-op.
func (e *Engine) Apply(_ context.Context, roots []string, rules []Rule, rep *report.Report) Result {
	var result Result

	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			continue
		}

		e.logger.Info("substituting tokens", zap.String("root", root), zap.Int("rules", len(rules)))

		rewritten := e.contentPass(root, rules, rep)
		renamed := e.renamePass(root, rules, rep)
		result.FilesRewritten += rewritten
		result.EntriesRenamed += renamed

		if rewritten > 0 || renamed > 0 {
			rep.Success(fmt.Sprintf("rebranded %s: %d files rewritten, %d entries renamed", root, rewritten, renamed))
		}
	}

	return result
}

func (e *Engine) contentPass(root string, rules []Rule, rep *report.Report) int {
	changed := 0

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			rep.Error(fmt.Sprintf("failed to walk %s: %v", path, err))
			return nil
		}
		if entry.IsDir() {
			if entry.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		if e.rewriteFile(path, rules, rep) {
			changed++
		}
		return nil
	})
	if err != nil {
		rep.Error(fmt.Sprintf("failed to walk %s: %v", root, err))
	}

	return changed
}

// rewriteFile applies every matching rule to the file's content, each rule
// operating on the output of the previous one.
func (e *Engine) rewriteFile(path string, rules []Rule, rep *report.Report) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		rep.Error(fmt.Sprintf("failed to read %s: %v", path, err))
		return false
	}
	if bytes.IndexByte(data, 0) >= 0 {
		// binary
		return false
	}

	content := string(data)
	updated := content
	for _, rule := range rules {
		switch rule.Mode {
		case ModeWord:
			if !matchesPatterns(filepath.Base(path), rule.Patterns) {
				continue
			}
			re := regexp.MustCompile(`\b` + regexp.QuoteMeta(rule.Source) + `\b`)
			updated = re.ReplaceAllString(updated, rule.Target)
		default:
			updated = strings.ReplaceAll(updated, rule.Source, rule.Target)
		}
	}

	if updated == content {
		return false
	}

	if e.config.Preview {
		e.logger.Info("preview: would rewrite file", zap.String("file", path))
		return true
	}

	info, err := os.Stat(path)
	if err != nil {
		rep.Error(fmt.Sprintf("failed to stat %s: %v", path, err))
		return false
	}
	if err := os.WriteFile(path, []byte(updated), info.Mode()); err != nil {
		rep.Error(fmt.Sprintf("failed to rewrite %s: %v", path, err))
		return false
	}

	return true
}

// renamePass renames files and directories whose base name contains a source
// token, deepest entries first so parent renames never invalidate pending
// children paths.
func (e *Engine) renamePass(root string, rules []Rule, rep *report.Report) int {
	var candidates []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if entry.IsDir() && entry.Name() == ".git" {
			return filepath.SkipDir
		}
		if path == root {
			return nil
		}
		if renameBase(filepath.Base(path), rules) != filepath.Base(path) {
			candidates = append(candidates, path)
		}
		return nil
	})
	if err != nil {
		rep.Error(fmt.Sprintf("failed to walk %s: %v", root, err))
	}

	sort.Slice(candidates, func(i, j int) bool {
		di := strings.Count(candidates[i], string(filepath.Separator))
		dj := strings.Count(candidates[j], string(filepath.Separator))
		if di != dj {
			return di > dj
		}
		return candidates[i] > candidates[j]
	})

	renamed := 0
	for _, path := range candidates {
		target := filepath.Join(filepath.Dir(path), renameBase(filepath.Base(path), rules))
		if target == path {
			continue
		}

		if e.config.Preview {
			e.logger.Info("preview: would rename",
				zap.String("from", path),
				zap.String("to", target))
			renamed++
			continue
		}

		if err := os.Rename(path, target); err != nil {
			rep.Error(fmt.Sprintf("failed to rename %s: %v", path, err))
			continue
		}
		renamed++
	}

	return renamed
}

// renameBase applies each rule's token substitution to a base name in order.
func renameBase(base string, rules []Rule) string {
	for _, rule := range rules {
		base = strings.ReplaceAll(base, rule.Source, rule.Target)
	}
	return base
}

func matchesPatterns(base string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}
